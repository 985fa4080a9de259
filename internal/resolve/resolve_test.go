package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rholang-lsp/internal/metta"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/symbols"
)

func TestLexical_ResolvesInnermostDeclaration(t *testing.T) {
	table := symbols.NewTable(nil)
	outer := table.Root
	inner := table.NewChildScope(outer)
	p := position.Position{Row: 0, Col: 0, Byte: 0}
	outer.Names["x"] = &symbols.Symbol{Name: "x", DeclURI: "file:///outer.rho", DeclRange: position.Range{Start: p, End: p}}
	inner.Names["x"] = &symbols.Symbol{Name: "x", DeclURI: "file:///inner.rho", DeclRange: position.Range{Start: p, End: p}}

	r := &Lexical{Scope: inner}
	cands := r.Resolve("x")
	require.Len(t, cands, 1)
	require.Equal(t, Exact, cands[0].Confidence)
	require.Equal(t, "file:///inner.rho", cands[0].Location.URI)
}

func TestLexical_UnresolvedReturnsNil(t *testing.T) {
	table := symbols.NewTable(nil)
	r := &Lexical{Scope: table.Root}
	require.Empty(t, r.Resolve("missing"))
}

func TestPatternFiltered_ExactArityWins(t *testing.T) {
	src := "(= (f $x) $x)\n(= (f $x $y) $y)"
	table := metta.BuildTable(src)
	r := &PatternFiltered{URI: "file:///a.rho#vdoc:0", Table: table, CallArity: 2}

	cands := r.Resolve("f")
	require.Len(t, cands, 1)
	require.Equal(t, Exact, cands[0].Confidence)
}

func TestPatternFiltered_UnknownArityReturnsAllAsAmbiguous(t *testing.T) {
	src := "(= (f $x) $x)\n(= (f $x $y) $y)"
	table := metta.BuildTable(src)
	r := &PatternFiltered{URI: "file:///a.rho#vdoc:0", Table: table, CallArity: -1}

	cands := r.Resolve("f")
	require.Len(t, cands, 2)
	for _, c := range cands {
		require.Equal(t, Ambiguous, c.Confidence)
	}
}

func TestFlatGlobal_MultipleHitsAreAmbiguous(t *testing.T) {
	r := &FlatGlobal{Lookup: func(name string) []symbols.Location {
		return []symbols.Location{{URI: "file:///a.rho"}, {URI: "file:///b.rho"}}
	}}
	cands := r.Resolve("foo")
	require.Len(t, cands, 2)
	require.Equal(t, Ambiguous, cands[0].Confidence)
}

func TestComposable_FallsBackWhenBaseEmpty(t *testing.T) {
	empty := ResolverFunc(func(string) []Candidate { return nil })
	fallback := ResolverFunc(func(name string) []Candidate {
		return []Candidate{{Location: symbols.Location{URI: "file:///global.rho"}, Confidence: Exact}}
	})
	c := &Composable{Base: empty, Fallbacks: []Resolver{fallback}}

	cands := c.Resolve("foo")
	require.Len(t, cands, 1)
	require.Equal(t, "file:///global.rho", cands[0].Location.URI)
}
