package lang

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rholang-lsp/internal/ir"
	"github.com/standardbeagle/rholang-lsp/internal/metta"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/symbols"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	host := NewHost("file:///a.rho", &ir.Node{Kind: ir.KindProcessGroup}, nil, symbols.NewTable(nil), func(string) []symbols.Location { return nil })
	reg.Register(host)

	got, ok := reg.Get("rholang")
	require.True(t, ok)
	require.Equal(t, "rholang", got.Language())

	_, ok = reg.Get("unknown")
	require.False(t, ok)
}

func TestHost_CompletionCandidatesListsScopeNames(t *testing.T) {
	table := symbols.NewTable(nil)
	p := position.Position{}
	table.Root.Names["foo"] = &symbols.Symbol{Name: "foo", Kind: symbols.KindContract, Pattern: &symbols.PatternSignature{ParamNames: []string{"x"}}, DeclRange: position.Range{Start: p, End: p}}

	h := NewHost("file:///a.rho", &ir.Node{}, nil, table, func(string) []symbols.Location { return nil })
	items := h.CompletionCandidates(p)
	require.Len(t, items, 1)
	require.Equal(t, "foo", items[0].Label)
	require.Equal(t, "contract(1)", items[0].Detail)
}

func TestMeTTa_HoverReturnsPatternSignature(t *testing.T) {
	source := "(= (double $x) (* $x 2))"
	table := metta.BuildTable(source)
	m := NewMeTTa("file:///a.rho#vdoc:0", source, table, func(string) []symbols.Location { return nil })

	// "double" starts at column 4 (after "(= (").
	hover, ok := m.Hover(position.Position{Row: 0, Col: 4, Byte: 4})
	require.True(t, ok)
	require.Equal(t, "(double/1)", hover.Contents)
}

func TestMeTTa_HoverOutsideAnyAtomReturnsFalse(t *testing.T) {
	source := "(= (f $x) $x)"
	table := metta.BuildTable(source)
	m := NewMeTTa("file:///a.rho#vdoc:0", source, table, func(string) []symbols.Location { return nil })
	_, ok := m.Hover(position.Position{Row: 5, Col: 0, Byte: 999})
	require.False(t, ok)
}
