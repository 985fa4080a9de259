package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rholang-lsp/internal/comments"
	"github.com/standardbeagle/rholang-lsp/internal/ir"
	"github.com/standardbeagle/rholang-lsp/internal/position"
)

func at(row, col, byte int) position.Range {
	p := position.Position{Row: row, Col: col, Byte: byte}
	return position.Range{Start: p, End: p}
}

// buildRanges is a tiny stand-in for position.Reconstruct: it lets the test
// assign explicit ranges per node rather than re-deriving them from deltas.
func buildRanges(pairs map[*ir.Node]position.Range) map[position.Node]position.Range {
	out := make(map[position.Node]position.Range, len(pairs))
	for n, r := range pairs {
		out[n] = r
	}
	return out
}

func TestBuilder_ContractDeclarationAndReference(t *testing.T) {
	// contract foo(@x) = { Nil }   ... and a reference `foo` elsewhere.
	nameNode := &ir.Node{Kind: ir.KindIdentifier, Text: "foo"}
	param := &ir.Node{Kind: ir.KindParam, Text: "x"}
	body := &ir.Node{Kind: ir.KindNil}
	contract := &ir.Node{Kind: ir.KindContract, ChildNodes: []*ir.Node{nameNode, param, body}}

	ref := &ir.Node{Kind: ir.KindIdentifier, Text: "foo"}
	root := &ir.Node{Kind: ir.KindProcessGroup, ChildNodes: []*ir.Node{contract, ref}}

	ranges := buildRanges(map[*ir.Node]position.Range{
		root:     at(0, 0, 0),
		contract: at(0, 0, 0),
		nameNode: at(0, 9, 9),
		param:    at(0, 13, 13),
		body:     at(0, 21, 21),
		ref:      at(1, 0, 30),
	})

	b := NewBuilder("file:///a.rho", ranges, comments.Channel{}, nil)
	res := b.Build(root)

	require.Empty(t, res.Diagnostics)
	sym, ok := res.Table.Root.Lookup("foo")
	require.True(t, ok)
	require.Equal(t, KindContract, sym.Kind)
	require.Equal(t, 1, sym.Pattern.Arity())

	require.Len(t, res.References, 1)
	require.Equal(t, sym.DeclPos, res.References[0].DeclPos)
}

func TestBuilder_DuplicateDeclarationYieldsDiagnosticNotPanic(t *testing.T) {
	first := &ir.Node{Kind: ir.KindIdentifier, Text: "foo"}
	firstContract := &ir.Node{Kind: ir.KindContract, ChildNodes: []*ir.Node{first}}
	second := &ir.Node{Kind: ir.KindIdentifier, Text: "foo"}
	secondContract := &ir.Node{Kind: ir.KindContract, ChildNodes: []*ir.Node{second}}
	root := &ir.Node{Kind: ir.KindProcessGroup, ChildNodes: []*ir.Node{firstContract, secondContract}}

	ranges := buildRanges(map[*ir.Node]position.Range{
		root: at(0, 0, 0), firstContract: at(0, 0, 0), first: at(0, 9, 9),
		secondContract: at(1, 0, 20), second: at(1, 9, 29),
	})

	b := NewBuilder("file:///a.rho", ranges, comments.Channel{}, nil)
	require.NotPanics(t, func() {
		res := b.Build(root)
		require.Len(t, res.Diagnostics, 1)
	})
}
