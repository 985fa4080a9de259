package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rholang-lsp/internal/comments"
	"github.com/standardbeagle/rholang-lsp/internal/ir/cst"
	"github.com/standardbeagle/rholang-lsp/internal/position"
)

// fakeCST is a minimal cst.Node for testing the converter without a real
// grammar driver.
type fakeCST struct {
	kind              string
	startB, endB      int
	startR, startC    int
	endR, endC        int
	children          []cst.Node
	named             bool
	content           string
}

func (f *fakeCST) Kind() string                  { return f.kind }
func (f *fakeCST) StartByte() int                { return f.startB }
func (f *fakeCST) EndByte() int                  { return f.endB }
func (f *fakeCST) StartPoint() (int, int)        { return f.startR, f.startC }
func (f *fakeCST) EndPoint() (int, int)           { return f.endR, f.endC }
func (f *fakeCST) Children() []cst.Node          { return f.children }
func (f *fakeCST) IsNamed() bool                 { return f.named }
func (f *fakeCST) Content(source []byte) string  { return f.content }

func TestConvert_ContractIncludesClosingBrace(t *testing.T) {
	// contract foo(@x) = { Nil }
	//           ^9       ^21..24 "Nil"    closing brace at byte 25
	src := []byte("contract foo(@x) = { Nil }")

	nilNode := &fakeCST{kind: "nil", named: true, startB: 21, endB: 24, startR: 0, startC: 21, endR: 0, endC: 24, content: "Nil"}
	brace := &fakeCST{kind: "}", named: false, startB: 25, endB: 26, startR: 0, startC: 25, endR: 0, endC: 26}

	contract := &fakeCST{
		kind: "contract", named: true,
		startB: 0, endB: 26, startR: 0, startC: 0, endR: 0, endC: 26,
		children: []cst.Node{nilNode, brace},
	}

	conv := NewConverter(src)
	root := conv.Convert(contract)

	require.Equal(t, KindContract, root.Kind)
	// content_length covers up to "Nil"'s end (24), syntactic_length covers
	// the closing brace (ending at 26) too — this is the invariant the
	// dual-length helper exists to guarantee.
	require.Equal(t, 24, root.NodeBase.ContentLength)
	require.Equal(t, 26, root.NodeBase.SyntacticLength)
	require.NoError(t, root.NodeBase.Validate())

	ranges, err := position.Reconstruct("file:///a.rho", root, nil)
	require.NoError(t, err)
	require.Equal(t, 26, ranges[root].End.Byte)
}

func TestConvert_LeafHasEqualContentAndSyntacticLength(t *testing.T) {
	src := []byte("foo")
	leaf := &fakeCST{kind: "identifier", named: true, startB: 0, endB: 3, startR: 0, startC: 0, endR: 0, endC: 3, content: "foo"}
	conv := NewConverter(src)
	root := conv.Convert(leaf)
	require.Equal(t, root.NodeBase.ContentLength, root.NodeBase.SyntacticLength)
	require.Equal(t, "foo", root.Text)
}

func TestConvert_SkipsAnonymousTokens(t *testing.T) {
	src := []byte("(x)")
	ident := &fakeCST{kind: "identifier", named: true, startB: 1, endB: 2, startC: 1, endC: 2, content: "x"}
	open := &fakeCST{kind: "(", named: false, startB: 0, endB: 1}
	close := &fakeCST{kind: ")", named: false, startB: 2, endB: 3}
	group := &fakeCST{kind: "param", named: true, startB: 0, endB: 3, endC: 3, children: []cst.Node{open, ident, close}}

	conv := NewConverter(src)
	root := conv.Convert(group)
	require.Len(t, root.ChildNodes, 1)
	require.Equal(t, "x", root.ChildNodes[0].Text)
}

func TestConvert_ExtractsCommentsOutOfTreeIntoChannel(t *testing.T) {
	// /// foo does a thing
	// contract foo() = { Nil }
	src := []byte("/// foo does a thing\ncontract foo() = { Nil }")

	doc := &fakeCST{kind: "comment", named: true, startB: 0, endB: 20, content: "/// foo does a thing"}
	nameNode := &fakeCST{kind: "identifier", named: true, startB: 30, endB: 33, startC: 30, endC: 33, content: "foo"}
	nilNode := &fakeCST{kind: "nil", named: true, startB: 42, endB: 45, startC: 42, endC: 45, content: "Nil"}
	brace := &fakeCST{kind: "}", named: false, startB: 46, endB: 47}
	contract := &fakeCST{
		kind: "contract", named: true,
		startB: 21, endB: 47, startC: 21, endC: 47,
		children: []cst.Node{nameNode, nilNode, brace},
	}
	root := &fakeCST{
		kind: "source_file", named: true,
		startB: 0, endB: 47, endC: 47,
		children: []cst.Node{doc, contract},
	}

	conv := NewConverter(src)
	irRoot := conv.Convert(root)

	// The comment never appears as an IR child; only the contract does.
	require.Len(t, irRoot.ChildNodes, 1)
	require.Equal(t, KindContract, irRoot.ChildNodes[0].Kind)

	cs := conv.Comments()
	require.Len(t, cs, 1)
	require.Equal(t, "/// foo does a thing", cs[0].Content)
	require.Equal(t, comments.KindDocLine, cs[0].Kind)
}
