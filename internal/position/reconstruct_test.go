package position

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeNode is a minimal Node for exercising Reconstruct without a real IR.
type fakeNode struct {
	id       string
	base     NodeBase
	children []Node
}

func (n *fakeNode) Base() NodeBase   { return n.base }
func (n *fakeNode) Children() []Node { return n.children }

// lineRope implements RopeIndex over a fixed set of line lengths (each line
// includes its trailing newline byte).
type lineRope struct{ lineLengths []int }

func (r *lineRope) RowColAt(byteOffset int) (int, int) {
	row := 0
	consumed := 0
	for _, length := range r.lineLengths {
		if byteOffset < consumed+length {
			return row, byteOffset - consumed
		}
		consumed += length
		row++
	}
	return row, byteOffset - consumed
}

func TestReconstruct_SimpleChain(t *testing.T) {
	// "contract foo(@x) = { Nil }" — two top-level siblings stacked via
	// RelativeStart deltas from a zero prevEnd.
	leaf1 := &fakeNode{id: "foo", base: NodeBase{RelativeStart: Delta{Bytes: 9, Cols: 9}, ContentLength: 3, SyntacticLength: 3}}
	leaf2 := &fakeNode{id: "x", base: NodeBase{RelativeStart: Delta{Bytes: 2, Cols: 2}, ContentLength: 1, SyntacticLength: 1}}
	root := &fakeNode{
		id:       "root",
		base:     NodeBase{ContentLength: 26, SyntacticLength: 26},
		children: []Node{leaf1, leaf2},
	}

	ranges, err := Reconstruct("file:///a.rho", root, nil)
	require.NoError(t, err)

	fooRange := ranges[leaf1]
	require.Equal(t, Position{Row: 0, Col: 9, Byte: 9}, fooRange.Start)
	require.Equal(t, Position{Row: 0, Col: 12, Byte: 12}, fooRange.End)

	xRange := ranges[leaf2]
	require.Equal(t, Position{Row: 0, Col: 14, Byte: 14}, xRange.Start)

	// Root's end comes from its own syntactic_length, independent of its
	// last child's end — the canonical rule that fixes the "2-byte offset"
	// bug class.
	rootRange := ranges[root]
	require.Equal(t, Position{Row: 0, Col: 26, Byte: 26}, rootRange.End)
}

func TestReconstruct_RejectsMalformedNodeBase(t *testing.T) {
	bad := &fakeNode{base: NodeBase{ContentLength: 10, SyntacticLength: 5}}
	_, err := Reconstruct("file:///a.rho", bad, nil)
	require.Error(t, err)
}

func TestReconstruct_RejectsNegativeDelta(t *testing.T) {
	bad := &fakeNode{base: NodeBase{RelativeStart: Delta{Bytes: -1}, SyntacticLength: 1}}
	_, err := Reconstruct("file:///a.rho", bad, nil)
	require.Error(t, err)
}

func TestReconstruct_UsesRopeForMultilineEnd(t *testing.T) {
	rope := &lineRope{lineLengths: []int{10, 20, 5}}
	block := &fakeNode{base: NodeBase{SyntacticLength: 15}}
	ranges, err := Reconstruct("file:///a.rho", block, rope)
	require.NoError(t, err)
	require.Equal(t, 1, ranges[block].End.Row)
	require.Equal(t, 5, ranges[block].End.Col)
}

func TestPositionEquality_IgnoresByte(t *testing.T) {
	a := Position{Row: 1, Col: 2, Byte: 100}
	b := Position{Row: 1, Col: 2, Byte: 999}
	require.True(t, a.Equal(b))
	require.Equal(t, a.GridKey(), b.GridKey())
}

func TestRange_ZeroLengthContainsOnlyStart(t *testing.T) {
	p := Position{Row: 3, Col: 4}
	r := Range{Start: p, End: p}
	require.True(t, r.Contains(p))
	require.False(t, r.Contains(Position{Row: 3, Col: 5}))
}

func TestFindNodeAt_PrefersStrictlyContainingChild(t *testing.T) {
	inner := &fakeNode{id: "inner", base: NodeBase{RelativeStart: Delta{Bytes: 1, Cols: 1}, ContentLength: 2, SyntacticLength: 2}}
	outer := &fakeNode{id: "outer", base: NodeBase{ContentLength: 5, SyntacticLength: 5}, children: []Node{inner}}

	ranges, err := Reconstruct("file:///a.rho", outer, nil)
	require.NoError(t, err)

	found, ok := FindNodeAt(ranges, outer, Position{Row: 0, Col: 2})
	require.True(t, ok)
	require.Same(t, inner, found)
}

func TestFindNodeAt_EdgeContainmentPrefersLaterSibling(t *testing.T) {
	first := &fakeNode{id: "first", base: NodeBase{ContentLength: 2, SyntacticLength: 2}}
	second := &fakeNode{id: "second", base: NodeBase{RelativeStart: Delta{}, ContentLength: 2, SyntacticLength: 2}}
	root := &fakeNode{id: "root", base: NodeBase{ContentLength: 4, SyntacticLength: 4}, children: []Node{first, second}}

	ranges, err := Reconstruct("file:///a.rho", root, nil)
	require.NoError(t, err)

	// Position 2 is first's end-edge and second's start-edge simultaneously.
	found, ok := FindNodeAt(ranges, root, Position{Row: 0, Col: 2})
	require.True(t, ok)
	require.Same(t, second, found)
}

func TestUTF16ByteColRoundTrip(t *testing.T) {
	line := "let \xf0\x9f\x98\x80x = 1" // emoji (4-byte UTF-8, 2 UTF-16 units) then 'x'
	byteCol := UTF16ToByteCol(line, 6)  // "let " (4 units) + 2 surrogate units
	require.Equal(t, ByteToUTF16Col(line, byteCol), 6)
}
