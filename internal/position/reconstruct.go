package position

import (
	"fmt"

	"github.com/standardbeagle/rholang-lsp/internal/lsperrors"
)

// Node is the minimal capability a tree must expose for reconstruction and
// position lookup: its own NodeBase and an ordered list of children. IR
// nodes (internal/ir) and virtual-document nodes both satisfy this so the
// traversal logic here is written once.
type Node interface {
	Base() NodeBase
	Children() []Node
}

// RopeIndex resolves a document-absolute byte offset to its (row, col),
// needed because a node's syntactic_length is a byte count: recovering the
// row/col of its end requires knowing how many newlines fall within that
// span, which only the source rope can answer. Reconstruct falls back to a
// single-line assumption when rope is nil (adequate for synthetic trees in
// tests that don't carry real source text).
type RopeIndex interface {
	RowColAt(byteOffset int) (row, col int)
}

// Reconstruct walks root once, threading a running prevEnd, and returns the
// absolute (start, end) range of every node reachable from root. It fails
// with a lsperrors.MalformedNodeBase if any node violates the dual-length
// invariant or carries a negative delta.
func Reconstruct(uri string, root Node, rope RopeIndex) (map[Node]Range, error) {
	ranges := make(map[Node]Range)
	zero := Position{}
	if _, err := reconstructNode(uri, root, zero, rope, ranges); err != nil {
		return nil, err
	}
	return ranges, nil
}

// reconstructNode computes and records the range of n given the end
// position of whatever preceded it, and returns n's own end so the caller
// can feed it to n's next sibling.
func reconstructNode(uri string, n Node, prevEnd Position, rope RopeIndex, out map[Node]Range) (Position, error) {
	base := n.Base()
	if err := base.Validate(); err != nil {
		return Position{}, &lsperrors.MalformedNodeBase{URI: uri, Detail: err.Error()}
	}

	start := base.RelativeStart.Apply(prevEnd)
	end := advanceByLength(start, base.SyntacticLength, rope)

	// Walk children: the parent's first child starts from `start` (after any
	// syntactic prefix, encoded in the child's own relative_start), and each
	// subsequent child starts from the previous child's computed end. The
	// parent's own `end` is NEVER derived from the last child — it is fixed
	// above from syntactic_length, which is the rule that avoids the
	// classic "last child's end" off-by-a-few-bytes bug.
	childEnd := start
	for _, child := range n.Children() {
		var err error
		childEnd, err = reconstructNode(uri, child, childEnd, rope, out)
		if err != nil {
			return Position{}, err
		}
	}

	out[n] = Range{Start: start, End: end}
	return end, nil
}

// advanceByLength derives a node's end from its start and its byte-counted
// syntactic_length. With a rope it looks up the true row/col at the
// resulting byte offset; without one it assumes the span stays on the
// start's row (correct for any single-line node, which covers most leaf
// tokens and is the documented fallback for rope-less synthetic trees).
func advanceByLength(start Position, syntacticLength int, rope RopeIndex) Position {
	endByte := start.Byte + syntacticLength
	if rope == nil {
		return Position{Row: start.Row, Col: start.Col + syntacticLength, Byte: endByte}
	}
	row, col := rope.RowColAt(endByte)
	return Position{Row: row, Col: col, Byte: endByte}
}

// FindNodeAt performs a depth-first descent from root, returning the
// deepest node whose reconstructed range contains pos. Ties among children
// that share the position prefer the first strictly-containing child; if
// only edge containment is available, the later sibling wins (matches the
// right-edge identifier semantics most editors use for hover/definition).
func FindNodeAt(ranges map[Node]Range, root Node, pos Position) (Node, bool) {
	n, _, ok := FindNodeWithPath(ranges, root, pos)
	return n, ok
}

// FindNodeWithPath is FindNodeAt plus the stack of ancestors from root
// (inclusive) down to the returned node's parent, in outer-to-inner order.
// Hover over a declaration name uses the ancestor stack to fall back to the
// declaration node when looking for attached documentation.
func FindNodeWithPath(ranges map[Node]Range, root Node, pos Position) (Node, []Node, bool) {
	r, ok := ranges[root]
	if !ok || !r.Contains(pos) {
		return nil, nil, false
	}

	var strictMatch, edgeMatch Node
	var strictPath, edgePath []Node
	for _, child := range root.Children() {
		cr, ok := ranges[child]
		if !ok {
			continue
		}
		if !cr.Contains(pos) {
			continue
		}
		found, path, ok := FindNodeWithPath(ranges, child, pos)
		if !ok {
			continue
		}
		if cr.StrictlyContains(pos) {
			if strictMatch == nil {
				strictMatch = found
				strictPath = append([]Node{root}, path...)
			}
		} else {
			// Edge containment: later sibling wins, so always overwrite.
			edgeMatch = found
			edgePath = append([]Node{root}, path...)
		}
	}

	if strictMatch != nil {
		return strictMatch, strictPath, true
	}
	if edgeMatch != nil {
		return edgeMatch, edgePath, true
	}
	return root, nil, true
}

// ClampToDocument clamps a byte position past end-of-file to the document's
// end, per the empty-file and past-EOF edge policies.
func ClampToDocument(pos Position, docEnd Position) Position {
	if docEnd.Less(pos) {
		return docEnd
	}
	return pos
}

// UTF16ToByteCol converts a zero-based UTF-16 code-unit column (as LSP sends
// it) to a zero-based UTF-8 byte column within the given line content.
func UTF16ToByteCol(line string, utf16Col int) int {
	units := 0
	for byteIdx, r := range line {
		if units >= utf16Col {
			return byteIdx
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return len(line)
}

// ByteToUTF16Col converts a zero-based UTF-8 byte column within line to the
// zero-based UTF-16 code-unit column LSP expects.
func ByteToUTF16Col(line string, byteCol int) int {
	if byteCol > len(line) {
		byteCol = len(line)
	}
	units := 0
	for byteIdx, r := range line[:byteCol] {
		_ = byteIdx
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return units
}

// LSPPosition is the (line, character) pair LSP transmits, in UTF-16 code
// units for character.
type LSPPosition struct {
	Line      int
	Character int
}

func (p LSPPosition) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Character) }

// ToLSP converts a host Position to LSP coordinates given the source line's
// content (needed for the UTF-8-byte -> UTF-16-unit conversion).
func ToLSP(p Position, lineContent string) LSPPosition {
	return LSPPosition{Line: p.Row, Character: ByteToUTF16Col(lineContent, p.Col)}
}

// FromLSP converts an LSP position back to host coordinates. lineStartByte
// is the document-absolute byte offset of the start of lineContent, used to
// populate Position.Byte.
func FromLSP(p LSPPosition, lineContent string, lineStartByte int) Position {
	col := UTF16ToByteCol(lineContent, p.Character)
	return Position{Row: p.Line, Col: col, Byte: lineStartByte + col}
}
