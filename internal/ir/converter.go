package ir

import (
	"github.com/standardbeagle/rholang-lsp/internal/comments"
	"github.com/standardbeagle/rholang-lsp/internal/ir/cst"
	"github.com/standardbeagle/rholang-lsp/internal/position"
)

// commentGrammarRules names the grammar rules the driver emits for comment
// tokens. Matching nodes are pulled out of the tree into the parallel
// comment channel instead of becoming IR children, per the comment
// channel's "produced alongside, never embedded" contract.
var commentGrammarRules = map[string]bool{
	"comment":       true,
	"line_comment":  true,
	"block_comment": true,
	"doc_comment":   true,
}

// kindByGrammarRule maps the external grammar's rule names to our Kind
// taxonomy. A driver that names rules differently only needs to extend this
// table, never touch the conversion algorithm below.
var kindByGrammarRule = map[string]Kind{
	"source_file":    KindProcessGroup,
	"block":          KindProcessGroup,
	"par":            KindPar,
	"send":           KindSend,
	"input":          KindInput,
	"contract":       KindContract,
	"new":            KindNew,
	"name_decl":      KindNameDecl,
	"identifier":     KindIdentifier,
	"param":          KindParam,
	"string_literal": KindStringLit,
	"int_literal":    KindIntLit,
	"bool_literal":   KindBoolLit,
	"nil":            KindNil,
	"collection":     KindCollection,
	"match":          KindMatch,
	"match_case":     KindMatchCase,
	"if_else":        KindIfElse,
	"quote":          KindQuote,
	"eval":           KindEval,
}

// kindsWithClosingDelimiter lists variants whose syntactic extent includes a
// trailing delimiter the last meaningful child does not cover (`}`, `)`, a
// closing bracket, or an optional trailing `(Uri)` on a name declaration).
// These MUST go through NewNodeWithDualLength rather than being content-only.
var kindsWithClosingDelimiter = map[Kind]bool{
	KindProcessGroup: true,
	KindSend:         true,
	KindInput:        true,
	KindContract:     true,
	KindNameDecl:     true,
	KindCollection:   true,
}

// Converter turns a CST, produced by an external parser, into an IR tree.
// It owns no grammar knowledge beyond kindByGrammarRule and is otherwise
// generic: the dual-length computation is the only place position
// correctness can go wrong, so it is isolated in one helper.
type Converter struct {
	source         []byte
	rawComments    []comments.Comment
	prevCommentEnd position.Position
}

// NewConverter builds a Converter over the given source bytes; the same
// bytes must back every CST node passed to Convert.
func NewConverter(source []byte) *Converter {
	return &Converter{source: source}
}

// Convert transforms root into an IR tree rooted at the returned Node, with
// every NodeBase satisfying the reconstruction invariant. Comment tokens
// encountered along the way are not part of the tree; retrieve them
// afterwards via Comments.
func (c *Converter) Convert(root cst.Node) *Node {
	node, _ := c.convertNode(root, position.Position{})
	return node
}

// Comments returns the ordered, document-wide comment sequence accumulated
// by the last Convert call, ready for comments.Build.
func (c *Converter) Comments() []comments.Comment {
	return c.rawComments
}

// convertNode converts n and returns (irNode, absoluteEndFromCST). The
// second return value is taken directly from the CST's own EndByte/EndPoint
// — NEVER from the last child's computed end. That is the rule that fixes
// the historical "2-byte offset" bug class: a node's trailing delimiter
// (the `}` of a block, the `)` of a send, an optional trailing `(Uri)` on a
// name declaration) is not owned by any child, so deriving end-of-node from
// children alone silently drops it.
func (c *Converter) convertNode(n cst.Node, prevEnd position.Position) (*Node, position.Position) {
	startRow, startCol := n.StartPoint()
	start := position.Position{Row: startRow, Col: startCol, Byte: n.StartByte()}
	endRow, endCol := n.EndPoint()
	absEnd := position.Position{Row: endRow, Col: endCol, Byte: n.EndByte()}

	kind := kindByGrammarRule[n.Kind()]
	if kind == "" {
		kind = Kind(n.Kind())
	}

	var children []*Node
	childPrevEnd := start
	var lastChildEnd position.Position
	hasChildren := false
	for _, cc := range n.Children() {
		if commentGrammarRules[cc.Kind()] {
			c.recordComment(cc)
			continue
		}
		if !cc.IsNamed() {
			continue // Anonymous punctuation tokens are not IR nodes; their
			// bytes are absorbed into the parent's syntactic_length instead.
		}
		childNode, childEnd := c.convertNode(cc, childPrevEnd)
		children = append(children, childNode)
		childPrevEnd = childEnd
		lastChildEnd = childEnd
		hasChildren = true
	}

	delta := deltaFrom(prevEnd, start)
	var base position.NodeBase
	if hasChildren && kindsWithClosingDelimiter[kind] {
		base = NewDualLengthBase(delta, start, lastChildEnd, absEnd)
	} else if hasChildren {
		base = NewDualLengthBase(delta, start, lastChildEnd, lastChildEnd)
	} else {
		// Leaf: content and syntactic extents coincide.
		leafLen := absEnd.Byte - start.Byte
		base = position.NodeBase{RelativeStart: delta, ContentLength: leafLen, SyntacticLength: leafLen}
	}

	node := &Node{Kind: kind, NodeBase: base, ChildNodes: children}
	if !hasChildren {
		node.Text = n.Content(c.source)
	}
	return node, absEnd
}

// recordComment appends n to the document-wide comment sequence. Comments
// are never IR children, so they are excluded from the parent's child list
// entirely; the gap their bytes occupy is simply absorbed into the next
// real sibling's delta, the same as an anonymous punctuation token.
func (c *Converter) recordComment(n cst.Node) {
	startRow, startCol := n.StartPoint()
	start := position.Position{Row: startRow, Col: startCol, Byte: n.StartByte()}
	endRow, endCol := n.EndPoint()
	end := position.Position{Row: endRow, Col: endCol, Byte: n.EndByte()}

	raw := n.Content(c.source)
	delta := deltaFrom(c.prevCommentEnd, start)
	c.rawComments = append(c.rawComments, comments.Comment{
		RelativeStart: delta,
		Length:        end.Byte - start.Byte,
		Content:       raw,
		Kind:          comments.ClassifyDelimited(raw),
	})
	c.prevCommentEnd = end
}

// NewDualLengthBase is the dual-length helper every variant with closing
// delimiters must use: content_length is the last child's end relative to
// this node's start, syntactic_length is the CST's own absolute end
// relative to this node's start — never the other way around.
func NewDualLengthBase(delta position.Delta, start, lastChildEnd, cstEnd position.Position) position.NodeBase {
	return position.NodeBase{
		RelativeStart:   delta,
		ContentLength:   lastChildEnd.Byte - start.Byte,
		SyntacticLength: cstEnd.Byte - start.Byte,
	}
}

// deltaFrom computes the Delta that, applied to prevEnd, reproduces start.
func deltaFrom(prevEnd, start position.Position) position.Delta {
	rows := start.Row - prevEnd.Row
	cols := start.Col
	if rows == 0 {
		cols = start.Col - prevEnd.Col
	}
	return position.Delta{Bytes: start.Byte - prevEnd.Byte, Rows: rows, Cols: cols}
}
