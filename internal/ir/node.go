// Package ir defines the immutable IR node type (a DAG of shared ownership,
// per the data model) and the grammar→IR converter (C3) that turns a
// concrete syntax tree into IR annotated with correct NodeBase values.
package ir

import "github.com/standardbeagle/rholang-lsp/internal/position"

// Kind tags an IR node's variant. Rholang's process-calculus constructs map
// onto a small fixed set; embedded-language (MeTTa) nodes live in their own
// tree (internal/metta) and are never mixed into this one.
type Kind string

const (
	KindProcessGroup Kind = "process_group" // a `{ ... }` block, also file root
	KindPar          Kind = "par"           // P | Q
	KindSend         Kind = "send"          // ch!(args)
	KindInput        Kind = "input"         // for (pat <- ch) { P }
	KindContract     Kind = "contract"      // contract name(params) = { P }
	KindNew          Kind = "new"           // new x, y in { P }
	KindNameDecl     Kind = "name_decl"     // one binder inside a `new`, optional `(Uri)`
	KindIdentifier   Kind = "identifier"    // a bare name reference
	KindParam        Kind = "param"         // a formal parameter, `@x` or `x`
	KindStringLit    Kind = "string_literal"
	KindIntLit       Kind = "int_literal"
	KindBoolLit      Kind = "bool_literal"
	KindNil          Kind = "nil"
	KindCollection   Kind = "collection" // list/set/map/tuple literal
	KindMatch        Kind = "match"
	KindMatchCase    Kind = "match_case"
	KindIfElse       Kind = "if_else"
	KindQuote        Kind = "quote" // @P
	KindEval         Kind = "eval"  // *x
)

// Node is an immutable IR node. Children are owned by share: a node's
// Children slice holds strong references, and nodes may be shared by
// multiple parents (a DAG), which is why identity (not structural equality)
// is what position.Reconstruct keys its range map on.
type Node struct {
	Kind          Kind
	NodeBase      position.NodeBase
	Text          string // identifier/literal text; empty for structural nodes
	ChildNodes    []*Node
}

// Base implements position.Node.
func (n *Node) Base() position.NodeBase { return n.NodeBase }

// Children implements position.Node by adapting the concrete slice to the
// position.Node interface slice the generic traversal expects.
func (n *Node) Children() []position.Node {
	out := make([]position.Node, len(n.ChildNodes))
	for i, c := range n.ChildNodes {
		out[i] = c
	}
	return out
}

// Walk visits n and every descendant in pre-order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.ChildNodes {
		c.Walk(visit)
	}
}
