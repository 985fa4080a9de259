// Package metta implements the embedded-language symbol builder (C6) for
// MeTTa: a minimal S-expression parser over the extracted virtual-document
// content, a symbol table keyed by name with is_definition flags, and a
// per-definition pattern signature (head symbol + arity) used by the
// pattern-filtered resolver (C8).
package metta

import "github.com/standardbeagle/rholang-lsp/internal/position"

// Kind tags a MeTTa IR node. The grammar MeTTa needs is tiny: atoms and
// parenthesized expressions; `=` as the first element of an expression
// marks a definition.
type Kind int

const (
	KindAtom Kind = iota
	KindExpr
)

// Node is a MeTTa S-expression node. Unlike the host IR, MeTTa has no
// separate CST layer to convert from — the parser produces absolute
// positions directly, so Node carries a Range rather than the host's
// delta-compressed NodeBase; there is no shared-subtree corpus here large
// enough to make delta compression worth its complexity.
type Node struct {
	Kind     Kind
	Text     string // for KindAtom
	Elements []*Node
	Range    position.Range
}
