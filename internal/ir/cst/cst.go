// Package cst declares the capability interface the grammar/parser driver
// must satisfy. The concrete grammar and parser are out of scope for this
// repository (see spec.md §1 and DESIGN.md); this interface is shaped after
// github.com/tree-sitter/go-tree-sitter's Node API so a future driver plugs
// in without changing internal/ir.
package cst

// Node is a concrete-syntax-tree node as produced by an external parser.
type Node interface {
	// Kind is the grammar rule name (e.g. "contract", "send", "string_literal").
	Kind() string
	StartByte() int
	EndByte() int
	// StartPoint/EndPoint are (row, col) in the CST's own coordinate system,
	// zero-based, column in bytes.
	StartPoint() (row, col int)
	EndPoint() (row, col int)
	Children() []Node
	// Content returns this node's source slice given the full source bytes.
	Content(source []byte) string
	// IsNamed distinguishes semantic nodes from anonymous punctuation tokens
	// (e.g. "{" "}"), mirroring tree-sitter's named/anonymous node split.
	IsNamed() bool
}
