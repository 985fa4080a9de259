// Package virtual implements the virtual-document subsystem (C5): detecting
// embedded-language directives in string literals, extracting sub-documents
// with bidirectional position mapping, and assigning stable per-parent URIs.
package virtual

import (
	"fmt"

	"github.com/standardbeagle/rholang-lsp/internal/comments"
	"github.com/standardbeagle/rholang-lsp/internal/ir"
	"github.com/standardbeagle/rholang-lsp/internal/position"
)

// Document is one extracted embedded-language region: a parent URI plus
// sequence index, its language tag, the extracted content, and an O(1)
// bidirectional position map (the embedded content is a contiguous slice of
// the parent, so both mapping directions are pure arithmetic).
type Document struct {
	ParentURI string
	Index     int
	Language  string
	Content   string

	// parentStart is the (row, col, byte) of the first content byte within
	// the parent document.
	parentStart position.Position
}

// URI returns the stable virtual URI, `<parent>#vdoc:<N>`.
func (d *Document) URI() string {
	return fmt.Sprintf("%s#vdoc:%d", d.ParentURI, d.Index)
}

// ToVirtual maps a parent-absolute position to virtual-local coordinates.
// O(1): both positions share the same byte line, offset purely by the
// extracted region's start.
func (d *Document) ToVirtual(parentPos position.Position) position.Position {
	byteOff := parentPos.Byte - d.parentStart.Byte
	if parentPos.Row == d.parentStart.Row {
		return position.Position{Row: 0, Col: parentPos.Col - d.parentStart.Col, Byte: byteOff}
	}
	return position.Position{Row: parentPos.Row - d.parentStart.Row, Col: parentPos.Col, Byte: byteOff}
}

// ToParent maps a virtual-local position back to parent-absolute
// coordinates — the inverse of ToVirtual.
func (d *Document) ToParent(virtualPos position.Position) position.Position {
	byteOff := d.parentStart.Byte + virtualPos.Byte
	if virtualPos.Row == 0 {
		return position.Position{Row: d.parentStart.Row, Col: d.parentStart.Col + virtualPos.Col, Byte: byteOff}
	}
	return position.Position{Row: d.parentStart.Row + virtualPos.Row, Col: virtualPos.Col, Byte: byteOff}
}

// Contains reports whether a parent-absolute byte offset falls within this
// embedded region's content span.
func (d *Document) Contains(parentPos position.Position) bool {
	if parentPos.Byte < d.parentStart.Byte {
		return false
	}
	return parentPos.Byte-d.parentStart.Byte < len(d.Content)
}

// Extract scans root's IR for string literals carrying a `#!<language>\n`
// directive and returns one Document per match, numbered by first-seen
// order (stable across re-extraction as long as the literal's textual
// identity — its content — is unchanged; a changed literal gets a fresh
// index on the next call, and the caller is responsible for evicting the
// old URI from global indices, per the lifecycle contract).
func Extract(parentURI string, root *ir.Node, ranges map[position.Node]position.Range) []*Document {
	var docs []*Document
	idx := 0
	root.Walk(func(n *ir.Node) {
		if n.Kind != ir.KindStringLit {
			return
		}
		lang, offset, ok := comments.DirectiveAt(n.Text)
		if !ok {
			return
		}
		r := ranges[n]
		content := n.Text[offset:]
		// The content is the literal's Text after the directive, taken as
		// is. offset ends just past the directive's newline, so the first
		// content byte sits at column 0 of the row after the literal's start.
		start := position.Position{
			Row:  r.Start.Row + 1,
			Col:  0,
			Byte: r.Start.Byte + offset,
		}
		docs = append(docs, &Document{
			ParentURI:   parentURI,
			Index:       idx,
			Language:    lang,
			Content:     content,
			parentStart: start,
		})
		idx++
	})
	return docs
}
