// Package comments implements the comment channel (C2): an ordered sequence
// of comment nodes produced alongside the IR but never embedded as children,
// plus the operations the symbol-table builder and virtual-document
// subsystem use to attach documentation and detect language directives.
package comments

import (
	"regexp"
	"strings"

	"github.com/standardbeagle/rholang-lsp/internal/position"
)

// Kind classifies a comment for doc-attachment and directive purposes.
type Kind int

const (
	KindLine Kind = iota
	KindBlock
	KindDocLine  // `///`
	KindDocBlock // `/** ... */`
	KindDirective
)

// Comment is one entry in the parallel comment channel. RelativeStart is a
// delta from the previous comment's end, matching the IR's delta encoding
// so the channel can be reconstructed the same way.
type Comment struct {
	RelativeStart position.Delta
	Length        int
	Content       string
	Kind          Kind
}

// Channel is the ordered, already-positioned comment sequence for one
// document (i.e. after running Reconstruct-style delta accumulation once).
type Channel struct {
	Comments []PositionedComment
}

// PositionedComment is a Comment with its absolute range already resolved.
type PositionedComment struct {
	Comment
	Range position.Range
}

// Build resolves the delta chain into absolute ranges, identical in spirit
// to position.Reconstruct but over the flat comment sequence rather than a
// tree (comments have no children).
func Build(comments []Comment, rope position.RopeIndex) Channel {
	var out Channel
	prevEnd := position.Position{}
	for _, c := range comments {
		start := c.RelativeStart.Apply(prevEnd)
		endByte := start.Byte + c.Length
		end := start
		if rope != nil {
			row, col := rope.RowColAt(endByte)
			end = position.Position{Row: row, Col: col, Byte: endByte}
		} else {
			end = position.Position{Row: start.Row, Col: start.Col + c.Length, Byte: endByte}
		}
		out.Comments = append(out.Comments, PositionedComment{Comment: c, Range: position.Range{Start: start, End: end}})
		prevEnd = end
	}
	return out
}

// DocCommentsBefore returns the contiguous run of doc comments whose end is
// at or before nodeStart with no intervening code, in source order. "No
// intervening code" is approximated by requiring each doc comment in the run
// to immediately precede the next (or the node) with no non-doc comment
// between them in the channel — an ordinary comment breaks the run, but gaps
// between comments are not examined: the channel only records comments, and
// a gap wide enough to hold code cannot be distinguished from one that
// doesn't without consulting the IR; callers that need exactness pass only
// doc comments known (from the IR's sibling list) to be adjacent.
func (ch Channel) DocCommentsBefore(nodeStart position.Position) []string {
	var run []PositionedComment
	for _, c := range ch.Comments {
		if nodeStart.Less(c.Range.End) {
			break
		}
		if c.Kind == KindDocLine || c.Kind == KindDocBlock {
			run = append(run, c)
		} else {
			run = nil // Non-doc comment breaks any run accumulated so far.
		}
	}
	docs := make([]string, 0, len(run))
	for _, c := range run {
		docs = append(docs, c.Content)
	}
	return docs
}

var directivePattern = regexp.MustCompile(`^#!([a-zA-Z][a-zA-Z0-9_-]*)\n`)

// DirectiveAt matches `#!<language>\n` at the very start of string-literal
// content. Per the detection rule, directives must be on their own first
// line; the returned offset is the byte offset of the first content byte
// after the newline, within the literal's content.
func DirectiveAt(content string) (language string, offset int, ok bool) {
	m := directivePattern.FindStringSubmatch(content)
	if m == nil {
		return "", 0, false
	}
	return m[1], len(m[0]), true
}

// ClassifyDelimited classifies a raw comment token (including delimiters)
// into its Kind, used by the converter when building the comment channel
// from the concrete syntax.
func ClassifyDelimited(raw string) Kind {
	switch {
	case strings.HasPrefix(raw, "///"):
		return KindDocLine
	case strings.HasPrefix(raw, "/**"):
		return KindDocBlock
	case strings.HasPrefix(raw, "//"):
		return KindLine
	case strings.HasPrefix(raw, "/*"):
		return KindBlock
	default:
		return KindLine
	}
}
