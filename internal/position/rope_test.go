package position

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineIndex_RowColAtFindsCorrectLine(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	idx := NewLineIndex(src)

	row, col := idx.RowColAt(0)
	require.Equal(t, 0, row)
	require.Equal(t, 0, col)

	row, col = idx.RowColAt(5) // 'e' in "def"
	require.Equal(t, 1, row)
	require.Equal(t, 1, col)

	row, col = idx.RowColAt(9) // 'h' in "ghi"
	require.Equal(t, 2, row)
	require.Equal(t, 1, col)
}

func TestLineIndex_LineContentExcludesNewline(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	idx := NewLineIndex(src)
	require.Equal(t, "def", idx.LineContent(src, 1))
	require.Equal(t, "ghi", idx.LineContent(src, 2))
}
