package embedded

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild_CollectsOccurrencesByName(t *testing.T) {
	idx := Build("let x = foo(x, y)\nreturn x")

	require.Len(t, idx.Occurrences["x"], 3)
	require.Len(t, idx.Occurrences["foo"], 1)

	site, ok := idx.DefinitionSite("x")
	require.True(t, ok)
	require.Equal(t, 0, site.Range.Start.Row)
}

func TestBuild_TracksRowAcrossLines(t *testing.T) {
	idx := Build("a\nb\nc")
	site, ok := idx.DefinitionSite("c")
	require.True(t, ok)
	require.Equal(t, 2, site.Range.Start.Row)
}

func TestDefinitionSite_UnknownNameReturnsFalse(t *testing.T) {
	idx := Build("a b c")
	_, ok := idx.DefinitionSite("missing")
	require.False(t, ok)
}
