package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrie_InsertAndPrefixQuery(t *testing.T) {
	tr := NewTrie()
	tr.Insert(Entry{Name: "foo", URI: "a"})
	tr.Insert(Entry{Name: "foobar", URI: "a"})
	tr.Insert(Entry{Name: "baz", URI: "a"})

	results := tr.PrefixQuery("foo")
	require.Len(t, results, 2)

	require.Empty(t, tr.PrefixQuery("qux"))
}

func TestTrie_RemoveByURI(t *testing.T) {
	tr := NewTrie()
	tr.Insert(Entry{Name: "foo", URI: "a"})
	tr.Insert(Entry{Name: "foo", URI: "b"})
	require.Equal(t, 2, tr.Len())

	tr.RemoveByURI("a")
	require.Equal(t, 1, tr.Len())
	results := tr.PrefixQuery("foo")
	require.Len(t, results, 1)
	require.Equal(t, "b", results[0].URI)
}

func TestTrie_CompactRebuildsWithoutLosingEntries(t *testing.T) {
	tr := NewTrie()
	for _, n := range []string{"alpha", "alphabet", "beta", "gamma"} {
		tr.Insert(Entry{Name: n, URI: "a"})
	}
	tr.Remove("alpha", "a")
	tr.Remove("beta", "a")
	before := tr.Len()
	tr.Compact()
	require.Equal(t, before, tr.Len())
	require.Len(t, tr.PrefixQuery(""), before)
}

func TestRank_ScopeDominatesOtherFactors(t *testing.T) {
	inScope := Entry{Name: "zzzzzzzzzz", ScopeDepth: 0, RefCount: 0}
	outOfScope := Entry{Name: "a", ScopeDepth: 1, RefCount: 1000}

	scored := Rank([]Entry{outOfScope, inScope}, "a")
	require.Equal(t, "zzzzzzzzzz", scored[0].Entry.Name)
}

func TestRank_TiesBrokenLexicographically(t *testing.T) {
	a := Entry{Name: "bbb"}
	b := Entry{Name: "aaa"}
	scored := Rank([]Entry{a, b}, "zzz")
	require.Equal(t, "aaa", scored[0].Entry.Name)
}

func TestDictionary_CompactsAfterBloatThreshold(t *testing.T) {
	d := NewDictionary()
	for i := 0; i < 10; i++ {
		d.Insert(Entry{Name: "sym", URI: "a"})
		d.Remove("sym", "a")
	}
	require.LessOrEqual(t, d.Dynamic.BloatRatio(), 1.5)
}

func TestBuildInitial_MergesAcrossDocumentsConcurrently(t *testing.T) {
	docs := []DocSymbols{
		{"foo": {{Name: "foo", URI: "a"}}},
		{"bar": {{Name: "bar", URI: "b"}}},
		{"baz": {{Name: "baz", URI: "c"}}},
	}
	trie, err := BuildInitial(context.Background(), docs)
	require.NoError(t, err)
	require.Equal(t, 3, trie.Len())
}

func TestContext_FilterExcludesKeysSoFar(t *testing.T) {
	ctx := Context{Kind: ContextQuotedCollection, KeysSoFar: []string{"a"}}
	entries := []Entry{{Name: "a"}, {Name: "b"}}
	filtered := ctx.Filter(entries)
	require.Len(t, filtered, 1)
	require.Equal(t, "b", filtered[0].Name)
}

func TestWithinThreshold_ExactMatchIsZeroDistance(t *testing.T) {
	require.True(t, WithinThreshold("foo", "foo", 0))
	require.Equal(t, 0, ApproxEditDistance("foo", "foo"))
}
