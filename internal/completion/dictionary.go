package completion

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Dictionary is the hybrid static/dynamic completion index: Static holds
// reserved words and built-ins, built once at startup and never mutated
// after; Dynamic holds user symbols and is updated incrementally as
// documents change. Queries always consult both.
type Dictionary struct {
	mu      sync.RWMutex
	Static  *Trie
	Dynamic *Trie
}

func NewDictionary() *Dictionary {
	return &Dictionary{Static: NewTrie(), Dynamic: NewTrie()}
}

// LoadStatic populates the static trie with reserved words. Called once at
// startup; Static is never written to again afterwards, so queries never
// need to lock around it.
func (d *Dictionary) LoadStatic(entries []Entry) {
	for _, e := range entries {
		d.Static.Insert(e)
	}
}

// Insert adds one dynamic entry (e.g. a newly declared contract).
// O(|name|).
func (d *Dictionary) Insert(entry Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Dynamic.Insert(entry)
	d.maybeCompactLocked()
}

// Remove deletes every dynamic entry named name belonging to uri (a
// document's prior contribution, evicted before its new one is inserted).
func (d *Dictionary) Remove(name, uri string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Dynamic.Remove(name, uri)
	d.maybeCompactLocked()
}

// RemoveByURI evicts every dynamic entry uri contributed, used on document
// close and on reparse when the caller has no prior symbol table to diff
// against (an embedded virtual document is rebuilt from scratch each time).
func (d *Dictionary) RemoveByURI(uri string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Dynamic.RemoveByURI(uri)
	d.maybeCompactLocked()
}

// maybeCompactLocked triggers a compaction pass once the dynamic trie's
// bloat ratio exceeds 1.5, per the incremental-update contract. Called with
// mu already held.
func (d *Dictionary) maybeCompactLocked() {
	if d.Dynamic.BloatRatio() > 1.5 {
		d.Dynamic.Compact()
	}
}

// Query runs the prefix zipper against both tries and returns the combined,
// unranked candidate set; ranking and context filtering are the caller's
// job (Rank, Context.Filter).
func (d *Dictionary) Query(prefix string) []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := d.Static.PrefixQuery(prefix)
	out = append(out, d.Dynamic.PrefixQuery(prefix)...)
	return out
}

// DocSymbols is one document's contribution to the initial workspace build:
// every entry it declares, keyed by name so the binary-tree merge can fold
// documents together without re-walking each document's full entry list.
type DocSymbols map[string][]Entry

// BuildInitial runs the two-phase initial workspace build: a per-document
// HashMap is already provided by the caller in docs (phase one — built in
// parallel per document by the indexer, outside this package); this
// function performs the binary-tree merge (log2(N) rounds, parallel within
// each round) and then builds the dynamic trie once from the fully-merged
// map, rather than inserting per document and paying O(N) trie-insert
// passes with lock contention between them.
func BuildInitial(ctx context.Context, docs []DocSymbols) (*Trie, error) {
	merged, err := parallelMerge(ctx, docs)
	if err != nil {
		return nil, err
	}
	trie := NewTrie()
	for _, entries := range merged {
		for _, e := range entries {
			trie.Insert(e)
		}
	}
	return trie, nil
}

// parallelMerge reduces docs pairwise in a binary tree: each round merges
// adjacent pairs concurrently (bounded by errgroup, which also propagates
// ctx cancellation), halving the working set, until one map remains.
// Merging two maps copies the keys of both (O(len(a)+len(b))); the values
// of a key present in both are appended.
func parallelMerge(ctx context.Context, docs []DocSymbols) (DocSymbols, error) {
	if len(docs) == 0 {
		return DocSymbols{}, nil
	}
	level := docs
	for len(level) > 1 {
		next := make([]DocSymbols, (len(level)+1)/2)
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < len(level); i += 2 {
			i := i
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if i+1 < len(level) {
					next[i/2] = mergeTwo(level[i], level[i+1])
				} else {
					next[i/2] = level[i]
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		level = next
	}
	return level[0], nil
}

func mergeTwo(a, b DocSymbols) DocSymbols {
	out := make(DocSymbols, len(a)+len(b))
	for k, v := range a {
		out[k] = append(out[k], v...)
	}
	for k, v := range b {
		out[k] = append(out[k], v...)
	}
	return out
}
