package completion

import "sort"

// Ranking weights, ordered so each field dominates every lower-priority
// field: any in-scope symbol outranks any out-of-scope one regardless of
// edit distance, reference count, or name length.
const (
	weightScope = 10.0
	weightDist  = 1.0
	weightRefs  = 0.1
	weightLen   = 0.01
)

// Scored pairs an Entry with its computed rank (lower is better) for one
// query.
type Scored struct {
	Entry    Entry
	Score    float64
	Distance int
}

// Score computes the linear ranking score for one entry against query.
// depth is the entry's scope depth at the query's cursor position (0 =
// innermost, growing outward).
func Score(entry Entry, depth, editDistance int) float64 {
	return weightScope*float64(depth) +
		weightDist*float64(editDistance) +
		weightRefs*float64(-entry.RefCount) +
		weightLen*float64(len(entry.Name))
}

// Rank scores every entry against query (applying depth as supplied per
// entry — the caller is expected to have already resolved each entry's
// ScopeDepth for this cursor) and returns them sorted ascending by score,
// ties broken lexicographically by name.
func Rank(entries []Entry, query string) []Scored {
	out := make([]Scored, len(entries))
	for i, e := range entries {
		dist := ApproxEditDistance(query, e.Name)
		out[i] = Scored{Entry: e, Score: Score(e, e.ScopeDepth, dist), Distance: dist}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].Entry.Name < out[j].Entry.Name
	})
	return out
}
