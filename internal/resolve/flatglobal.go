package resolve

import "github.com/standardbeagle/rholang-lsp/internal/symbols"

// FlatGlobal resolves a name against a workspace-wide flat lookup with no
// scoping at all — the fallback for the host's cross-file contract
// references and for embedded languages with no dedicated parser (C6's
// generic path). A single hit is Exact; more than one declaration sharing
// the name workspace-wide is Ambiguous, since flat lookup has no way to
// prefer one file over another.
type FlatGlobal struct {
	Lookup func(name string) []symbols.Location
}

func (f *FlatGlobal) Resolve(name string) []Candidate {
	locs := f.Lookup(name)
	if len(locs) == 0 {
		return nil
	}
	conf := Exact
	if len(locs) > 1 {
		conf = Ambiguous
	}
	out := make([]Candidate, len(locs))
	for i, l := range locs {
		out[i] = Candidate{Location: l, Confidence: conf}
	}
	return out
}
