// Package resolve implements the symbol resolvers and their composition
// (C8): a uniform `Resolve(name) -> candidates` contract (each resolver
// fixes its scope or document when it is built) with a confidence tag, so the dispatcher and completion engine don't need
// to know whether a name resolved lexically, by MeTTa pattern arity, or by
// flat global lookup — only how confident the result is.
package resolve

import "github.com/standardbeagle/rholang-lsp/internal/symbols"

// Confidence tags how a Resolver arrived at its candidates.
type Confidence int

const (
	// Exact: a single, unambiguous binding (e.g. one lexical scope hit).
	Exact Confidence = iota
	// Fuzzy: the candidate matched after relaxing some constraint (a
	// pattern-arity mismatch tolerated, or a fallback resolver's guess).
	Fuzzy
	// Ambiguous: more than one equally-plausible candidate; callers should
	// present all of them rather than pick one.
	Ambiguous
)

// Candidate is one resolved location plus how the resolver reached it.
type Candidate struct {
	Location   symbols.Location
	Confidence Confidence
}

// Resolver resolves a name to zero or more candidate declaration sites.
// Implementations never error — an unresolved name simply returns no
// candidates, since "not found" is the common case for a name being typed
// mid-edit, not a failure.
type Resolver interface {
	Resolve(name string) []Candidate
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(name string) []Candidate

func (f ResolverFunc) Resolve(name string) []Candidate { return f(name) }
