// Package lang implements the language adapter interface and registry (C9):
// a capability bundle per language tag — resolver plus hover/completion/doc
// providers — so the dispatcher (C13) and generic LSP features are written
// once against the interface, never against a concrete language.
package lang

import (
	"github.com/standardbeagle/rholang-lsp/internal/diagnostics"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/resolve"
)

// HoverInfo is what a provider returns for a hover request: display text
// plus the range it applies to (so the client can highlight the hovered
// token, not just show a tooltip at the cursor).
type HoverInfo struct {
	Contents string
	Range    position.Range
}

// CompletionItem is one suggestion returned by a provider, ranked by the
// completion engine (C10) rather than the adapter — the adapter only
// contributes candidates and their static metadata.
type CompletionItem struct {
	Label      string
	Detail     string
	Doc        string
	InsertText string
}

// HoverProvider returns hover text for the token at pos, if any.
type HoverProvider interface {
	Hover(pos position.Position) (HoverInfo, bool)
}

// CompletionProvider returns every in-scope candidate visible at pos; the
// completion engine applies prefix filtering, fuzzy matching, and ranking
// on top of this raw candidate set.
type CompletionProvider interface {
	CompletionCandidates(pos position.Position) []CompletionItem
}

// NameResolver locates the identifier token at pos without resolving it —
// the shared first step definition, references, rename, and document
// highlight all need before they can call Resolver().Resolve.
type NameResolver interface {
	NameAt(pos position.Position) (string, position.Range, bool)
}

// DocProvider returns the documentation comment attached to a declaration,
// independent of hover (used by signature help and completion item detail).
type DocProvider interface {
	DocFor(name string) (string, bool)
}

// Formatter reformats a document's source. Adapters without a formatter
// (MeTTa, by default) simply don't implement this — the dispatcher checks
// for the interface before offering textDocument/formatting.
type Formatter interface {
	Format(source string) (string, []diagnostics.Diagnostic, error)
}

// Adapter bundles everything one language contributes: its symbol resolver
// and whichever optional providers it supports. Only Language and Resolver
// are mandatory; the rest are obtained via type assertion so an adapter can opt out of a
// capability by simply not implementing it.
type Adapter interface {
	Language() string
	Resolver() resolve.Resolver
}

// Registry maps a language tag to its adapter. Registration happens once at
// startup (host and MeTTa are required, per the host/MeTTa requirement),
// lookups happen on every request, so no lock is needed once Register calls
// are done — callers must not register after the server starts serving.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

func (r *Registry) Register(a Adapter) {
	r.adapters[a.Language()] = a
}

func (r *Registry) Get(language string) (Adapter, bool) {
	a, ok := r.adapters[language]
	return a, ok
}

func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.adapters))
	for l := range r.adapters {
		out = append(out, l)
	}
	return out
}
