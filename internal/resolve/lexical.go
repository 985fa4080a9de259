package resolve

import "github.com/standardbeagle/rholang-lsp/internal/symbols"

// Lexical resolves a name by walking a scope chain outward from scope,
// innermost declaration wins — the host language's normal resolution rule.
// A hit is always Exact: lexical scoping has no notion of an ambiguous
// binding, shadowing always picks the innermost one.
type Lexical struct {
	Scope *symbols.Scope
}

func (l *Lexical) Resolve(name string) []Candidate {
	if l.Scope == nil {
		return nil
	}
	sym, ok := l.Scope.Lookup(name)
	if !ok {
		return nil
	}
	return []Candidate{{
		Location:   symbols.Location{URI: sym.DeclURI, Range: sym.DeclRange},
		Confidence: Exact,
	}}
}
