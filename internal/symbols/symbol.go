// Package symbols implements the host symbol-table builder (C4): a scope
// tree built from the IR, rooted at a per-document table and chained to the
// workspace global table, with declaration/definition tracking and an
// inverted reference index.
package symbols

import "github.com/standardbeagle/rholang-lsp/internal/position"

// Kind is the host symbol kind taxonomy from the data model.
type Kind int

const (
	KindContract Kind = iota
	KindVariable
	KindParameter
	KindNameDecl
)

func (k Kind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindVariable:
		return "variable"
	case KindParameter:
		return "parameter"
	case KindNameDecl:
		return "name_decl"
	default:
		return "unknown"
	}
}

// PatternSignature is a contract's head arity signature, used by completion
// ranking and the pattern-filtered resolver's arity check.
type PatternSignature struct {
	ParamNames []string
}

func (p PatternSignature) Arity() int { return len(p.ParamNames) }

// Symbol is a host-language declaration. At most one declaration and one
// definition exist per (scope, name) — Builder.insert enforces this by
// rejecting the second declaration rather than overwriting the first.
type Symbol struct {
	Name       string
	Kind       Kind
	DeclURI    string
	DeclPos    position.Position
	DeclRange  position.Range
	HasDef     bool
	DefPos     position.Position
	DefRange   position.Range
	Doc        string
	Pattern    *PatternSignature
	ScopeID    int
}

// Location is a (uri, range) pair, the unit every resolver and the inverted
// index returns.
type Location struct {
	URI   string
	Range position.Range
}
