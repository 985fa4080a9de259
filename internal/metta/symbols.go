package metta

import "github.com/standardbeagle/rholang-lsp/internal/position"

// Symbol is one MeTTa name binding: every head atom that appears in a
// `(= (head arg...) body)` equation is recorded as a definition. Plain
// references (the atom used anywhere else) are recovered separately via
// References — MeTTa resolves by pattern shape, not lexical scope, so there
// is no notion of a single declaring scope to attach them to.
type Symbol struct {
	Name         string
	IsDefinition bool
	Pattern      PatternSignature
	Range        position.Range
}

// PatternSignature is MeTTa's equivalent of the host's parameter-count
// signature: the head symbol plus its arity, since MeTTa resolves by pattern
// shape rather than lexical scope.
type PatternSignature struct {
	Head  string
	Arity int
}

// Table is the embedded-language symbol table for one MeTTa virtual
// document: a flat, unscoped map from name to its definitions (MeTTa has no
// lexical nesting the host's Table models — multiple equations sharing a
// head atom are multiple definitions of the same name, not a collision).
type Table struct {
	Definitions map[string][]Symbol
}

// BuildTable parses source and extracts one Symbol per `(= (head ...) body)`
// top-level expression, keyed by head. Expressions that aren't `=`-headed
// definitions are ignored; MeTTa allows arbitrary top-level expressions
// (facts, directives) that this builder doesn't need to index for go-to-
// definition or completion.
func BuildTable(source string) *Table {
	t := &Table{Definitions: make(map[string][]Symbol)}
	for _, expr := range Parse(source) {
		sym, ok := definitionOf(expr)
		if !ok {
			continue
		}
		t.Definitions[sym.Name] = append(t.Definitions[sym.Name], sym)
	}
	return t
}

// definitionOf recognizes `(= (head arg1 arg2 ...) body)` and `(= head body)`
// (a zero-arity definition, e.g. `(= pi 3.14159)`), returning the bound
// symbol and its pattern signature.
func definitionOf(expr *Node) (Symbol, bool) {
	if expr.Kind != KindExpr || len(expr.Elements) < 2 {
		return Symbol{}, false
	}
	head := expr.Elements[0]
	if head.Kind != KindAtom || head.Text != "=" {
		return Symbol{}, false
	}
	target := expr.Elements[1]

	switch target.Kind {
	case KindAtom:
		if target.Text == "" {
			return Symbol{}, false
		}
		return Symbol{
			Name:         target.Text,
			IsDefinition: true,
			Pattern:      PatternSignature{Head: target.Text, Arity: 0},
			Range:        target.Range,
		}, true
	case KindExpr:
		if len(target.Elements) == 0 || target.Elements[0].Kind != KindAtom || target.Elements[0].Text == "" {
			return Symbol{}, false
		}
		name := target.Elements[0].Text
		return Symbol{
			Name:         name,
			IsDefinition: true,
			Pattern:      PatternSignature{Head: name, Arity: len(target.Elements) - 1},
			Range:        target.Elements[0].Range,
		}, true
	default:
		return Symbol{}, false
	}
}

// Reference is one atom occurrence in the document, used by the flat-global
// resolver to find use-sites of a definition when no richer resolution is
// available.
type Reference struct {
	Name  string
	Range position.Range
}

// References returns every atom occurrence appearing anywhere in source.
func References(source string) []Reference {
	var out []Reference
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == KindAtom && n.Text != "" {
			out = append(out, Reference{Name: n.Text, Range: n.Range})
		}
		for _, c := range n.Elements {
			walk(c)
		}
	}
	for _, n := range Parse(source) {
		walk(n)
	}
	return out
}
