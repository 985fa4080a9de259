package lang

import (
	"fmt"

	"github.com/standardbeagle/rholang-lsp/internal/ir"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/resolve"
	"github.com/standardbeagle/rholang-lsp/internal/symbols"
)

// Host is the Rholang language adapter: its resolver chains the document's
// lexical scope with the workspace's flat global table for cross-file
// contract references, and its providers walk the IR directly since the
// host has a real parse tree (unlike the generic embedded-language path).
type Host struct {
	uri     string
	root    *ir.Node
	ranges  map[position.Node]position.Range
	table   *symbols.Table
	scope   *symbols.Scope
	resolve resolve.Resolver
}

// NewHost builds a Host adapter instance for one document. Lexical
// resolution starts at table's root scope (the innermost scope containing
// the whole document); globalLookup resolves names the document's own scope
// chain doesn't, via the workspace's flat global table.
func NewHost(uri string, root *ir.Node, ranges map[position.Node]position.Range, table *symbols.Table, globalLookup func(string) []symbols.Location) *Host {
	lexical := &resolve.Lexical{Scope: table.Root}
	composed := &resolve.Composable{
		Base:      lexical,
		Fallbacks: []resolve.Resolver{&resolve.FlatGlobal{Lookup: globalLookup}},
	}
	return &Host{uri: uri, root: root, ranges: ranges, table: table, scope: table.Root, resolve: composed}
}

func (h *Host) Language() string       { return "rholang" }
func (h *Host) Resolver() resolve.Resolver { return h.resolve }

// Hover returns the declaration signature for the identifier at pos, found
// by walking down to the smallest enclosing node and, if it's an
// identifier, resolving it.
func (h *Host) Hover(pos position.Position) (HoverInfo, bool) {
	node, _, ok := position.FindNodeWithPath(h.ranges, h.root, pos)
	if !ok {
		return HoverInfo{}, false
	}
	n, isIR := node.(*ir.Node)
	if !isIR || n.Kind != ir.KindIdentifier || n.Text == "" {
		return HoverInfo{}, false
	}
	cands := h.resolve.Resolve(n.Text)
	if len(cands) == 0 {
		return HoverInfo{}, false
	}
	r := h.ranges[node]
	contents := fmt.Sprintf("%s — declared at %s", n.Text, cands[0].Location.URI)
	return HoverInfo{Contents: contents, Range: r}, true
}

// CompletionCandidates returns every name visible in the scope chain at pos
// — the raw candidate set the completion engine ranks and filters.
func (h *Host) CompletionCandidates(pos position.Position) []CompletionItem {
	scope := h.innermostScopeAt(pos)
	var out []CompletionItem
	seen := make(map[string]bool)
	for s := scope; s != nil; s = s.Parent {
		for name, sym := range s.Names {
			if seen[name] {
				continue
			}
			seen[name] = true
			detail := "name"
			if sym.Kind == symbols.KindContract && sym.Pattern != nil {
				detail = fmt.Sprintf("contract(%d)", sym.Pattern.Arity())
			}
			out = append(out, CompletionItem{Label: name, Detail: detail, Doc: sym.Doc, InsertText: name})
		}
	}
	return out
}

// innermostScopeAt is a coarse approximation: the host's Table doesn't carry
// per-scope ranges, so completion uses the document's root scope chain; a
// future refinement could thread scope ranges through Builder.Result if
// block-local shadowing ever needs finer completion filtering than it does
// today.
func (h *Host) innermostScopeAt(pos position.Position) *symbols.Scope {
	return h.scope
}

// NameAt returns the identifier token at pos and the range it occupies, for
// definition/references/rename/documentHighlight to resolve against.
func (h *Host) NameAt(pos position.Position) (string, position.Range, bool) {
	node, _, ok := position.FindNodeWithPath(h.ranges, h.root, pos)
	if !ok {
		return "", position.Range{}, false
	}
	n, isIR := node.(*ir.Node)
	if !isIR || n.Kind != ir.KindIdentifier || n.Text == "" {
		return "", position.Range{}, false
	}
	return n.Text, h.ranges[node], true
}

func (h *Host) DocFor(name string) (string, bool) {
	sym, ok := h.scope.Lookup(name)
	if !ok || sym.Doc == "" {
		return "", false
	}
	return sym.Doc, true
}
