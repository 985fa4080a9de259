package lang

import (
	"fmt"

	"github.com/standardbeagle/rholang-lsp/internal/metta"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/resolve"
	"github.com/standardbeagle/rholang-lsp/internal/symbols"
)

// MeTTa is the embedded-language adapter for MeTTa virtual documents: its
// resolver is resolve.PatternFiltered with a flat-global fallback across
// every other MeTTa virtual document in the workspace (a definition in one
// embedded snippet is visible to another, since MeTTa has no file boundary
// concept of its own the way Rholang contracts do). The call site's arity
// is not known here (CallArity is -1), so no arity filtering takes place:
// every equation for the head symbol is returned.
type MeTTa struct {
	uri     string
	table   *metta.Table
	refs    []metta.Reference
	resolve resolve.Resolver
}

// NewMeTTa builds a MeTTa adapter for one virtual document. source is the
// embedded content (used to locate the atom under the cursor for
// position-based hover); globalLookup resolves names against every MeTTa
// virtual document in the workspace.
func NewMeTTa(uri, source string, table *metta.Table, globalLookup func(string) []symbols.Location) *MeTTa {
	pattern := &resolve.PatternFiltered{URI: uri, Table: table, CallArity: -1}
	composed := &resolve.Composable{
		Base:      pattern,
		Fallbacks: []resolve.Resolver{&resolve.FlatGlobal{Lookup: globalLookup}},
	}
	return &MeTTa{uri: uri, table: table, refs: metta.References(source), resolve: composed}
}

func (m *MeTTa) Language() string           { return "metta" }
func (m *MeTTa) Resolver() resolve.Resolver { return m.resolve }

// Hover finds the atom occurrence containing pos and returns its pattern
// signature (head symbol + arity), the MeTTa equivalent of a function
// signature tooltip.
func (m *MeTTa) Hover(pos position.Position) (HoverInfo, bool) {
	for _, ref := range m.refs {
		if ref.Range.Contains(pos) {
			return m.hoverByName(ref.Name, ref.Range)
		}
	}
	return HoverInfo{}, false
}

// NameAt returns the atom occurrence containing pos.
func (m *MeTTa) NameAt(pos position.Position) (string, position.Range, bool) {
	for _, ref := range m.refs {
		if ref.Range.Contains(pos) {
			return ref.Name, ref.Range, true
		}
	}
	return "", position.Range{}, false
}

func (m *MeTTa) hoverByName(name string, fallbackRange position.Range) (HoverInfo, bool) {
	defs, ok := m.table.Definitions[name]
	if !ok || len(defs) == 0 {
		return HoverInfo{}, false
	}
	d := defs[0]
	return HoverInfo{
		Contents: fmt.Sprintf("(%s/%d)", d.Pattern.Head, d.Pattern.Arity),
		Range:    fallbackRange,
	}, true
}

// CompletionCandidates returns every head symbol defined in this virtual
// document.
func (m *MeTTa) CompletionCandidates(pos position.Position) []CompletionItem {
	var out []CompletionItem
	for name, defs := range m.table.Definitions {
		out = append(out, CompletionItem{
			Label:      name,
			Detail:     fmt.Sprintf("arity %d", defs[0].Pattern.Arity),
			InsertText: name,
		})
	}
	return out
}
