// Package workspace implements the unified global symbol indices (C7): the
// workspace-wide state a single document's symbol table cannot hold alone —
// the host's global scope, per-language flat symbol maps for embedded
// documents, the inverted reference index, and the indexing-state machine
// that gates requests while a (re)build is in flight.
//
// Each map is guarded by its own narrow lock rather than one workspace-wide
// mutex, the same fine-grained-locking shape the host's sharded trigram
// storage uses: a reference-lookup reader never blocks behind an unrelated
// virtual-symbol insert.
package workspace

import (
	"sync"

	"github.com/standardbeagle/rholang-lsp/internal/lang"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/symbols"
	"github.com/standardbeagle/rholang-lsp/internal/virtual"
)

// IndexingState is the workspace-wide build state gating request dispatch.
type IndexingState int

const (
	StateIdle IndexingState = iota
	StateInProgress
	StateFailed
)

// DeclKey identifies a declaration site for the inverted index: the
// declaring URI plus its position, not a *symbols.Symbol pointer, so the
// index survives a document being reparsed into an entirely new symbol tree.
type DeclKey struct {
	URI string
	Pos position.Position
}

// DocumentState is what the workspace retains about one open or indexed
// document: its own symbol table plus the virtual documents extracted from
// it, enough to undo its contribution to the global indices on reparse or
// close.
type DocumentState struct {
	URI         string
	Table       *symbols.Table
	VirtualURIs []string // vdoc URIs last contributed by this document
}

// GlobalIndex is the workspace's unified symbol state, shared by the
// dispatcher (C13), the resolvers (C8), and the completion engine (C10).
type GlobalIndex struct {
	docsMu sync.RWMutex
	docs   map[string]*DocumentState

	globalMu     sync.RWMutex
	globalScope  *symbols.Scope
	globalTable  *symbols.Table
	globalSymbols map[string][]symbols.Location // host-level name -> declaration sites

	virtualMu      sync.RWMutex
	virtualSymbols map[string]map[string][]symbols.Location // language -> name -> sites

	invertedMu sync.RWMutex
	inverted   map[DeclKey][]symbols.Location // declaration -> use sites

	stateMu sync.RWMutex
	state   IndexingState

	vdocsMu sync.RWMutex
	vdocs   map[string][]*virtual.Document // parent URI -> its extracted embedded documents

	adaptersMu sync.RWMutex
	adapters   map[string]lang.Adapter // virtual URI -> the adapter instance built for it

	pending *PendingQueue
}

// New constructs an empty workspace index with a fresh host global scope.
func New() *GlobalIndex {
	table := symbols.NewTable(nil)
	return &GlobalIndex{
		docs:           make(map[string]*DocumentState),
		globalScope:    table.Root,
		globalTable:    table,
		globalSymbols:  make(map[string][]symbols.Location),
		virtualSymbols: make(map[string]map[string][]symbols.Location),
		inverted:       make(map[DeclKey][]symbols.Location),
		vdocs:          make(map[string][]*virtual.Document),
		adapters:       make(map[string]lang.Adapter),
		pending:        NewPendingQueue(),
	}
}

// SetVirtualDocuments records parentURI's current extracted embedded
// documents, replacing whatever it held before — the dispatcher consults
// this to translate an incoming (uri, position) into a virtual-document
// context.
func (g *GlobalIndex) SetVirtualDocuments(parentURI string, docs []*virtual.Document) {
	g.vdocsMu.Lock()
	defer g.vdocsMu.Unlock()
	if len(docs) == 0 {
		delete(g.vdocs, parentURI)
		return
	}
	g.vdocs[parentURI] = docs
}

// VirtualDocuments returns parentURI's last-recorded extracted embedded
// documents.
func (g *GlobalIndex) VirtualDocuments(parentURI string) []*virtual.Document {
	g.vdocsMu.RLock()
	defer g.vdocsMu.RUnlock()
	return g.vdocs[parentURI]
}

// SetAdapter records the language adapter instance built for one document
// URI, host or virtual alike. A document's adapter is rebuilt every reparse
// (it closes over that build's symbol table and IR), so this is keyed by
// URI rather than language tag — unlike the registry's one-slot-per-
// language map, which only covers a language with no document-specific
// state of its own.
func (g *GlobalIndex) SetAdapter(uri string, adapter lang.Adapter) {
	g.adaptersMu.Lock()
	defer g.adaptersMu.Unlock()
	g.adapters[uri] = adapter
}

// GetAdapter returns the adapter instance registered for uri, if any.
func (g *GlobalIndex) GetAdapter(uri string) (lang.Adapter, bool) {
	g.adaptersMu.RLock()
	defer g.adaptersMu.RUnlock()
	a, ok := g.adapters[uri]
	return a, ok
}

// RemoveAdapters evicts every adapter instance belonging to one of
// staleURIs — called when a document is reparsed or closed and its previous
// virtual documents no longer exist.
func (g *GlobalIndex) RemoveAdapters(staleURIs []string) {
	if len(staleURIs) == 0 {
		return
	}
	g.adaptersMu.Lock()
	defer g.adaptersMu.Unlock()
	for _, u := range staleURIs {
		delete(g.adapters, u)
	}
}

// State returns the current indexing state.
func (g *GlobalIndex) State() IndexingState {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()
	return g.state
}

// SetState transitions the indexing state. Leaving StateInProgress drains
// and returns any requests queued while the build was running; the caller
// (the dispatcher) is responsible for re-running them.
func (g *GlobalIndex) SetState(s IndexingState) (drained []PendingRequest) {
	g.stateMu.Lock()
	g.state = s
	g.stateMu.Unlock()
	if s != StateInProgress {
		drained = g.pending.DrainAll()
	}
	return drained
}

// Enqueue defers req until indexing leaves StateInProgress. Returns false
// (and does not enqueue) if the workspace is already idle — the caller
// should run the request immediately in that case.
func (g *GlobalIndex) Enqueue(req PendingRequest) bool {
	if g.State() != StateInProgress {
		return false
	}
	g.pending.Push(req)
	return true
}

// GlobalScope returns the host language's workspace-wide scope, the parent
// every document's own root scope chains through for cross-file lookups.
func (g *GlobalIndex) GlobalScope() *symbols.Scope {
	g.globalMu.RLock()
	defer g.globalMu.RUnlock()
	return g.globalScope
}

// UpdateDocument replaces uri's contribution to every global index: it first
// evicts whatever the previous DocumentState (if any) had contributed, then
// folds in the new symbol table, references, and virtual-document URIs. This
// is the "remove old URI's contributions then insert new" rule the virtual-
// symbol idempotence invariant requires — reparsing a document never leaves
// stale entries behind, it never merely adds to them.
func (g *GlobalIndex) UpdateDocument(uri string, table *symbols.Table, refs []symbols.Reference, virtualURIs []string) {
	g.docsMu.Lock()
	prev := g.docs[uri]
	g.docs[uri] = &DocumentState{URI: uri, Table: table, VirtualURIs: virtualURIs}
	g.docsMu.Unlock()

	if prev != nil {
		g.evictHostDeclarations(prev.URI)
		g.evictInverted(prev.URI)
		g.detachRootScope(prev.Table)
	}
	g.insertHostDeclarations(uri, table)
	g.insertReferences(refs)
}

// RemoveDocument evicts uri and everything it contributed — used on every
// didClose, and on file deletion detected by the watcher.
func (g *GlobalIndex) RemoveDocument(uri string) {
	g.docsMu.Lock()
	prev, had := g.docs[uri]
	delete(g.docs, uri)
	g.docsMu.Unlock()

	g.evictHostDeclarations(uri)
	g.evictInverted(uri)
	if had {
		g.detachRootScope(prev.Table)
	}

	staleVURIs := []string{uri}
	if had {
		staleVURIs = append(staleVURIs, prev.VirtualURIs...)
	}
	g.RemoveAdapters(staleVURIs)
	g.SetVirtualDocuments(uri, nil)
}

// insertHostDeclarations folds uri's top-level declarations into both the
// flat name->sites map (used by workspace/symbol search and References) and
// the shared global scope's Names (so a document root elsewhere in the
// lexical chain resolves a cross-file contract the same way Scope.Lookup
// resolves a local one — see symbols.Builder.recordReference).
func (g *GlobalIndex) insertHostDeclarations(uri string, table *symbols.Table) {
	if table == nil || table.Root == nil {
		return
	}
	g.globalMu.Lock()
	defer g.globalMu.Unlock()
	for name, sym := range table.Root.Names {
		loc := symbols.Location{URI: uri, Range: sym.DeclRange}
		g.globalSymbols[name] = append(g.globalSymbols[name], loc)
		g.globalScope.Names[name] = sym
	}
}

func (g *GlobalIndex) evictHostDeclarations(uri string) {
	g.globalMu.Lock()
	defer g.globalMu.Unlock()
	for name, locs := range g.globalSymbols {
		kept := locs[:0]
		for _, l := range locs {
			if l.URI != uri {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			delete(g.globalSymbols, name)
		} else {
			g.globalSymbols[name] = kept
		}
	}
	for name, sym := range g.globalScope.Names {
		if sym.DeclURI == uri {
			delete(g.globalScope.Names, name)
		}
	}
}

// detachRootScope removes prevTable's root scope from the global scope's
// Children, undoing the link NewTable(global) established when prevTable
// was built — otherwise every reparse of every open document leaves behind
// another now-orphaned child the global scope keeps holding onto.
func (g *GlobalIndex) detachRootScope(prevTable *symbols.Table) {
	if prevTable == nil || prevTable.Root == nil {
		return
	}
	g.globalMu.Lock()
	defer g.globalMu.Unlock()
	g.globalScope.DetachChild(prevTable.Root)
}

func (g *GlobalIndex) insertReferences(refs []symbols.Reference) {
	if len(refs) == 0 {
		return
	}
	g.invertedMu.Lock()
	defer g.invertedMu.Unlock()
	for _, r := range refs {
		key := DeclKey{URI: r.DeclURI, Pos: r.DeclPos}
		g.inverted[key] = append(g.inverted[key], symbols.Location{URI: r.UseURI, Range: r.UseRange})
	}
}

func (g *GlobalIndex) evictInverted(uri string) {
	g.invertedMu.Lock()
	defer g.invertedMu.Unlock()
	for key, locs := range g.inverted {
		kept := locs[:0]
		for _, l := range locs {
			if l.URI != uri {
				kept = append(kept, l)
			}
		}
		if key.URI == uri || len(kept) == 0 {
			delete(g.inverted, key)
			continue
		}
		g.inverted[key] = kept
	}
}

// References returns every recorded use-site of the declaration at (declURI,
// declPos).
func (g *GlobalIndex) References(declURI string, declPos position.Position) []symbols.Location {
	g.invertedMu.RLock()
	defer g.invertedMu.RUnlock()
	locs := g.inverted[DeclKey{URI: declURI, Pos: declPos}]
	out := make([]symbols.Location, len(locs))
	copy(out, locs)
	return out
}

// LookupGlobal resolves name against the host's workspace-wide declarations
// (used when a document's own lexical scope chain doesn't resolve it).
func (g *GlobalIndex) LookupGlobal(name string) []symbols.Location {
	g.globalMu.RLock()
	defer g.globalMu.RUnlock()
	locs := g.globalSymbols[name]
	out := make([]symbols.Location, len(locs))
	copy(out, locs)
	return out
}

// UpdateVirtualSymbols replaces language's contribution under virtualURIs'
// parent document. Like UpdateDocument, it evicts every old entry belonging
// to one of prevVirtualURIs before inserting the new ones, so a changed
// literal's stale vdoc entries never linger.
func (g *GlobalIndex) UpdateVirtualSymbols(language string, prevVirtualURIs []string, entries map[string][]symbols.Location) {
	g.virtualMu.Lock()
	defer g.virtualMu.Unlock()

	byLang, ok := g.virtualSymbols[language]
	if !ok {
		byLang = make(map[string][]symbols.Location)
		g.virtualSymbols[language] = byLang
	}

	if len(prevVirtualURIs) > 0 {
		stale := make(map[string]bool, len(prevVirtualURIs))
		for _, u := range prevVirtualURIs {
			stale[u] = true
		}
		for name, locs := range byLang {
			kept := locs[:0]
			for _, l := range locs {
				if !stale[l.URI] {
					kept = append(kept, l)
				}
			}
			if len(kept) == 0 {
				delete(byLang, name)
			} else {
				byLang[name] = kept
			}
		}
	}

	for name, locs := range entries {
		byLang[name] = append(byLang[name], locs...)
	}
}

// LookupVirtual resolves name within one embedded language's flat global
// table.
func (g *GlobalIndex) LookupVirtual(language, name string) []symbols.Location {
	g.virtualMu.RLock()
	defer g.virtualMu.RUnlock()
	locs := g.virtualSymbols[language][name]
	out := make([]symbols.Location, len(locs))
	copy(out, locs)
	return out
}

// AllSymbols returns a snapshot of every host-level declared name and its
// declaration sites, for workspace/symbol search.
func (g *GlobalIndex) AllSymbols() map[string][]symbols.Location {
	g.globalMu.RLock()
	defer g.globalMu.RUnlock()
	out := make(map[string][]symbols.Location, len(g.globalSymbols))
	for name, locs := range g.globalSymbols {
		cp := make([]symbols.Location, len(locs))
		copy(cp, locs)
		out[name] = cp
	}
	return out
}

// Document returns the last indexed state for uri, if any.
func (g *GlobalIndex) Document(uri string) (*DocumentState, bool) {
	g.docsMu.RLock()
	defer g.docsMu.RUnlock()
	d, ok := g.docs[uri]
	return d, ok
}
