package diagnostics

import (
	"sync"

	"github.com/standardbeagle/rholang-lsp/internal/position"
)

// Aggregator holds the latest published diagnostics per URI. It follows the
// "last write wins, with the lock held only for the commit step" pattern
// used for the workspace's documents map (here one RWMutex covers every
// URI): readers never block on a
// slow producer, and cancellation is handled by the caller (pipeline)
// comparing a version tag before calling Publish.
type Aggregator struct {
	mu   sync.RWMutex
	byURI map[string][]Diagnostic
}

func NewAggregator() *Aggregator {
	return &Aggregator{byURI: make(map[string][]Diagnostic)}
}

// Publish replaces the diagnostic set for uri. Called once per Indexed
// transition; an empty slice clears previously published diagnostics (e.g.
// after a parse error is fixed).
func (a *Aggregator) Publish(uri string, diags []Diagnostic) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(diags) == 0 {
		delete(a.byURI, uri)
		return
	}
	a.byURI[uri] = diags
}

// Get returns the currently published diagnostics for uri.
func (a *Aggregator) Get(uri string) []Diagnostic {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Diagnostic(nil), a.byURI[uri]...)
}

// Evict removes uri's diagnostics entirely, used on document close.
func (a *Aggregator) Evict(uri string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.byURI, uri)
}

// Translate remaps a virtual-document diagnostic's range to parent
// coordinates using the supplied mapping function, producing the Diagnostic
// the aggregator should publish against the parent URI.
func Translate(d Diagnostic, toParent func(Diagnostic) position.Range) Diagnostic {
	d.Range = toParent(d)
	return d
}
