package pipeline

import (
	"sync"
	"sync/atomic"
	"time"
)

// ParseFunc runs one document's full C3->C7 build (IR conversion, symbol
// table, virtual-document extraction, workspace index update) and returns
// whatever the caller needs to publish (diagnostics, etc). It is invoked on
// a Pool worker, off the request-handling goroutine.
type ParseFunc func(uri, content string) any

// PublishFunc delivers a completed parse's result to the client. It is
// never called for a superseded version.
type PublishFunc func(uri string, result any)

// document is the pipeline's per-URI lifecycle record.
type document struct {
	mu      sync.Mutex
	state   State
	version int64 // bumped on every Open/Change; a stale worker's result is dropped
	content string
}

// Pipeline drives every open document through its lifecycle: Opened ->
// Parsing -> Indexed -> (Changed -> Parsing -> Indexed)* -> Closed, with
// edits debounced per SPEC_FULL.md's default interval and parses run on a
// bounded worker pool with a capped stack size for deep-AST safety.
type Pipeline struct {
	mu        sync.Mutex
	docs      map[string]*document
	debouncer *Debouncer
	pool      *Pool
	parse     ParseFunc
	publish   PublishFunc
}

func New(debounce time.Duration, workers int, maxStackBytes int, parse ParseFunc, publish PublishFunc) *Pipeline {
	return &Pipeline{
		docs:      make(map[string]*document),
		debouncer: NewDebouncer(debounce),
		pool:      NewPool(workers, maxStackBytes),
		parse:     parse,
		publish:   publish,
	}
}

// Open begins a new document's lifecycle and schedules its first parse
// immediately (no debounce on open — the user is waiting on initial
// diagnostics).
func (p *Pipeline) Open(uri, content string) {
	p.mu.Lock()
	doc := &document{state: StateOpened, content: content}
	p.docs[uri] = doc
	p.mu.Unlock()

	p.runParse(uri, doc)
}

// Change records an edit and debounces the reparse — rapid keystrokes
// collapse into a single parse once typing pauses.
func (p *Pipeline) Change(uri, content string) {
	p.mu.Lock()
	doc, ok := p.docs[uri]
	p.mu.Unlock()
	if !ok {
		p.Open(uri, content)
		return
	}

	doc.mu.Lock()
	doc.content = content
	atomic.AddInt64(&doc.version, 1)
	doc.mu.Unlock()

	p.debouncer.Schedule(uri, func() { p.runParse(uri, doc) })
}

// Close ends uri's lifecycle and cancels any pending debounced parse.
func (p *Pipeline) Close(uri string) {
	p.debouncer.Cancel(uri)
	p.mu.Lock()
	doc, ok := p.docs[uri]
	delete(p.docs, uri)
	p.mu.Unlock()
	if ok {
		doc.mu.Lock()
		doc.state = StateClosed
		doc.mu.Unlock()
	}
}

func (p *Pipeline) runParse(uri string, doc *document) {
	doc.mu.Lock()
	if !canTransition(doc.state, StateParsing) {
		doc.mu.Unlock()
		return
	}
	doc.state = StateParsing
	content := doc.content
	version := atomic.LoadInt64(&doc.version)
	doc.mu.Unlock()

	p.pool.Submit(func() {
		result := p.parse(uri, content)

		doc.mu.Lock()
		superseded := atomic.LoadInt64(&doc.version) != version || doc.state == StateClosed
		if !superseded {
			doc.state = StateIndexed
		}
		doc.mu.Unlock()

		if superseded {
			return
		}
		p.publish(uri, result)
	})
}

// Shutdown stops the debouncer and worker pool, waiting for in-flight
// parses to finish.
func (p *Pipeline) Shutdown() {
	p.debouncer.Shutdown()
	p.pool.Shutdown()
}
