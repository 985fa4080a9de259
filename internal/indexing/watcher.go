package indexing

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// EventKind classifies a single filesystem change surfaced by the watcher.
type EventKind int

const (
	EventCreate EventKind = iota
	EventWrite
	EventRemove
)

// Watcher monitors a workspace root and debounces filesystem events into
// create/write/remove callbacks, so a burst of saves (editors frequently
// write a file multiple times in quick succession) collapses into one
// reparse per path.
type Watcher struct {
	fs        *fsnotify.Watcher
	root      string
	extSet    map[string]bool
	exclude   []string
	debounce  time.Duration
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	deb *debouncedEvents

	OnCreate func(path string)
	OnWrite  func(path string)
	OnRemove func(path string)
}

// NewWatcher builds a Watcher rooted at root, restricted to files matching
// extensions and not matching exclude (doublestar glob patterns relative to
// root), coalescing bursts within debounce.
func NewWatcher(root string, extensions, exclude []string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[e] = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fs:       fsw,
		root:     root,
		extSet:   extSet,
		exclude:  exclude,
		debounce: debounce,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	w.deb = newDebouncedEvents(debounce, w.flush)
	return w, nil
}

// Start adds recursive watches under root and begins processing events.
func (w *Watcher) Start() error {
	if err := w.addWatches(w.root); err != nil {
		return err
	}
	w.wg.Add(2)
	go w.processEvents()
	go w.deb.run(w.ctx, &w.wg)
	return nil
}

// Stop tears down the watcher and waits for its goroutines to exit. Events
// still pending in the debouncer at shutdown are dropped rather than
// flushed, matching the discard-on-teardown rule: flushing here would race
// a caller that is simultaneously releasing the state those callbacks touch.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatches(root string) error {
	visited := make(map[string]bool)
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if w.shouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.log.Warn("indexing: failed to watch directory", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}

func (w *Watcher) shouldIgnoreDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	return matchesAny(w.exclude, rel)
}

func (w *Watcher) shouldProcess(path string) bool {
	if !w.extSet[filepath.Ext(path)] {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	return !matchesAny(w.exclude, filepath.ToSlash(rel))
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("indexing: watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	info, err := os.Stat(path)
	if err != nil {
		if event.Op&fsnotify.Remove != 0 && w.shouldProcess(path) {
			w.deb.add(path, EventRemove)
		}
		return
	}

	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !w.shouldIgnoreDir(path) {
			if err := w.fs.Add(path); err != nil {
				w.log.Warn("indexing: failed to watch new directory", zap.String("path", path), zap.Error(err))
			}
		}
		return
	}

	if !w.shouldProcess(path) {
		return
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		w.deb.add(path, EventCreate)
	case event.Op&fsnotify.Write != 0:
		w.deb.add(path, EventWrite)
	case event.Op&fsnotify.Remove != 0:
		w.deb.add(path, EventRemove)
	case event.Op&fsnotify.Rename != 0:
		w.deb.add(path, EventWrite)
	}
}

func (w *Watcher) flush(events map[string]EventKind) {
	var removes, writes, creates []string
	for path, kind := range events {
		switch kind {
		case EventRemove:
			removes = append(removes, path)
		case EventCreate:
			creates = append(creates, path)
		default:
			writes = append(writes, path)
		}
	}

	for _, path := range removes {
		if w.OnRemove != nil {
			w.OnRemove(path)
		}
	}
	for _, path := range writes {
		if w.OnWrite != nil {
			w.OnWrite(path)
		}
	}
	for _, path := range creates {
		if w.OnCreate != nil {
			w.OnCreate(path)
		}
	}
}

// debouncedEvents coalesces per-path events within a fixed window, keeping
// only the latest kind seen for each path (mirroring the pipeline's
// per-document debounce, but batched across an entire flush rather than
// reset-per-path — a single timer covers the whole pending set).
type debouncedEvents struct {
	mu     sync.Mutex
	events map[string]EventKind
	delay  time.Duration
	timer  *time.Timer
	onFlush func(map[string]EventKind)
}

func newDebouncedEvents(delay time.Duration, onFlush func(map[string]EventKind)) *debouncedEvents {
	return &debouncedEvents{
		events:  make(map[string]EventKind),
		delay:   delay,
		onFlush: onFlush,
	}
}

func (d *debouncedEvents) add(path string, kind EventKind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events[path] = kind
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.doFlush)
}

func (d *debouncedEvents) doFlush() {
	d.mu.Lock()
	events := d.events
	d.events = make(map[string]EventKind)
	d.mu.Unlock()

	if len(events) == 0 {
		return
	}
	d.onFlush(events)
}

func (d *debouncedEvents) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	<-ctx.Done()
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.events = make(map[string]EventKind)
	d.mu.Unlock()
}
