package rpc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/standardbeagle/rholang-lsp/internal/config"
	"github.com/standardbeagle/rholang-lsp/internal/indexing"
)

const initialIndexProgressToken = "rholang-lsp/initial-index"

// pathToURI builds the file:// URI the rest of the server keys documents
// by, from an absolute filesystem path.
func pathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// RunInitialIndex discovers every host-language file under cfg.Project.Root
// and opens it through the pipeline exactly as if the client had sent
// didOpen, reporting $/progress as each batch completes. Run once per
// connection, after the initialized notification — a client waiting on the
// initialize response should not block on a potentially large workspace
// walk.
func (s *Server) RunInitialIndex(cfg config.Config) {
	files, err := indexing.Discover(cfg.Project.Root, cfg.Project.HostExtensions, cfg.Project.Exclude)
	if err != nil {
		if s.log != nil {
			s.log.Warn("initial index: discovery failed", zap.Error(err))
		}
		return
	}
	if len(files) == 0 {
		return
	}

	batches := indexing.Chunk(files, cfg.Indexing.BatchSizeMin, cfg.Indexing.BatchSizeMax)

	s.progress(initialIndexProgressToken, ProgressValue{Kind: "begin", Title: "Indexing workspace", Percentage: 0})
	process := func(ctx context.Context, path string) error {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil // best-effort: a file that vanished mid-walk is simply skipped
		}
		uri := pathToURI(path)
		s.recordSource(uri, string(content))
		s.Pipeline.Open(uri, string(content))
		return nil
	}
	onProgress := func(total, done int) {
		pct := 0
		if total > 0 {
			pct = done * 100 / total
		}
		s.progress(initialIndexProgressToken, ProgressValue{
			Kind:       "report",
			Message:    fmt.Sprintf("%d/%d files", done, total),
			Percentage: pct,
		})
	}
	_ = indexing.ProcessBatches(context.Background(), batches, process, onProgress)
	s.progress(initialIndexProgressToken, ProgressValue{Kind: "end"})

	if cfg.Indexing.WatchMode {
		s.startWatcher(cfg)
	}
}

// startWatcher begins watching cfg.Project.Root for out-of-band file
// changes (edits made outside the connected client, e.g. git checkout,
// another editor) and folds them into the same pipeline a didChange would.
// The watcher does not check whether the client has a document open: a
// change on disk to an open document is fed to the pipeline as well.
func (s *Server) startWatcher(cfg config.Config) {
	w, err := indexing.NewWatcher(cfg.Project.Root, cfg.Project.HostExtensions, cfg.Project.Exclude, cfg.Debounce(), s.log)
	if err != nil {
		if s.log != nil {
			s.log.Warn("failed to start workspace watcher", zap.Error(err))
		}
		return
	}
	w.OnCreate = func(path string) { s.onWatchedChange(path) }
	w.OnWrite = func(path string) { s.onWatchedChange(path) }
	w.OnRemove = func(path string) {
		uri := pathToURI(path)
		prev, _ := s.Index.Document(uri)
		s.Pipeline.Close(uri)
		s.Index.RemoveDocument(uri)
		s.Aggregator.Evict(uri)
		if s.Dictionary != nil {
			s.Dictionary.RemoveByURI(uri)
			if prev != nil {
				for _, v := range prev.VirtualURIs {
					s.Dictionary.RemoveByURI(v)
				}
			}
		}
		s.forgetSource(uri)
	}
	if err := w.Start(); err != nil {
		if s.log != nil {
			s.log.Warn("failed to start workspace watcher", zap.Error(err))
		}
		return
	}
	s.watcher = w
}

func (s *Server) onWatchedChange(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}
	uri := pathToURI(path)
	s.recordSource(uri, string(content))
	s.Pipeline.Change(uri, string(content))
}

// StopWatcher tears down the workspace watcher, if one was started.
func (s *Server) StopWatcher() {
	if s.watcher != nil {
		_ = s.watcher.Stop()
	}
}
