// Package rpc implements the external-interface façade (C15): request and
// notification handling over the LSP base protocol's framed JSON-RPC
// stream, independent of which transport (internal/transport) carries the
// bytes. No example repo in the corpus frames LSP messages this way — the
// Content-Length header format is the universal LSP base protocol
// convention, inherent to this interface rather than a concern any pack
// library addresses, so message.go implements it directly against
// io.Reader/Writer.
package rpc

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/standardbeagle/rholang-lsp/internal/completion"
	"github.com/standardbeagle/rholang-lsp/internal/config"
	"github.com/standardbeagle/rholang-lsp/internal/diagnostics"
	"github.com/standardbeagle/rholang-lsp/internal/document"
	"github.com/standardbeagle/rholang-lsp/internal/indexing"
	"github.com/standardbeagle/rholang-lsp/internal/lang"
	"github.com/standardbeagle/rholang-lsp/internal/pipeline"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/workspace"
)

// sourceDoc is everything the server keeps per tracked URI purely for
// wire-coordinate conversion: the last known text and its line index. It is
// populated for every document or virtual document the builder has ever
// produced a result for, not just currently-open ones, so a cross-file
// reference result can still be translated to LSP coordinates.
type sourceDoc struct {
	content []byte
	lines   *position.LineIndex
}

// Server is the stateful façade one client connection drives: it owns the
// lifecycle state machine, the shared workspace/registry/dictionary state,
// the document pipeline, and the per-URI source cache used for wire
// position conversion.
type Server struct {
	conn *Conn
	log  *zap.Logger

	lifecycle *Lifecycle

	Index      *workspace.GlobalIndex
	Registry   *lang.Registry
	Dictionary *completion.Dictionary
	Aggregator *diagnostics.Aggregator
	Builder    *document.Builder
	Pipeline   *pipeline.Pipeline

	cfg config.Config

	sourcesMu sync.RWMutex
	sources   map[string]*sourceDoc

	rootURI   string
	cleanExit bool

	watcher *indexing.Watcher
}

// NewServer wires a Server around conn. The caller supplies Index, Registry,
// Dictionary, Aggregator and Builder already constructed (so cmd/rholang-lsp
// can decide worker counts, debounce interval, and which grammar driver to
// inject); Pipeline is built here once Builder is in place.
func NewServer(conn *Conn, log *zap.Logger, index *workspace.GlobalIndex, registry *lang.Registry, dict *completion.Dictionary, agg *diagnostics.Aggregator, builder *document.Builder, cfg config.Config) *Server {
	s := &Server{
		conn:       conn,
		log:        log,
		lifecycle:  NewLifecycle(),
		Index:      index,
		Registry:   registry,
		Dictionary: dict,
		Aggregator: agg,
		Builder:    builder,
		cfg:        cfg,
		sources:    make(map[string]*sourceDoc),
	}
	s.Pipeline = pipeline.New(
		cfg.Debounce(), cfg.Indexing.WorkerCount, cfg.Indexing.WorkerStackBytes,
		builder.ToParseFunc(),
		s.publish,
	)
	return s
}

// Serve runs the read loop until the connection closes or exit is handled.
// Each message is dispatched synchronously on this goroutine except for the
// actual parse work, which the pipeline always hands off to its own worker
// pool — request handling itself never blocks on a parse.
func (s *Server) Serve() error {
	for {
		msg, err := s.conn.Next()
		if err != nil {
			return err
		}
		if s.handle(msg) {
			return nil
		}
	}
}

// handle dispatches one message and reports whether the connection should
// stop serving (the exit notification was received).
func (s *Server) handle(msg Message) (stop bool) {
	if msg.IsNotification() {
		s.handleNotification(msg)
		return msg.Method == "exit"
	}
	s.handleRequest(msg)
	return false
}

func (s *Server) handleRequest(msg Message) {
	if err := s.lifecycle.CheckRequest(msg.Method); err != nil {
		code := ErrInvalidRequest
		if _, ok := err.(*notInitializedError); ok {
			code = ErrServerNotInitialized
		}
		s.respondErr(msg.ID, code, err.Error())
		return
	}

	switch msg.Method {
	case "initialize":
		s.handleInitialize(msg)
	case "shutdown":
		s.handleShutdown(msg)
	case "textDocument/hover":
		s.handleHover(msg)
	case "textDocument/completion":
		s.handleCompletion(msg)
	case "textDocument/definition":
		s.handleDefinition(msg)
	case "textDocument/declaration":
		s.handleDefinition(msg) // host language has no separate declaration site
	case "textDocument/references":
		s.handleReferences(msg)
	case "textDocument/rename":
		s.handleRename(msg)
	case "textDocument/documentSymbol":
		s.handleDocumentSymbol(msg)
	case "workspace/symbol":
		s.handleWorkspaceSymbol(msg)
	case "textDocument/documentHighlight":
		s.handleDocumentHighlight(msg)
	case "textDocument/signatureHelp":
		s.handleSignatureHelp(msg)
	case "textDocument/semanticTokens/full":
		s.handleSemanticTokensFull(msg)
	default:
		s.respondErr(msg.ID, ErrMethodNotFound, "method not found: "+msg.Method)
	}
}

func (s *Server) handleNotification(msg Message) {
	switch msg.Method {
	case "initialized":
		go s.RunInitialIndex(s.cfg)
	case "textDocument/didOpen":
		s.handleDidOpen(msg)
	case "textDocument/didChange":
		s.handleDidChange(msg)
	case "textDocument/didSave":
		s.handleDidSave(msg)
	case "textDocument/didClose":
		s.handleDidClose(msg)
	case "exit":
		s.handleExit(msg)
	default:
		if s.log != nil {
			s.log.Debug("ignoring unhandled notification", zap.String("method", msg.Method))
		}
	}
}

func (s *Server) respond(id ID, result any) {
	if err := s.conn.Respond(id, result); err != nil && s.log != nil {
		s.log.Warn("failed writing response", zap.Error(err))
	}
}

func (s *Server) respondErr(id ID, code int, message string) {
	if len(id) == 0 {
		return // malformed/notification-shaped request, nothing to reply to
	}
	if err := s.conn.RespondError(id, code, message); err != nil && s.log != nil {
		s.log.Warn("failed writing error response", zap.Error(err))
	}
}

func unmarshalParams[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	err := json.Unmarshal(raw, &v)
	return v, err
}

// recordSource updates the wire-conversion cache for uri.
func (s *Server) recordSource(uri, content string) {
	s.sourcesMu.Lock()
	defer s.sourcesMu.Unlock()
	b := []byte(content)
	s.sources[uri] = &sourceDoc{content: b, lines: position.NewLineIndex(b)}
}

func (s *Server) forgetSource(uri string) {
	s.sourcesMu.Lock()
	defer s.sourcesMu.Unlock()
	delete(s.sources, uri)
}

func (s *Server) sourceFor(uri string) *sourceDoc {
	s.sourcesMu.RLock()
	defer s.sourcesMu.RUnlock()
	if d, ok := s.sources[uri]; ok {
		return d
	}
	return nil
}

// toInternalPos converts an LSP position against uri's cached source,
// falling back to treating Character as a raw byte column (correct for
// ASCII content) when uri's source isn't cached yet — e.g. a location
// belonging to a file the indexer found but the client never opened.
func (s *Server) toInternalPos(uri string, p Pos) position.Position {
	d := s.sourceFor(uri)
	if d == nil {
		return position.Position{Row: p.Line, Col: p.Character}
	}
	return toPosition(p, d.lines, d.content)
}

func (s *Server) fromInternalPos(uri string, p position.Position) Pos {
	d := s.sourceFor(uri)
	if d == nil {
		return Pos{Line: p.Row, Character: p.Col}
	}
	return fromPosition(p, d.lines, d.content)
}

func (s *Server) fromInternalRange(uri string, r position.Range) Rng {
	return Rng{Start: s.fromInternalPos(uri, r.Start), End: s.fromInternalPos(uri, r.End)}
}

// publish is the pipeline's PublishFunc: it forwards a build's diagnostics
// into the aggregator and sends the resulting publishDiagnostics
// notification, and pushes new embedded-document content into the source
// cache so subsequent requests against virtual document URIs have a line
// index to convert against.
func (s *Server) publish(uri string, result any) {
	res, ok := result.(document.Result)
	if !ok {
		return
	}
	s.Aggregator.Publish(uri, res.Diagnostics)
	s.sendDiagnostics(uri, res.Diagnostics)

	for _, v := range s.Index.VirtualDocuments(uri) {
		s.recordSource(v.URI(), v.Content)
	}
}

func (s *Server) sendDiagnostics(uri string, diags []diagnostics.Diagnostic) {
	wire := make([]DiagnosticWire, len(diags))
	for i, d := range diags {
		wire[i] = DiagnosticWire{
			Range:    s.fromInternalRange(uri, d.Range),
			Severity: fromSeverity(d.Severity),
			Message:  d.Message,
			Source:   d.Source,
		}
	}
	_ = s.conn.Notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri, Diagnostics: wire})
}

// progress sends one $/progress notification for the given token.
func (s *Server) progress(token string, value ProgressValue) {
	_ = s.conn.Notify("$/progress", ProgressParams{Token: token, Value: value})
}

var _ io.Closer = (*Conn)(nil)
