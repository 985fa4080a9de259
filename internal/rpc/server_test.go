package rpc

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rholang-lsp/internal/completion"
	"github.com/standardbeagle/rholang-lsp/internal/config"
	"github.com/standardbeagle/rholang-lsp/internal/diagnostics"
	"github.com/standardbeagle/rholang-lsp/internal/document"
	"github.com/standardbeagle/rholang-lsp/internal/lang"
	"github.com/standardbeagle/rholang-lsp/internal/workspace"
)

// testServer builds a Server with no grammar driver wired (Parse left nil,
// matching document.Builder's own "missing driver produces a diagnostic,
// not a panic" contract) and returns it alongside the client-facing half of
// an in-memory pipe.
func testServer(t *testing.T) (srv *Server, client net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })

	builder := &document.Builder{
		Index:      workspace.New(),
		Registry:   lang.NewRegistry(),
		Dictionary: completion.NewDictionary(),
	}
	cfg := config.Default()
	cfg.Indexing.WorkerCount = 1
	cfg.Indexing.WorkerStackBytes = 1 << 20
	cfg.Indexing.DebounceMs = 0

	srv = NewServer(NewConn(b), nil, builder.Index, builder.Registry, builder.Dictionary, diagnostics.NewAggregator(), builder, cfg)
	t.Cleanup(srv.Pipeline.Shutdown) // Pool.Shutdown tolerates being called twice
	return srv, a
}

// serveInBackground runs srv.Serve on its own goroutine and returns a
// function the test calls after sending "exit" to block until the read
// loop has actually stopped.
func serveInBackground(t *testing.T, srv *Server) (waitStopped func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		_ = srv.Serve()
		close(done)
	}()
	return func() {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("server did not stop")
		}
	}
}

func sendRequest(t *testing.T, client net.Conn, id, method string, params any) {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	msg := Message{JSONRPC: "2.0", ID: ID(id), Method: method, Params: raw}
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, WriteMessage(client, body))
}

func sendNotification(t *testing.T, client net.Conn, method string, params any) {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	msg := Message{JSONRPC: "2.0", Method: method, Params: raw}
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, WriteMessage(client, body))
}

func readResponse(t *testing.T, r *bufio.Reader) Response {
	t.Helper()
	body, err := ReadMessage(r)
	require.NoError(t, err)
	var resp Response
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestServer_RejectsRequestBeforeInitialize(t *testing.T) {
	srv, client := testServer(t)
	wait := serveInBackground(t, srv)
	r := bufio.NewReader(client)

	sendRequest(t, client, `1`, "textDocument/hover", map[string]any{})
	resp := readResponse(t, r)
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrServerNotInitialized, resp.Error.Code)

	sendNotification(t, client, "exit", nil)
	wait()
}

func TestServer_InitializeAdvertisesCapabilities(t *testing.T) {
	srv, client := testServer(t)
	wait := serveInBackground(t, srv)
	r := bufio.NewReader(client)

	sendRequest(t, client, `1`, "initialize", InitializeParams{RootURI: "file:///root"})
	resp := readResponse(t, r)
	require.Nil(t, resp.Error)

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var result InitializeResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.True(t, result.Capabilities.HoverProvider)
	require.True(t, result.Capabilities.DefinitionProvider)

	sendNotification(t, client, "exit", nil)
	wait()
}

func TestServer_DidOpenWithoutDriverPublishesDiagnostic(t *testing.T) {
	srv, client := testServer(t)
	wait := serveInBackground(t, srv)
	r := bufio.NewReader(client)

	sendRequest(t, client, `1`, "initialize", InitializeParams{RootURI: "file:///root"})
	_ = readResponse(t, r)

	sendNotification(t, client, "textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: "file:///a.rho", Text: "anything"},
	})

	body, err := ReadMessage(r)
	require.NoError(t, err)
	var n Notification
	require.NoError(t, json.Unmarshal(body, &n))
	require.Equal(t, "textDocument/publishDiagnostics", n.Method)

	raw, err := json.Marshal(n.Params)
	require.NoError(t, err)
	var params PublishDiagnosticsParams
	require.NoError(t, json.Unmarshal(raw, &params))
	require.Equal(t, "file:///a.rho", params.URI)
	require.Len(t, params.Diagnostics, 1)

	sendNotification(t, client, "exit", nil)
	wait()
}

func TestServer_ShutdownThenExitIsCleanShutdown(t *testing.T) {
	srv, client := testServer(t)
	wait := serveInBackground(t, srv)
	r := bufio.NewReader(client)

	sendRequest(t, client, `1`, "initialize", InitializeParams{RootURI: "file:///root"})
	_ = readResponse(t, r)

	sendRequest(t, client, `2`, "shutdown", nil)
	resp := readResponse(t, r)
	require.Nil(t, resp.Error)

	sendNotification(t, client, "exit", nil)
	wait()
	require.True(t, srv.CleanShutdown())
}

func TestServer_ExitWithoutShutdownIsUnclean(t *testing.T) {
	srv, client := testServer(t)
	wait := serveInBackground(t, srv)
	r := bufio.NewReader(client)

	sendRequest(t, client, `1`, "initialize", InitializeParams{RootURI: "file:///root"})
	_ = readResponse(t, r)

	sendNotification(t, client, "exit", nil)
	wait()
	require.False(t, srv.CleanShutdown())
}
