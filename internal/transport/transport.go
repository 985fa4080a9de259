// Package transport implements the three wire carriers the external
// interface façade (C15) can run over — stdio, TCP, and WebSocket — behind
// one io.ReadWriteCloser so the JSON-RPC framing in internal/rpc never has
// to know which one it's talking over. Grounded on the teacher's
// `net.Listener` + `http.Server` socket-serving shape in
// `internal/server/server.go`, extended to WebSocket using the pack's
// other gorilla/websocket consumer (`HelixDevelopment-HelixCode/internal/mcp/server.go`,
// `websocket.Upgrader` + `Conn.Read/WriteMessage`).
package transport

import (
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// recommendedBufferBytes is the buffer size spec.md §4.15 recommends for
// transport I/O (64 KiB).
const recommendedBufferBytes = 64 * 1024

// Stdio wraps process stdin/stdout as a single ReadWriteCloser.
func Stdio(stdin io.Reader, stdout io.Writer) io.ReadWriteCloser {
	return &stdioConn{stdin: stdin, stdout: stdout}
}

type stdioConn struct {
	stdin  io.Reader
	stdout io.Writer
}

func (s *stdioConn) Read(p []byte) (int, error)  { return s.stdin.Read(p) }
func (s *stdioConn) Write(p []byte) (int, error) { return s.stdout.Write(p) }
func (s *stdioConn) Close() error                { return nil }

// ListenTCP starts a TCP listener at addr and enables TCP_NODELAY on every
// accepted connection (per spec.md §4.15), invoking handle for each one in
// its own goroutine. Blocks until the listener is closed or Accept fails.
func ListenTCP(addr string, handle func(io.ReadWriteCloser)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetNoDelay(true)
		}
		go handle(bufferedConn{conn})
	}
}

type bufferedConn struct {
	net.Conn
}

// wsConn adapts a *websocket.Conn to io.ReadWriteCloser by carrying the
// framed JSON-RPC byte stream inside binary WebSocket messages: each Write
// call becomes one binary frame, and Read drains frames into the caller's
// buffer across calls (a frame larger than the caller's buffer is split
// across successive Reads).
type wsConn struct {
	conn    *websocket.Conn
	pending []byte
}

func (w *wsConn) Read(p []byte) (int, error) {
	for len(w.pending) == 0 {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		w.pending = data
	}
	n := copy(p, w.pending)
	w.pending = w.pending[n:]
	return n, nil
}

func (w *wsConn) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

// ServeWebSocket upgrades one HTTP request to a WebSocket connection and
// invokes handle with the resulting transport. Intended as an
// http.HandlerFunc registered on a single path (e.g. `/lsp`).
func ServeWebSocket(handle func(io.ReadWriteCloser)) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  recommendedBufferBytes,
		WriteBufferSize: recommendedBufferBytes,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Time{})
		handle(&wsConn{conn: conn})
	}
}
