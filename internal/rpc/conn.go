package rpc

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/standardbeagle/rholang-lsp/internal/lsperrors"
)

// Conn is one framed JSON-RPC stream over a transport-provided
// io.ReadWriteCloser. Reads happen on the caller's single dispatch
// goroutine; writes are serialized with a mutex since notifications
// (publishDiagnostics, $/progress) can be sent concurrently with a request's
// own response.
type Conn struct {
	rwc io.ReadWriteCloser
	r   *bufio.Reader

	writeMu sync.Mutex
}

// NewConn wraps rwc for framed reads and writes.
func NewConn(rwc io.ReadWriteCloser) *Conn {
	return &Conn{rwc: rwc, r: bufio.NewReader(rwc)}
}

// Next blocks for the next message on the stream and unmarshals its
// envelope. Returns io.EOF (or a wrapped error) once the peer closes the
// connection.
func (c *Conn) Next() (Message, error) {
	body, err := ReadMessage(c.r)
	if err != nil {
		return Message{}, err
	}
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, &lsperrors.Transport{Detail: "invalid JSON-RPC envelope", Cause: err}
	}
	return msg, nil
}

// Respond writes a response for a request previously read via Next.
func (c *Conn) Respond(id ID, result any) error {
	return c.write(NewResponse(id, result))
}

// RespondError writes an error response for a request previously read via
// Next.
func (c *Conn) RespondError(id ID, code int, message string) error {
	return c.write(NewErrorResponse(id, code, message))
}

// Notify sends a server-initiated notification (publishDiagnostics,
// $/progress, window/logMessage, ...).
func (c *Conn) Notify(method string, params any) error {
	return c.write(NewNotification(method, params))
}

func (c *Conn) write(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return &lsperrors.Transport{Detail: "marshal outgoing message", Cause: err}
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := WriteMessage(c.rwc, payload); err != nil {
		return &lsperrors.Transport{Detail: "write message", Cause: err}
	}
	return nil
}

// Close closes the underlying transport.
func (c *Conn) Close() error {
	return c.rwc.Close()
}
