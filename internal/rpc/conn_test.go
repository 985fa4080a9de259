package rpc

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// newConnPair wires a Conn over one side of a net.Pipe, the same
// io.ReadWriteCloser shape every real transport (stdio, TCP, WebSocket)
// hands Conn; the other side is exposed raw for the test to assert on.
func newConnPair(t *testing.T) (client *Conn, serverSide net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })
	return NewConn(a), b
}

func TestConn_RespondWritesFramedResult(t *testing.T) {
	conn, raw := newConnPair(t)
	done := make(chan []byte, 1)
	go func() {
		body, err := ReadMessage(bufio.NewReader(raw))
		require.NoError(t, err)
		done <- body
	}()

	require.NoError(t, conn.Respond(ID(`1`), map[string]string{"ok": "yes"}))

	body := <-done
	var resp struct {
		Result map[string]string `json:"result"`
		Error  *ErrorObject       `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Nil(t, resp.Error)
	require.Equal(t, "yes", resp.Result["ok"])
}

func TestConn_RespondErrorWritesErrorObject(t *testing.T) {
	conn, raw := newConnPair(t)
	done := make(chan []byte, 1)
	go func() {
		body, err := ReadMessage(bufio.NewReader(raw))
		require.NoError(t, err)
		done <- body
	}()

	require.NoError(t, conn.RespondError(ID(`2`), ErrInvalidParams, "bad params"))

	body := <-done
	var resp Response
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrInvalidParams, resp.Error.Code)
	require.Equal(t, "bad params", resp.Error.Message)
}

func TestConn_NotifyOmitsID(t *testing.T) {
	conn, raw := newConnPair(t)
	done := make(chan []byte, 1)
	go func() {
		body, err := ReadMessage(bufio.NewReader(raw))
		require.NoError(t, err)
		done <- body
	}()

	require.NoError(t, conn.Notify("textDocument/publishDiagnostics", map[string]string{"uri": "file:///a.rho"}))

	body := <-done
	var n Notification
	require.NoError(t, json.Unmarshal(body, &n))
	require.Equal(t, "textDocument/publishDiagnostics", n.Method)
}

func TestConn_NextReadsRequest(t *testing.T) {
	conn, raw := newConnPair(t)
	go func() {
		_ = WriteMessage(raw, []byte(`{"jsonrpc":"2.0","id":7,"method":"initialize","params":{}}`))
	}()

	msg, err := conn.Next()
	require.NoError(t, err)
	require.Equal(t, "initialize", msg.Method)
	require.False(t, msg.IsNotification())
}

func TestConn_NextReadsNotification(t *testing.T) {
	conn, raw := newConnPair(t)
	go func() {
		_ = WriteMessage(raw, []byte(`{"jsonrpc":"2.0","method":"initialized","params":{}}`))
	}()

	msg, err := conn.Next()
	require.NoError(t, err)
	require.True(t, msg.IsNotification())
}
