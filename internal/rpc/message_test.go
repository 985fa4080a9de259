package rpc

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"jsonrpc":"2.0","method":"initialize"}`)
	require.NoError(t, WriteMessage(&buf, payload))

	got, err := ReadMessage(bufio.NewReader(&buf))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestWriteMessageHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, []byte("ab")))
	require.True(t, strings.HasPrefix(buf.String(), "Content-Length: 2\r\n\r\n"))
}

func TestReadMessageMultipleFrames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, []byte(`{"a":1}`)))
	require.NoError(t, WriteMessage(&buf, []byte(`{"b":2}`)))

	r := bufio.NewReader(&buf)
	first, err := ReadMessage(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(first))

	second, err := ReadMessage(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"b":2}`, string(second))
}

func TestReadMessageTruncatedBody(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("Content-Length: 10\r\n\r\nabc"))
	_, err := ReadMessage(r)
	require.Error(t, err)
}
