// Package lsperrors defines the error kinds from the error-handling design:
// recoverable parse/diagnostic errors, internal invariant violations that are
// logged and self-healed, and request-level failures surfaced to the client.
package lsperrors

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/standardbeagle/rholang-lsp/internal/position"
)

// Kind classifies an error for the policy described in the error-handling
// design: some kinds produce a diagnostic, some self-heal, some terminate
// only the affected connection.
type Kind string

const (
	KindParseError          Kind = "parse_error"
	KindMalformedNodeBase   Kind = "malformed_node_base"
	KindDuplicateDecl       Kind = "duplicate_declaration"
	KindBrokenInvariant     Kind = "broken_invariant"
	KindRequestFailed       Kind = "request_failed"
	KindTransport           Kind = "transport"
)

// ParseError is recoverable: the caller should still retain the best-effort
// partial IR and surface this as a diagnostic rather than abort the document.
type ParseError struct {
	URI     string
	Range   position.Range
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s at %s: %s", e.URI, e.Range, e.Message)
}

func (e *ParseError) Kind() Kind { return KindParseError }

// MalformedNodeBase reports a NodeBase that violates the dual-length
// invariant (syntactic_length < content_length) or carries a negative delta.
// It is internal: logged at error level, and the affected document is marked
// degraded rather than aborting the process.
type MalformedNodeBase struct {
	URI    string
	Detail string
}

func (e *MalformedNodeBase) Error() string {
	return fmt.Sprintf("malformed node base in %s: %s", e.URI, e.Detail)
}

func (e *MalformedNodeBase) Kind() Kind { return KindMalformedNodeBase }

// Wrap adds the MalformedNodeBase stack trace via pkg/errors so the degraded
// state can be diagnosed from logs after the document keeps serving stale
// results.
func (e *MalformedNodeBase) Wrap(cause error) error {
	return errors.Wrap(cause, e.Error())
}

// DuplicateDeclaration reports a second declaration of name in scope; the
// host symbol table rejects the duplicate but must not panic.
type DuplicateDeclaration struct {
	Name  string
	Scope string
}

func (e *DuplicateDeclaration) Error() string {
	return fmt.Sprintf("duplicate declaration %q in scope %q", e.Name, e.Scope)
}

func (e *DuplicateDeclaration) Kind() Kind { return KindDuplicateDecl }

// BrokenInvariant reports a cross-URI structural inconsistency (e.g. an
// inverted-index entry referencing a URI no longer in the workspace). The
// caller logs it and self-heals by removing the stale entry.
type BrokenInvariant struct {
	Detail string
	Cause  error
}

func (e *BrokenInvariant) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("broken invariant: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("broken invariant: %s", e.Detail)
}

func (e *BrokenInvariant) Kind() Kind { return KindBrokenInvariant }

func (e *BrokenInvariant) Unwrap() error { return e.Cause }

// NewBrokenInvariant wraps cause with a stack trace via pkg/errors, matching
// the self-healing contract: the trace is for diagnosis, the process keeps
// running.
func NewBrokenInvariant(detail string, cause error) *BrokenInvariant {
	var wrapped error
	if cause != nil {
		wrapped = errors.WithStack(cause)
	}
	return &BrokenInvariant{Detail: detail, Cause: wrapped}
}

// RequestFailed is surfaced to the client as an LSP error response.
type RequestFailed struct {
	Reason string
}

func (e *RequestFailed) Error() string { return e.Reason }

func (e *RequestFailed) Kind() Kind { return KindRequestFailed }

// Transport reports a connection-level failure; only the affected connection
// is terminated, the server process continues serving other connections.
type Transport struct {
	Detail string
	Cause  error
}

func (e *Transport) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Detail, e.Cause)
}

func (e *Transport) Kind() Kind { return KindTransport }

func (e *Transport) Unwrap() error { return e.Cause }
