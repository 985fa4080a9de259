// Package diagnostics implements the diagnostics aggregator (C14): it
// collects per-document diagnostics from the builders and parser, remaps
// virtual-document diagnostics to parent coordinates, and publishes once per
// Indexed transition per URI.
package diagnostics

import "github.com/standardbeagle/rholang-lsp/internal/position"

// Severity mirrors the LSP DiagnosticSeverity enum (1-4).
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Diagnostic is one reportable issue, already in the coordinate system of
// the document it will be published against (host or parent, never a raw
// virtual-document coordinate — translation happens before it reaches here).
type Diagnostic struct {
	Range    position.Range
	Severity Severity
	Message  string
	Source   string // e.g. "rholang-parser", "symbols", "metta"
}
