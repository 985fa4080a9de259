package rpc

import (
	"github.com/standardbeagle/rholang-lsp/internal/diagnostics"
	"github.com/standardbeagle/rholang-lsp/internal/position"
)

// The structs below are the subset of the LSP 3.17 wire format this server
// actually exchanges. Field names and JSON tags follow the specification
// directly; unused optional fields are simply omitted rather than modeled.

type Pos struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Rng struct {
	Start Pos `json:"start"`
	End   Pos `json:"end"`
}

type Location struct {
	URI   string `json:"uri"`
	Range Rng    `json:"range"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Pos                    `json:"position"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type ContentChange struct {
	Text string `json:"text"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []ContentChange                 `json:"contentChanges"`
}

type DidSaveTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Text         string                 `json:"text,omitempty"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

type ReferenceParams struct {
	TextDocumentPositionParams
	Context ReferenceContext `json:"context"`
}

type RenameParams struct {
	TextDocumentPositionParams
	NewName string `json:"newName"`
}

type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes"`
}

type TextEdit struct {
	Range   Rng    `json:"range"`
	NewText string `json:"newText"`
}

type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           int              `json:"kind"`
	Range          Rng              `json:"range"`
	SelectionRange Rng              `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

type WorkspaceSymbolParams struct {
	Query string `json:"query"`
}

type SymbolInformation struct {
	Name     string   `json:"name"`
	Kind     int      `json:"kind"`
	Location Location `json:"location"`
}

type Hover struct {
	Contents string `json:"contents"`
	Range    Rng    `json:"range"`
}

type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

type CompletionItem struct {
	Label         string `json:"label"`
	Kind          int    `json:"kind,omitempty"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	InsertText    string `json:"insertText,omitempty"`
}

type SignatureHelpParams struct {
	TextDocumentPositionParams
}

type SignatureHelp struct {
	Signatures []SignatureInformation `json:"signatures"`
}

type SignatureInformation struct {
	Label         string `json:"label"`
	Documentation string `json:"documentation,omitempty"`
}

type DocumentHighlight struct {
	Range Rng `json:"range"`
	Kind  int `json:"kind"`
}

type PublishDiagnosticsParams struct {
	URI         string             `json:"uri"`
	Diagnostics []DiagnosticWire   `json:"diagnostics"`
}

type DiagnosticWire struct {
	Range    Rng    `json:"range"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Source   string `json:"source,omitempty"`
}

type ProgressParams struct {
	Token string      `json:"token"`
	Value ProgressValue `json:"value"`
}

type ProgressValue struct {
	Kind        string `json:"kind"` // "begin", "report", "end"
	Title       string `json:"title,omitempty"`
	Message     string `json:"message,omitempty"`
	Percentage  int    `json:"percentage,omitempty"`
}

// toPosition converts an LSP (UTF-16) position into the module's internal
// byte-precise position, using lines to resolve the UTF-16-to-byte column
// conversion for the requested row.
func toPosition(p Pos, lines *position.LineIndex, source []byte) position.Position {
	lineStart := lines.LineStartByte(p.Line)
	content := lines.LineContent(source, p.Line)
	return position.FromLSP(position.LSPPosition{Line: p.Line, Character: p.Character}, content, lineStart)
}

func fromPosition(p position.Position, lines *position.LineIndex, source []byte) Pos {
	content := lines.LineContent(source, p.Row)
	lsp := position.ToLSP(p, content)
	return Pos{Line: lsp.Line, Character: lsp.Character}
}

func fromRange(r position.Range, lines *position.LineIndex, source []byte) Rng {
	return Rng{Start: fromPosition(r.Start, lines, source), End: fromPosition(r.End, lines, source)}
}

func fromSeverity(s diagnostics.Severity) int { return int(s) }
