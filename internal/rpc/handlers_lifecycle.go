package rpc

// InitializeParams is the subset of the client's initialize request this
// server reads; everything else (client capabilities, trace level, ...) is
// accepted and ignored.
type InitializeParams struct {
	RootURI       string `json:"rootUri"`
	ProcessID     int    `json:"processId"`
	WorkspaceRoot string `json:"rootPath"`
}

// InitializeResult advertises the capabilities this server actually
// implements; a capability left unset here must never be dispatched to in
// handleRequest.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

type ServerCapabilities struct {
	TextDocumentSync   int               `json:"textDocumentSync"`
	HoverProvider      bool              `json:"hoverProvider"`
	CompletionProvider CompletionOptions `json:"completionProvider"`
	DefinitionProvider bool              `json:"definitionProvider"`
	DeclarationProvider bool             `json:"declarationProvider"`
	ReferencesProvider bool              `json:"referencesProvider"`
	RenameProvider     bool              `json:"renameProvider"`
	DocumentSymbolProvider  bool         `json:"documentSymbolProvider"`
	WorkspaceSymbolProvider bool         `json:"workspaceSymbolProvider"`
	DocumentHighlightProvider bool       `json:"documentHighlightProvider"`
	SignatureHelpProvider   SignatureHelpOptions `json:"signatureHelpProvider"`
	SemanticTokensProvider  SemanticTokensOptions `json:"semanticTokensProvider"`
}

type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type SignatureHelpOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type SemanticTokensOptions struct {
	Legend SemanticTokensLegend `json:"legend"`
	Full   bool                 `json:"full"`
}

type SemanticTokensLegend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// TextDocumentSyncFull: the client resends the document's full text on
// every change, matching document.Builder.Build's all-at-once parse (no
// incremental-edit application is implemented anywhere in the pipeline).
const textDocumentSyncFull = 1

func (s *Server) handleInitialize(msg Message) {
	params, err := unmarshalParams[InitializeParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	if err := s.lifecycle.Initialize(); err != nil {
		s.respondErr(msg.ID, ErrInvalidRequest, err.Error())
		return
	}
	s.rootURI = params.RootURI

	s.respond(msg.ID, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:    textDocumentSyncFull,
			HoverProvider:       true,
			CompletionProvider:  CompletionOptions{TriggerCharacters: []string{".", "!", "#"}},
			DefinitionProvider:  true,
			DeclarationProvider: true,
			ReferencesProvider:  true,
			RenameProvider:      true,
			DocumentSymbolProvider:    true,
			WorkspaceSymbolProvider:   true,
			DocumentHighlightProvider: true,
			SignatureHelpProvider:     SignatureHelpOptions{TriggerCharacters: []string{"("}},
			SemanticTokensProvider: SemanticTokensOptions{
				Full:   true,
				Legend: SemanticTokensLegend{TokenTypes: semanticTokenTypes, TokenModifiers: nil},
			},
		},
	})
}

func (s *Server) handleShutdown(msg Message) {
	if err := s.lifecycle.Shutdown(); err != nil {
		s.respondErr(msg.ID, ErrInvalidRequest, err.Error())
		return
	}
	s.Pipeline.Shutdown()
	s.StopWatcher()
	s.respond(msg.ID, nil)
}

// handleExit runs the exit notification. The connection loop's caller
// (Serve, via handle's stop return) closes the transport once this returns;
// cmd/rholang-lsp reads CleanShutdown afterwards to choose the process exit
// code (0 if shutdown preceded exit, 1 otherwise, per the LSP spec).
func (s *Server) handleExit(msg Message) {
	s.cleanExit = s.lifecycle.Exit()
}

// CleanShutdown reports whether shutdown preceded exit.
func (s *Server) CleanShutdown() bool {
	return s.cleanExit
}
