package rpc

func (s *Server) handleDidOpen(msg Message) {
	params, err := unmarshalParams[DidOpenTextDocumentParams](msg.Params)
	if err != nil {
		return
	}
	uri := params.TextDocument.URI
	s.recordSource(uri, params.TextDocument.Text)
	s.Pipeline.Open(uri, params.TextDocument.Text)
}

func (s *Server) handleDidChange(msg Message) {
	params, err := unmarshalParams[DidChangeTextDocumentParams](msg.Params)
	if err != nil || len(params.ContentChanges) == 0 {
		return
	}
	uri := params.TextDocument.URI
	// TextDocumentSyncFull: the last change entry carries the full document
	// text, matching the sync kind advertised at initialize.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.recordSource(uri, text)
	s.Pipeline.Change(uri, text)
}

func (s *Server) handleDidSave(msg Message) {
	// Content is already current from the last didChange; didSave triggers
	// no additional work since the pipeline always parses on every change.
}

func (s *Server) handleDidClose(msg Message) {
	params, err := unmarshalParams[DidCloseTextDocumentParams](msg.Params)
	if err != nil {
		return
	}
	uri := params.TextDocument.URI
	prev, _ := s.Index.Document(uri)
	s.Pipeline.Close(uri)
	s.Index.RemoveDocument(uri)
	s.Aggregator.Evict(uri)
	if s.Dictionary != nil {
		s.Dictionary.RemoveByURI(uri)
		if prev != nil {
			for _, v := range prev.VirtualURIs {
				s.Dictionary.RemoveByURI(v)
			}
		}
	}
	s.forgetSource(uri)
	_ = s.conn.Notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri, Diagnostics: []DiagnosticWire{}})
}
