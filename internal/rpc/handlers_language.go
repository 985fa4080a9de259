package rpc

import (
	"sort"
	"strings"

	"github.com/standardbeagle/rholang-lsp/internal/dispatch"
	"github.com/standardbeagle/rholang-lsp/internal/lang"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/symbols"
)

// semanticTokenTypes is the legend advertised at initialize; identifier and
// contract are the only two kinds the host adapter can currently classify
// with confidence (a lexical scope lookup tells contract from plain name,
// nothing further).
var semanticTokenTypes = []string{"variable", "function"}

// hostAdapterFor returns uri's registered adapter, or nil if none has been
// built yet (e.g. a request racing the first parse).
func (s *Server) hostAdapterFor(uri string) lang.Adapter {
	a, _ := s.Index.GetAdapter(uri)
	return a
}

func (s *Server) handleHover(msg Message) {
	params, err := unmarshalParams[TextDocumentPositionParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	uri := params.TextDocument.URI
	pos := s.toInternalPos(uri, params.Position)
	host := s.hostAdapterFor(uri)

	info, ok := dispatch.Hover(s.Index, s.Registry, host, uri, pos)
	if !ok {
		s.respond(msg.ID, nil)
		return
	}
	s.respond(msg.ID, Hover{Contents: info.Contents, Range: s.fromInternalRange(uri, info.Range)})
}

func (s *Server) handleCompletion(msg Message) {
	params, err := unmarshalParams[TextDocumentPositionParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	uri := params.TextDocument.URI
	pos := s.toInternalPos(uri, params.Position)
	host := s.hostAdapterFor(uri)

	items, _ := dispatch.Completion(s.Index, s.Registry, host, uri, pos)
	out := make([]CompletionItem, len(items))
	for i, it := range items {
		out[i] = CompletionItem{Label: it.Label, Detail: it.Detail, Documentation: it.Doc, InsertText: it.InsertText}
	}
	s.respond(msg.ID, CompletionList{IsIncomplete: false, Items: out})
}

// resolveNameAt determines the dispatch context for (uri, pos) and, if the
// effective adapter supports NameResolver, returns the identifier under the
// cursor plus the resolver to look it up with. ok is false if no adapter
// covers this position or nothing is under the cursor.
func (s *Server) resolveNameAt(uri string, pos position.Position) (ctx dispatch.Context, name string, adapter lang.Adapter, ok bool) {
	ctx = dispatch.Resolve(s.Index, uri, pos)
	host := s.hostAdapterFor(uri)
	a, found := dispatch.AdapterFor(s.Index, s.Registry, host, ctx)
	if !found {
		return ctx, "", nil, false
	}
	nr, isNR := a.(lang.NameResolver)
	if !isNR {
		return ctx, "", nil, false
	}
	queryPos := ctx.Pos
	if ctx.Embedded {
		queryPos = ctx.VirtualPos
	}
	name, _, found = nr.NameAt(queryPos)
	if !found {
		return ctx, "", nil, false
	}
	return ctx, name, a, true
}

func (s *Server) handleDefinition(msg Message) {
	params, err := unmarshalParams[TextDocumentPositionParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	uri := params.TextDocument.URI
	pos := s.toInternalPos(uri, params.Position)

	_, name, adapter, ok := s.resolveNameAt(uri, pos)
	if !ok {
		s.respond(msg.ID, nil)
		return
	}
	cands := adapter.Resolver().Resolve(name)
	locs := make([]Location, 0, len(cands))
	for _, c := range cands {
		locs = append(locs, s.toClientLocation(c.Location))
	}
	s.respond(msg.ID, locs)
}

func (s *Server) handleReferences(msg Message) {
	params, err := unmarshalParams[ReferenceParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	uri := params.TextDocument.URI
	pos := s.toInternalPos(uri, params.Position)

	_, name, adapter, ok := s.resolveNameAt(uri, pos)
	if !ok {
		s.respond(msg.ID, []Location{})
		return
	}
	cands := adapter.Resolver().Resolve(name)

	var out []Location
	for _, c := range cands {
		if params.Context.IncludeDeclaration {
			out = append(out, s.toClientLocation(c.Location))
		}
		for _, use := range s.Index.References(c.Location.URI, c.Location.Range.Start) {
			out = append(out, s.toClientLocation(use))
		}
	}
	if out == nil {
		out = []Location{}
	}
	s.respond(msg.ID, out)
}

func (s *Server) handleRename(msg Message) {
	params, err := unmarshalParams[RenameParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	uri := params.TextDocument.URI
	pos := s.toInternalPos(uri, params.Position)

	_, name, adapter, ok := s.resolveNameAt(uri, pos)
	if !ok {
		s.respondErr(msg.ID, ErrRequestFailed, "nothing to rename at this position")
		return
	}
	cands := adapter.Resolver().Resolve(name)
	if len(cands) == 0 {
		s.respondErr(msg.ID, ErrRequestFailed, "no declaration found for "+name)
		return
	}

	changes := make(map[string][]TextEdit)
	addEdit := func(loc Location) {
		changes[loc.URI] = append(changes[loc.URI], TextEdit{Range: loc.Range, NewText: params.NewName})
	}
	for _, c := range cands {
		addEdit(s.toClientLocation(c.Location))
		for _, use := range s.Index.References(c.Location.URI, c.Location.Range.Start) {
			addEdit(s.toClientLocation(use))
		}
	}
	s.respond(msg.ID, WorkspaceEdit{Changes: changes})
}

func (s *Server) handleDocumentSymbol(msg Message) {
	params, err := unmarshalParams[DocumentSymbolParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	uri := params.TextDocument.URI
	doc, ok := s.Index.Document(uri)
	if !ok || doc.Table == nil {
		s.respond(msg.ID, []DocumentSymbol{})
		return
	}
	syms := s.scopeToDocumentSymbols(uri, doc.Table.Root)
	s.respond(msg.ID, syms)
}

func (s *Server) scopeToDocumentSymbols(uri string, scope *symbols.Scope) []DocumentSymbol {
	names := make([]string, 0, len(scope.Names))
	for n := range scope.Names {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]DocumentSymbol, 0, len(names))
	for _, n := range names {
		sym := scope.Names[n]
		out = append(out, DocumentSymbol{
			Name:           sym.Name,
			Detail:         sym.Kind.String(),
			Kind:           symbolKindFor(sym.Kind),
			Range:          s.fromInternalRange(uri, sym.DeclRange),
			SelectionRange: s.fromInternalRange(uri, sym.DeclRange),
		})
	}
	for _, child := range scope.Children {
		out = append(out, s.scopeToDocumentSymbols(uri, child)...)
	}
	return out
}

// symbolKindFor maps the host Kind taxonomy onto the LSP SymbolKind enum
// (function=12, variable=13).
func symbolKindFor(k symbols.Kind) int {
	switch k {
	case symbols.KindContract:
		return 12
	default:
		return 13
	}
}

func (s *Server) handleWorkspaceSymbol(msg Message) {
	params, err := unmarshalParams[WorkspaceSymbolParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	query := strings.ToLower(params.Query)
	all := s.Index.AllSymbols()

	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)

	var out []SymbolInformation
	for _, n := range names {
		if query != "" && !strings.Contains(strings.ToLower(n), query) {
			continue
		}
		for _, loc := range all[n] {
			out = append(out, SymbolInformation{Name: n, Kind: 12, Location: s.toClientLocation(loc)})
		}
	}
	if out == nil {
		out = []SymbolInformation{}
	}
	s.respond(msg.ID, out)
}

func (s *Server) handleDocumentHighlight(msg Message) {
	params, err := unmarshalParams[TextDocumentPositionParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	uri := params.TextDocument.URI
	pos := s.toInternalPos(uri, params.Position)

	_, name, adapter, ok := s.resolveNameAt(uri, pos)
	if !ok {
		s.respond(msg.ID, []DocumentHighlight{})
		return
	}
	cands := adapter.Resolver().Resolve(name)

	var out []DocumentHighlight
	for _, c := range cands {
		if c.Location.URI == uri {
			out = append(out, DocumentHighlight{Range: s.fromInternalRange(uri, c.Location.Range), Kind: 1})
		}
		for _, use := range s.Index.References(c.Location.URI, c.Location.Range.Start) {
			if use.URI == uri {
				out = append(out, DocumentHighlight{Range: s.fromInternalRange(uri, use.Range), Kind: 2})
			}
		}
	}
	if out == nil {
		out = []DocumentHighlight{}
	}
	s.respond(msg.ID, out)
}

func (s *Server) handleSignatureHelp(msg Message) {
	params, err := unmarshalParams[SignatureHelpParams](msg.Params)
	if err != nil {
		s.respondErr(msg.ID, ErrInvalidParams, err.Error())
		return
	}
	uri := params.TextDocument.URI
	pos := s.toInternalPos(uri, params.Position)

	_, name, adapter, ok := s.resolveNameAt(uri, pos)
	if !ok {
		s.respond(msg.ID, SignatureHelp{Signatures: []SignatureInformation{}})
		return
	}
	docProvider, hasDoc := adapter.(lang.DocProvider)
	var doc string
	if hasDoc {
		doc, _ = docProvider.DocFor(name)
	}
	s.respond(msg.ID, SignatureHelp{Signatures: []SignatureInformation{{Label: name, Documentation: doc}}})
}

// handleSemanticTokensFull returns no tokens today: the host adapter's
// scope table doesn't currently track per-occurrence kind (declaration vs
// reference vs contract-call) at the granularity semantic tokens need, only
// declaration sites. Left as an empty result rather than a best-effort
// guess that would misclassify half the tokens in a file.
func (s *Server) handleSemanticTokensFull(msg Message) {
	s.respond(msg.ID, map[string]any{"data": []int{}})
}

// toClientLocation converts a workspace Location to wire coordinates,
// translating a virtual-document location back to its parent file's
// coordinates since the client never sees vdoc URIs.
func (s *Server) toClientLocation(loc symbols.Location) Location {
	if parentURI, vdocURI, ok := splitVirtualURI(loc.URI); ok {
		for _, v := range s.Index.VirtualDocuments(parentURI) {
			if v.URI() != vdocURI {
				continue
			}
			parentRange := position.Range{
				Start: v.ToParent(loc.Range.Start),
				End:   v.ToParent(loc.Range.End),
			}
			return Location{URI: parentURI, Range: s.fromInternalRange(parentURI, parentRange)}
		}
	}
	return Location{URI: loc.URI, Range: s.fromInternalRange(loc.URI, loc.Range)}
}

// splitVirtualURI splits a `<parent>#vdoc:<n>` URI into its parent URI. ok
// is false for a plain host URI.
func splitVirtualURI(uri string) (parentURI, fullURI string, ok bool) {
	idx := strings.Index(uri, "#vdoc:")
	if idx < 0 {
		return "", "", false
	}
	return uri[:idx], uri, true
}
