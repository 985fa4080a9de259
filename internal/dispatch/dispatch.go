// Package dispatch implements the request dispatcher (C13): given a
// (document URI, position) pair from an incoming LSP request, it decides
// whether the position falls inside a host document or one of its
// extracted virtual documents, and routes to the matching language
// adapter's resolver or provider. Results that originate in virtual-
// document coordinates are translated back to the parent before returning,
// so callers never see a vdoc URI or a virtual-local position.
package dispatch

import (
	"github.com/standardbeagle/rholang-lsp/internal/lang"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/virtual"
	"github.com/standardbeagle/rholang-lsp/internal/workspace"
)

// Context identifies where a request position resolves to: the host
// document directly, or an embedded region within one of its virtual
// documents.
type Context struct {
	Embedded bool

	// Host fields (always set).
	URI string
	Pos position.Position

	// Embedded fields (set only when Embedded is true).
	Language      string
	VirtualURI    string
	VirtualPos    position.Position
	virtualDoc    *virtual.Document
}

// Resolve determines the LanguageContext for (uri, pos): host by default,
// or Embedded if pos falls inside one of uri's recorded virtual documents.
func Resolve(index *workspace.GlobalIndex, uri string, pos position.Position) Context {
	for _, vdoc := range index.VirtualDocuments(uri) {
		if vdoc.Contains(pos) {
			return Context{
				Embedded:   true,
				URI:        uri,
				Pos:        pos,
				Language:   vdoc.Language,
				VirtualURI: vdoc.URI(),
				VirtualPos: vdoc.ToVirtual(pos),
				virtualDoc: vdoc,
			}
		}
	}
	return Context{URI: uri, Pos: pos}
}

// AdapterFor returns the adapter for ctx's effective language — the host
// adapter if ctx is not embedded, otherwise the adapter instance built
// specifically for ctx.VirtualURI (index's per-document adapter cache),
// falling back to the registry's generic slot for ctx.Language (false if
// neither has one, meaning the generic flat-global embedded-language path
// handles it instead of a dedicated adapter).
func AdapterFor(index *workspace.GlobalIndex, registry *lang.Registry, hostAdapter lang.Adapter, ctx Context) (lang.Adapter, bool) {
	if !ctx.Embedded {
		return hostAdapter, true
	}
	if a, ok := index.GetAdapter(ctx.VirtualURI); ok {
		return a, true
	}
	return registry.Get(ctx.Language)
}

// TranslateLocation maps a single result location back to parent
// coordinates when it was produced against a virtual document; a location
// already expressed in a different URI's coordinates (e.g. a cross-file
// reference) passes through unchanged.
func (c Context) TranslateLocation(loc lang.HoverInfo) lang.HoverInfo {
	if !c.Embedded || c.virtualDoc == nil {
		return loc
	}
	loc.Range.Start = c.virtualDoc.ToParent(loc.Range.Start)
	loc.Range.End = c.virtualDoc.ToParent(loc.Range.End)
	return loc
}

// Hover resolves a hover request end to end: determine the context, route
// to the matching adapter's HoverProvider (if it has one), and translate
// the result back to parent coordinates.
func Hover(index *workspace.GlobalIndex, registry *lang.Registry, hostAdapter lang.Adapter, uri string, pos position.Position) (lang.HoverInfo, bool) {
	ctx := Resolve(index, uri, pos)
	adapter, ok := AdapterFor(index, registry, hostAdapter, ctx)
	if !ok {
		return lang.HoverInfo{}, false
	}
	provider, ok := adapter.(lang.HoverProvider)
	if !ok {
		return lang.HoverInfo{}, false
	}
	queryPos := ctx.Pos
	if ctx.Embedded {
		queryPos = ctx.VirtualPos
	}
	info, ok := provider.Hover(queryPos)
	if !ok {
		return lang.HoverInfo{}, false
	}
	return ctx.TranslateLocation(info), true
}

// Completion resolves a completion request end to end, analogous to Hover.
func Completion(index *workspace.GlobalIndex, registry *lang.Registry, hostAdapter lang.Adapter, uri string, pos position.Position) ([]lang.CompletionItem, Context) {
	ctx := Resolve(index, uri, pos)
	adapter, ok := AdapterFor(index, registry, hostAdapter, ctx)
	if !ok {
		return nil, ctx
	}
	provider, ok := adapter.(lang.CompletionProvider)
	if !ok {
		return nil, ctx
	}
	queryPos := ctx.Pos
	if ctx.Embedded {
		queryPos = ctx.VirtualPos
	}
	return provider.CompletionCandidates(queryPos), ctx
}
