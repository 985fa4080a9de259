// Package document implements the document pipeline's per-URI build step
// (C11): parse, convert to IR, build the host symbol table, extract
// embedded virtual documents, build each one's own symbol index, and fold
// every contribution into the shared workspace index, language adapter
// cache, and completion dictionary. This is the concrete ParseFunc
// internal/pipeline.Pipeline is constructed with.
package document

import (
	"fmt"

	"github.com/standardbeagle/rholang-lsp/internal/comments"
	"github.com/standardbeagle/rholang-lsp/internal/completion"
	"github.com/standardbeagle/rholang-lsp/internal/diagnostics"
	"github.com/standardbeagle/rholang-lsp/internal/embedded"
	"github.com/standardbeagle/rholang-lsp/internal/ir"
	"github.com/standardbeagle/rholang-lsp/internal/ir/cst"
	"github.com/standardbeagle/rholang-lsp/internal/lang"
	"github.com/standardbeagle/rholang-lsp/internal/lsperrors"
	"github.com/standardbeagle/rholang-lsp/internal/metta"
	"github.com/standardbeagle/rholang-lsp/internal/position"
	"github.com/standardbeagle/rholang-lsp/internal/symbols"
	"github.com/standardbeagle/rholang-lsp/internal/virtual"
	"github.com/standardbeagle/rholang-lsp/internal/workspace"
)

// Driver turns one document's source into a concrete syntax tree. The
// concrete grammar and parser are supplied by the embedding application
// (internal/ir/cst documents the capability interface it must satisfy);
// Builder only depends on that interface, never a specific parser library.
type Driver func(source []byte) (cst.Node, error)

// Result is everything one Build call produced for its caller: the
// document's URI and the diagnostics to publish. It carries no version;
// pipeline.Pipeline drops a superseded build's result by comparing its own
// content version.
type Result struct {
	URI         string
	Diagnostics []diagnostics.Diagnostic
}

// Builder runs the full per-document build and keeps the workspace index,
// adapter cache, and completion dictionary consistent with the latest
// parse of every open document.
type Builder struct {
	Index      *workspace.GlobalIndex
	Registry   *lang.Registry
	Dictionary *completion.Dictionary
	Parse      Driver

	// DedicatedLanguages lists directive tags with a real Builder-backed
	// adapter (only "metta" ships one); any other tag gets the generic
	// flat-global path (internal/embedded) instead.
	DedicatedLanguages map[string]bool
}

// ToParseFunc adapts Build to internal/pipeline.ParseFunc's signature.
func (b *Builder) ToParseFunc() func(uri, content string) any {
	return func(uri, content string) any {
		return b.Build(uri, content)
	}
}

// Build parses content, rebuilds every index contribution uri previously
// made, and returns the diagnostics to publish.
func (b *Builder) Build(uri, content string) Result {
	source := []byte(content)

	if b.Parse == nil {
		return parseFailure(uri, "no grammar driver configured")
	}

	cstRoot, err := b.Parse(source)
	if err != nil {
		return parseFailure(uri, err.Error())
	}

	conv := ir.NewConverter(source)
	root := conv.Convert(cstRoot)
	rope := position.NewLineIndex(source)
	ranges, err := position.Reconstruct(uri, root, rope)
	if err != nil {
		if mnb, ok := err.(*lsperrors.MalformedNodeBase); ok {
			return parseFailure(uri, mnb.Error())
		}
		return parseFailure(uri, err.Error())
	}

	prev, _ := b.Index.Document(uri)
	var prevVURIs []string
	if prev != nil {
		prevVURIs = prev.VirtualURIs
	}

	// Evict this URI's (and its previous embedded documents') prior dynamic
	// entries before the rebuild below reinserts them — otherwise a reparse
	// duplicates every name it already contributed, and a name removed on
	// this edit would linger forever.
	if b.Dictionary != nil {
		b.Dictionary.RemoveByURI(uri)
		for _, v := range prevVURIs {
			b.Dictionary.RemoveByURI(v)
		}
	}

	commentCh := comments.Build(conv.Comments(), rope)
	symBuilder := symbols.NewBuilder(uri, ranges, commentCh, b.Index.GlobalScope())
	symResult := symBuilder.Build(root)

	vdocs := virtual.Extract(uri, root, ranges)
	vURIs := make([]string, len(vdocs))
	for i, v := range vdocs {
		vURIs[i] = v.URI()
	}

	b.Index.UpdateDocument(uri, symResult.Table, symResult.References, vURIs)
	b.Index.SetVirtualDocuments(uri, vdocs)
	b.Index.RemoveAdapters(staleURIs(prevVURIs, vURIs))

	host := lang.NewHost(uri, root, ranges, symResult.Table, b.Index.LookupGlobal)
	b.Index.SetAdapter(uri, host)
	b.syncDictionary(symResult.Table)

	diags := append([]diagnostics.Diagnostic(nil), symResult.Diagnostics...)
	for _, v := range vdocs {
		diags = append(diags, b.buildVirtual(v)...)
	}

	return Result{URI: uri, Diagnostics: diags}
}

// buildVirtual builds one embedded document's own symbol index (dedicated
// per-language builder if one exists, the generic flat-global scan
// otherwise) and registers the resulting adapter (or flat entries) against
// the virtual document's own URI.
func (b *Builder) buildVirtual(v *virtual.Document) []diagnostics.Diagnostic {
	if b.DedicatedLanguages[v.Language] && v.Language == "metta" {
		table := metta.BuildTable(v.Content)
		adapter := lang.NewMeTTa(v.URI(), v.Content, table, func(name string) []symbols.Location {
			return b.Index.LookupVirtual("metta", name)
		})
		b.Index.SetAdapter(v.URI(), adapter)
		b.syncVirtualDictionary(v, table)
		return nil
	}

	idx := embedded.Build(v.Content)
	entries := make(map[string][]symbols.Location, len(idx.Occurrences))
	for name, occs := range idx.Occurrences {
		locs := make([]symbols.Location, len(occs))
		for i, o := range occs {
			locs[i] = symbols.Location{URI: v.URI(), Range: o.Range}
		}
		entries[name] = locs
	}
	b.Index.UpdateVirtualSymbols(v.Language, []string{v.URI()}, entries)
	return nil
}

func (b *Builder) syncDictionary(table *symbols.Table) {
	if b.Dictionary == nil || table.Root == nil {
		return
	}
	for name, sym := range table.Root.Names {
		kind := sym.Kind.String()
		if sym.Kind == symbols.KindContract && sym.Pattern != nil {
			kind = fmt.Sprintf("contract(%d)", sym.Pattern.Arity())
		}
		b.Dictionary.Insert(completion.Entry{Name: name, Kind: kind, Doc: sym.Doc, URI: sym.DeclURI})
	}
}

func (b *Builder) syncVirtualDictionary(v *virtual.Document, table *metta.Table) {
	if b.Dictionary == nil {
		return
	}
	for name, defs := range table.Definitions {
		if len(defs) == 0 {
			continue
		}
		b.Dictionary.Insert(completion.Entry{
			Name: name,
			Kind: fmt.Sprintf("metta-def(%d)", defs[0].Pattern.Arity),
			URI:  v.URI(),
		})
	}
}

func parseFailure(uri, message string) Result {
	return Result{URI: uri, Diagnostics: []diagnostics.Diagnostic{{
		Severity: diagnostics.SeverityError,
		Message:  message,
		Source:   "rholang-parser",
	}}}
}

// staleURIs returns every entry in prev that no longer appears in next —
// the virtual documents (and their cached adapters) a reparse dropped.
func staleURIs(prev, next []string) []string {
	if len(prev) == 0 {
		return nil
	}
	keep := make(map[string]bool, len(next))
	for _, u := range next {
		keep[u] = true
	}
	var out []string
	for _, u := range prev {
		if !keep[u] {
			out = append(out, u)
		}
	}
	return out
}
