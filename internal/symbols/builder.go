package symbols

import (
	"fmt"

	"github.com/standardbeagle/rholang-lsp/internal/comments"
	"github.com/standardbeagle/rholang-lsp/internal/diagnostics"
	"github.com/standardbeagle/rholang-lsp/internal/ir"
	"github.com/standardbeagle/rholang-lsp/internal/lsperrors"
	"github.com/standardbeagle/rholang-lsp/internal/position"
)

// scopeIntroducers are IR kinds whose children execute in a fresh child
// scope: `new` binders, contract parameters and body, and `for` (input)
// pattern bindings.
var scopeIntroducers = map[ir.Kind]bool{
	ir.KindNew:      true,
	ir.KindContract: true,
	ir.KindInput:    true,
	ir.KindMatchCase: true,
}

// Reference is one resolved use-site, keyed by the declaration's (uri, pos)
// so the workspace's inverted index tolerates reparses (a map keyed by
// position, not by node identity, per the redesign notes).
type Reference struct {
	DeclURI   string
	DeclPos   position.Position
	UseURI    string
	UseRange  position.Range
}

// Result is everything the builder produced for one document: its scope
// table, the references it discovered (for the caller to fold into the
// workspace inverted index), and any diagnostics (duplicate declarations).
type Result struct {
	Table       *Table
	References  []Reference
	Diagnostics []diagnostics.Diagnostic
}

// Builder traverses a document's IR and builds its symbol table. global, if
// non-nil, is the workspace's global scope — declarations still land in the
// document's own root scope, but lookups chain through global for
// references to other files (the common Rholang case: a contract declared
// in file A, used in file B; resolution is handled by internal/resolve,
// this builder only needs global for computing scope depth at the root).
type Builder struct {
	uri      string
	ranges   map[position.Node]position.Range
	commentCh comments.Channel
	global   *Scope
}

func NewBuilder(uri string, ranges map[position.Node]position.Range, commentCh comments.Channel, global *Scope) *Builder {
	return &Builder{uri: uri, ranges: ranges, commentCh: commentCh, global: global}
}

// Build walks root and returns the document's symbol table plus references
// and diagnostics. It never panics on a duplicate declaration: the second
// declaration is recorded as a diagnostic and the first definition wins.
func (b *Builder) Build(root *ir.Node) Result {
	table := NewTable(b.global)
	res := Result{Table: table}
	b.walk(root, table.Root, &res)
	return res
}

func (b *Builder) rangeOf(n *ir.Node) position.Range {
	return b.ranges[n]
}

func (b *Builder) walk(n *ir.Node, scope *Scope, res *Result) {
	childScope := scope
	if scopeIntroducers[n.Kind] {
		childScope = res.Table.NewChildScope(scope)
	}

	switch n.Kind {
	case ir.KindContract:
		// The name and parameter children are consumed directly as the
		// declaration; only the remaining children (the body) recurse
		// generically, so the declaration's own name token is never also
		// recorded as a reference to itself.
		b.declareContract(n, scope, childScope, res)
		for _, c := range n.ChildNodes {
			if c.Kind == ir.KindIdentifier || c.Kind == ir.KindParam {
				continue
			}
			b.walk(c, childScope, res)
		}
		return
	case ir.KindNameDecl:
		b.declareNameDecl(n, scope, res)
		return
	case ir.KindParam:
		b.declareParam(n, childScope, res)
		return
	case ir.KindIdentifier:
		b.recordReference(n, scope, res)
		return
	}

	for _, c := range n.ChildNodes {
		b.walk(c, childScope, res)
	}
}

// declareContract registers the contract name in the enclosing scope (so
// siblings and the global table can find it) and records its parameter
// pattern signature; the definition position is the contract's own body
// start, syntactically following the declaration, per the
// declaration/definition split in the data model.
func (b *Builder) declareContract(n *ir.Node, declScope, bodyScope *Scope, res *Result) {
	name, nameNode := firstChildText(n, ir.KindIdentifier)
	if name == "" {
		return
	}
	r := b.rangeOf(nameNode)

	var params []string
	for _, c := range n.ChildNodes {
		if c.Kind == ir.KindParam {
			if pname, _ := firstChildText(c, ir.KindIdentifier); pname != "" {
				params = append(params, pname)
			} else if c.Text != "" {
				params = append(params, c.Text)
			}
		}
	}

	defRange := b.rangeOf(n)
	for _, c := range n.ChildNodes {
		if c.Kind != ir.KindIdentifier && c.Kind != ir.KindParam {
			defRange = b.rangeOf(c)
			break
		}
	}

	sym := &Symbol{
		Name:      name,
		Kind:      KindContract,
		DeclURI:   b.uri,
		DeclPos:   r.Start,
		DeclRange: r,
		Pattern:   &PatternSignature{ParamNames: params},
		Doc:       firstOrEmpty(b.commentCh.DocCommentsBefore(r.Start)),
		ScopeID:   declScope.ID,
		HasDef:    true,
		DefPos:    defRange.Start,
		DefRange:  defRange,
	}
	b.insert(declScope, sym, res)
}

func (b *Builder) declareNameDecl(n *ir.Node, scope *Scope, res *Result) {
	name := n.Text
	if name == "" {
		name, _ = firstChildText(n, ir.KindIdentifier)
	}
	if name == "" {
		return
	}
	r := b.rangeOf(n)
	sym := &Symbol{
		Name: name, Kind: KindNameDecl, DeclURI: b.uri, DeclPos: r.Start, DeclRange: r,
		Doc: firstOrEmpty(b.commentCh.DocCommentsBefore(r.Start)), ScopeID: scope.ID,
	}
	b.insert(scope, sym, res)
}

func (b *Builder) declareParam(n *ir.Node, scope *Scope, res *Result) {
	name := n.Text
	if name == "" {
		name, _ = firstChildText(n, ir.KindIdentifier)
	}
	if name == "" {
		return
	}
	r := b.rangeOf(n)
	sym := &Symbol{Name: name, Kind: KindParameter, DeclURI: b.uri, DeclPos: r.Start, DeclRange: r, ScopeID: scope.ID}
	b.insert(scope, sym, res)
}

// insert enforces the host constraint: at most one declaration per (scope,
// name). A collision produces a DuplicateDeclaration diagnostic instead of
// overwriting or panicking; the original declaration is kept.
func (b *Builder) insert(scope *Scope, sym *Symbol, res *Result) {
	if existing, ok := scope.Names[sym.Name]; ok {
		err := &lsperrors.DuplicateDeclaration{Name: sym.Name, Scope: fmt.Sprintf("scope#%d", scope.ID)}
		res.Diagnostics = append(res.Diagnostics, diagnostics.Diagnostic{
			Range:    sym.DeclRange,
			Severity: diagnostics.SeverityWarning,
			Message:  err.Error(),
			Source:   "symbols",
		})
		_ = existing
		return
	}
	scope.Names[sym.Name] = sym
}

// recordReference resolves n against the lexical scope chain and, on a hit,
// adds an inverted-index entry keyed by the declaration's (uri, pos).
// Unresolved identifiers are not an error here — they may resolve in the
// workspace's global table, which internal/resolve consults separately.
func (b *Builder) recordReference(n *ir.Node, scope *Scope, res *Result) {
	if n.Text == "" {
		return
	}
	sym, ok := scope.Lookup(n.Text)
	if !ok {
		return
	}
	res.References = append(res.References, Reference{
		DeclURI:  sym.DeclURI,
		DeclPos:  sym.DeclPos,
		UseURI:   b.uri,
		UseRange: b.rangeOf(n),
	})
}

func firstChildText(n *ir.Node, kind ir.Kind) (string, *ir.Node) {
	for _, c := range n.ChildNodes {
		if c.Kind == kind {
			return c.Text, c
		}
	}
	return "", nil
}

func firstOrEmpty(docs []string) string {
	if len(docs) == 0 {
		return ""
	}
	out := docs[0]
	for _, d := range docs[1:] {
		out += "\n" + d
	}
	return out
}
