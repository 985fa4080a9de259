// Package embedded implements the generic flat-global symbol path for
// embedded languages without a dedicated parser (C6's fallback case): rather
// than building a real IR, every identifier-shaped token in the virtual
// document is folded into a single flat, unscoped name table. This gives an
// embedded language minimal completion and go-to-reference support for free,
// as soon as its directive tag is registered, without writing a parser for it.
package embedded

import (
	"regexp"

	"github.com/standardbeagle/rholang-lsp/internal/position"
)

// identifierPattern matches the common identifier shape across C-like and
// Lisp-like languages: a letter or underscore followed by word characters,
// optionally with internal hyphens (Lisp-style kebab-case names).
var identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_-]*`)

// Occurrence is one identifier-shaped token found in the virtual document's
// content, with its byte range relative to the start of that content.
type Occurrence struct {
	Name  string
	Range position.Range
}

// Index is the flat symbol table for one generic embedded document: every
// distinct name maps to every place it occurred. There is no declaration/
// reference distinction — without language-specific grammar there is no way
// to tell them apart, so the resolver treats the first occurrence as the
// provisional definition site (per SPEC_FULL.md's flat-global resolver).
type Index struct {
	Occurrences map[string][]Occurrence
}

// Build scans content for identifier-shaped tokens and returns the flat
// index. row/col tracking mirrors the metta parser's so the same RopeIndex
// machinery isn't needed — positions are computed directly during the scan.
func Build(content string) *Index {
	idx := &Index{Occurrences: make(map[string][]Occurrence)}
	row, lineStart := 0, 0
	for _, loc := range identifierPattern.FindAllStringIndex(content, -1) {
		start, end := loc[0], loc[1]
		for i := lineStart; i < start; i++ {
			if content[i] == '\n' {
				row++
				lineStart = i + 1
			}
		}
		name := content[start:end]
		occ := Occurrence{
			Name: name,
			Range: position.Range{
				Start: position.Position{Row: row, Col: start - lineStart, Byte: start},
				End:   position.Position{Row: row, Col: end - lineStart, Byte: end},
			},
		}
		idx.Occurrences[name] = append(idx.Occurrences[name], occ)
	}
	return idx
}

// DefinitionSite returns the first recorded occurrence of name, used as the
// provisional declaration location by the flat-global resolver.
func (idx *Index) DefinitionSite(name string) (Occurrence, bool) {
	occs, ok := idx.Occurrences[name]
	if !ok || len(occs) == 0 {
		return Occurrence{}, false
	}
	return occs[0], true
}
