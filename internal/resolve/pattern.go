package resolve

import (
	"github.com/standardbeagle/rholang-lsp/internal/metta"
	"github.com/standardbeagle/rholang-lsp/internal/symbols"
)

// PatternFiltered resolves a MeTTa name against a single virtual document's
// definitions, preferring the equation whose arity matches the call site
// (CallArity >= 0); MeTTa overloads a head symbol across multiple arities
// (`(= (f $x) ...)` vs `(= (f $x $y) ...)`), so arity is the discriminator
// lexical scoping has no equivalent of.
//
// A single arity match is Exact; several matches are all Ambiguous. If none
// match (or CallArity is -1), every equation sharing the head name is
// returned, as Fuzzy when there is only one and as Ambiguous otherwise —
// better to show every candidate than silently guess wrong.
type PatternFiltered struct {
	URI        string
	Table      *metta.Table
	CallArity  int // -1 when the call site's argument count is unknown
}

func (p *PatternFiltered) Resolve(name string) []Candidate {
	defs, ok := p.Table.Definitions[name]
	if !ok || len(defs) == 0 {
		return nil
	}

	if p.CallArity >= 0 {
		var exact []Candidate
		for _, d := range defs {
			if d.Pattern.Arity == p.CallArity {
				exact = append(exact, Candidate{
					Location:   symbols.Location{URI: p.URI, Range: d.Range},
					Confidence: Exact,
				})
			}
		}
		if len(exact) == 1 {
			return exact
		}
		if len(exact) > 1 {
			for i := range exact {
				exact[i].Confidence = Ambiguous
			}
			return exact
		}
	}

	out := make([]Candidate, len(defs))
	conf := Fuzzy
	if len(defs) > 1 {
		conf = Ambiguous
	}
	for i, d := range defs {
		out[i] = Candidate{Location: symbols.Location{URI: p.URI, Range: d.Range}, Confidence: conf}
	}
	return out
}
