package resolve

// Composable chains a primary resolver with ordered fallbacks: the first
// resolver to return any candidates wins, its confidence passed through
// unchanged. This is how the host language resolves a name — lexical scope
// first, then the workspace's flat global table for cross-file contract
// references — without either resolver needing to know about the other.
type Composable struct {
	Base      Resolver
	Fallbacks []Resolver
}

func (c *Composable) Resolve(name string) []Candidate {
	if cands := c.Base.Resolve(name); len(cands) > 0 {
		return cands
	}
	for _, fb := range c.Fallbacks {
		if cands := fb.Resolve(name); len(cands) > 0 {
			return cands
		}
	}
	return nil
}
