package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each tenant of a
// shared backend its own namespace:
//
//	countyKeyer := NewScopedKeyer(NewDefaultKeyer(), "county:franklin:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// StylesKey returns the prefixed styles key.
func (k *ScopedKeyer) StylesKey(electionHash string, opts StylesKeyOpts) string {
	return k.prefix + k.inner.StylesKey(electionHash, opts)
}

// LayoutKey returns the prefixed layout key.
func (k *ScopedKeyer) LayoutKey(electionHash, ballotStyleID string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(electionHash, ballotStyleID, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
