package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments (or
// schema versions) can share one backend without colliding.
//
// Example usage:
//
//	// Keys for the HTTP server, isolated from CLI-populated entries
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "server:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GridKey generates a prefixed key for grid caching.
func (k *ScopedKeyer) GridKey(text, font string) string {
	return k.prefix + k.inner.GridKey(text, font)
}

// ProgramKey generates a prefixed key for program caching.
func (k *ScopedKeyer) ProgramKey(gridsHash string, opts ProgramKeyOpts) string {
	return k.prefix + k.inner.ProgramKey(gridsHash, opts)
}
