package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-site isolation.
// Sites sharing one Redis instance use separate prefixes so that menus with
// the same slug do not collide.
//
// Example usage:
//
//	siteKeyer := NewScopedKeyer(NewDefaultKeyer(), "site:blog:")
//	siteKeyer.TreeKey("main") // "site:blog:render(main)"
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

// TreeKey generates a prefixed tree key.
func (k *ScopedKeyer) TreeKey(ref string) string {
	return k.prefix + k.inner.TreeKey(ref)
}
