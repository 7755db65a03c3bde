// Package cache provides the read-through cache used for menu trees.
//
// # Overview
//
// Loading a menu tree from a data source is the only I/O the renderer
// performs, and the same menus are rendered on every page. Trees are
// therefore cached as serialized bytes under keys produced by a [Keyer]:
//
//	render(3)       tree of the menu with ID 3
//	render(main)    tree of the menu with slug "main"
//
// # Backends
//
//   - [MemoryCache]: process-local map with expiration (default for servers)
//   - [FileCache]: one file per entry, used by the CLI between runs
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [NullCache]: disables caching
//
// # Usage
//
//	c := cache.NewMemoryCache()
//	defer c.Close()
//
//	key := cache.NewDefaultKeyer().TreeKey("main")
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // decode data
//	}
package cache

import (
	"context"
	"fmt"
	"time"
)

// Default TTLs for cached entries.
const (
	// TTLTree is how long a loaded menu tree stays cached.
	TTLTree = time.Hour

	// TTLMissing is how long an unresolved slug is remembered as empty.
	TTLMissing = 5 * time.Minute
)

// Cache stores opaque byte values by key.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. The boolean reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey returns the key for the tree of a menu referenced by ID or slug.
	TreeKey(ref string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey returns "render(<ref>)".
func (DefaultKeyer) TreeKey(ref string) string {
	return fmt.Sprintf("render(%s)", ref)
}
