package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/treemenu/pkg/cache"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/store"
	"github.com/matzehuels/treemenu/pkg/store/mongostore"
	"github.com/matzehuels/treemenu/pkg/store/sqlstore"
)

// CacheDir returns the file cache directory: cache.dir when set, otherwise
// $XDG_CACHE_HOME/treemenu (~/.cache/treemenu).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// OpenCache creates the configured cache backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheMemory:
		return cache.NewMemoryCache(), nil
	case CacheFile:
		dir, err := c.CacheDir()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeCache, err, "resolve cache directory")
		}
		return cache.NewFileCache(dir)
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPass,
			DB:       c.Cache.RedisDB,
		})
	}
	return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
}

// Keyer returns the cache keyer, scoped by cache.prefix when set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix != "" {
		return cache.NewScopedKeyer(nil, c.Cache.Prefix)
	}
	return cache.NewDefaultKeyer()
}

// OpenSource connects the configured data source. The returned function
// releases it. A "none" driver yields a nil source.
func (c *Config) OpenSource(ctx context.Context) (store.Source, func() error, error) {
	switch c.Store.Driver {
	case StoreNone:
		return nil, func() error { return nil }, nil
	case StoreSQLite:
		s, err := sqlstore.Open(ctx, c.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case StoreMongo:
		s, err := mongostore.Connect(ctx, c.Store.DSN, c.Store.Database)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return s.Close(context.Background()) }, nil
	}
	return nil, nil, errs.New(errs.ErrCodeInvalidConfig, "unknown store driver %q", c.Store.Driver)
}
