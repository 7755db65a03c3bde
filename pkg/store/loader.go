package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/treemenu/pkg/cache"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/menu"
	"github.com/matzehuels/treemenu/pkg/observability"
)

const keyType = "tree"

// Loader reads menu trees through a cache.
//
// The Loader is stateless apart from its collaborators. Multiple goroutines
// can safely share one Loader; concurrent loads of the same key run a single
// source query and every caller decodes its own copy of the result.
type Loader struct {
	Source Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long loaded trees stay cached. Zero means cache.TTLTree.
	TTL time.Duration

	group singleflight.Group
}

// NewLoader creates a loader.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
// If logger is nil, log output is discarded.
func NewLoader(src Source, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Loader {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Loader{
		Source: src,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// TreeByID returns the tree of the menu with the given ID.
// An unknown menu yields an empty tree.
func (l *Loader) TreeByID(ctx context.Context, id int64) (menu.Tree, error) {
	if err := errs.ValidateMenuID(id); err != nil {
		return nil, err
	}
	ref := strconv.FormatInt(id, 10)
	return l.load(ctx, ref, func() (menu.Tree, time.Duration, error) {
		t, err := l.queryTree(ctx, id)
		return t, l.ttl(), err
	})
}

// TreeBySlug returns the tree of the menu with the given slug.
// A slug that does not resolve yields an empty tree, which is cached for
// cache.TTLMissing.
func (l *Loader) TreeBySlug(ctx context.Context, slug string) (menu.Tree, error) {
	if slug == "" {
		return nil, errs.New(errs.ErrCodeInvalidSlug, "empty menu slug")
	}
	return l.load(ctx, slug, func() (menu.Tree, time.Duration, error) {
		id, ok, err := l.querySlug(ctx, slug)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			l.Logger.Debug("menu slug not found", "slug", slug)
			return nil, cache.TTLMissing, nil
		}
		t, err := l.queryTree(ctx, id)
		return t, l.ttl(), err
	})
}

// Invalidate drops the cached tree for ref, a menu ID or slug.
func (l *Loader) Invalidate(ctx context.Context, ref string) error {
	if err := l.Cache.Delete(ctx, l.Keyer.TreeKey(ref)); err != nil {
		return errs.Wrap(errs.ErrCodeCache, err, "invalidate %s", ref)
	}
	return nil
}

// Warm loads the given menu references concurrently so that later renders
// hit the cache. Numeric references are treated as IDs, everything else as
// slugs.
func (l *Loader) Warm(ctx context.Context, refs ...string) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, ref := range refs {
		g.Go(func() error {
			if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
				_, err = l.TreeByID(gCtx, id)
				return err
			}
			_, err := l.TreeBySlug(gCtx, ref)
			return err
		})
	}
	return g.Wait()
}

func (l *Loader) load(ctx context.Context, ref string, fetch func() (menu.Tree, time.Duration, error)) (menu.Tree, error) {
	if l.Source == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no menu source configured")
	}
	key := l.Keyer.TreeKey(ref)

	if data, hit, err := l.Cache.Get(ctx, key); err != nil {
		l.Logger.Warn("cache read failed", "key", key, "error", err)
	} else if hit {
		if t, err := decode(data); err == nil {
			observability.Cache().OnCacheHit(ctx, keyType)
			l.Logger.Debug("cache hit", "key", key)
			return t, nil
		}
		l.Logger.Warn("discarding corrupt cache entry", "key", key)
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	l.Logger.Debug("cache miss", "key", key)

	v, err, _ := l.group.Do(key, func() (any, error) {
		var (
			t   menu.Tree
			ttl time.Duration
		)
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			t, ttl, err = fetch()
			return err
		})
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(t)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode menu tree")
		}
		if err := l.Cache.Set(ctx, key, data, ttl); err != nil {
			l.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return decode(v.([]byte))
}

func (l *Loader) queryTree(ctx context.Context, id int64) (menu.Tree, error) {
	start := time.Now()
	t, err := l.Source.FindTreeByMenuID(ctx, id)
	observability.Store().OnQuery(ctx, sourceName(l.Source), "tree", time.Since(start), err)
	if err != nil {
		return nil, wrapSourceErr(err, "load menu %d", id)
	}
	return t, nil
}

func (l *Loader) querySlug(ctx context.Context, slug string) (int64, bool, error) {
	start := time.Now()
	id, ok, err := l.Source.FindMenuIDBySlug(ctx, slug)
	observability.Store().OnQuery(ctx, sourceName(l.Source), "slug", time.Since(start), err)
	if err != nil {
		return 0, false, wrapSourceErr(err, "resolve menu slug %q", slug)
	}
	return id, ok, nil
}

func (l *Loader) ttl() time.Duration {
	if l.TTL > 0 {
		return l.TTL
	}
	return cache.TTLTree
}

// wrapSourceErr attaches the storage code while keeping retryable errors
// visible to cache.RetryWithBackoff.
func wrapSourceErr(err error, format string, args ...any) error {
	wrapped := errs.Wrap(errs.ErrCodeStorage, err, format, args...)
	if cache.IsRetryable(err) {
		return cache.Retryable(wrapped)
	}
	return wrapped
}

func decode(data []byte) (menu.Tree, error) {
	var t menu.Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode menu tree: %w", err)
	}
	return t, nil
}
