// Package config loads the treemenu configuration file.
//
// # Overview
//
// The configuration is a TOML file, by default
// $XDG_CONFIG_HOME/treemenu/config.toml. Every section is optional; values
// that are not set keep the defaults returned by [Default].
//
//	[render]
//	dropdown = true
//	split = 0
//	beautify = "2s0n"
//
//	[render.templates]
//	root = '<ul class="nav"{{attrs}}>{{content}}</ul>'
//
//	[link]
//	base = "/"
//
//	[cache]
//	backend = "redis"      # none | memory | file | redis
//	redis_addr = "localhost:6379"
//	ttl = "1h"
//	prefix = "site:blog:"
//
//	[store]
//	driver = "sqlite"      # none | sqlite | mongo
//	dsn = "menus.db"
//
//	[server]
//	addr = ":8080"
//
// # Usage
//
//	cfg, err := config.Load(path)
//	rc, err := cfg.RenderConfig()
//	c, err := cfg.OpenCache(ctx)
//	src, closeFn, err := cfg.OpenSource(ctx)
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treemenu/pkg/beautify"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/link"
	"github.com/matzehuels/treemenu/pkg/render"
)

const appName = "treemenu"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Store drivers.
const (
	StoreNone   = "none"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Config is the content of the configuration file.
type Config struct {
	Render render.Config `toml:"render"`
	Link   LinkConfig    `toml:"link"`
	Cache  CacheConfig   `toml:"cache"`
	Store  StoreConfig   `toml:"store"`
	Server ServerConfig  `toml:"server"`
}

// LinkConfig configures URL resolution.
type LinkConfig struct {
	// Base is prepended to site-relative link URLs.
	Base string `toml:"base"`
}

// CacheConfig selects the tree cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	RedisPass string        `toml:"redis_password"`
	RedisDB   int           `toml:"redis_db"`
	TTL       time.Duration `toml:"ttl"`
	Prefix    string        `toml:"prefix"`
}

// StoreConfig selects the menu data source.
type StoreConfig struct {
	Driver   string `toml:"driver"`
	DSN      string `toml:"dsn"`
	Database string `toml:"database"`
}

// ServerConfig configures `treemenu serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: render.DefaultConfig(),
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
			TTL:       time.Hour,
		},
		Store: StoreConfig{
			Driver:   StoreSQLite,
			DSN:      "menus.db",
			Database: appName,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns the configuration file location following the XDG
// standard (~/.config/treemenu/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration file at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is like Load but returns the defaults when path does not
// exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errs.Is(err, errs.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend must be one of none, memory, file, redis; got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	switch c.Store.Driver {
	case StoreNone:
	case StoreSQLite, StoreMongo:
		if c.Store.DSN == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.dsn is required for the %s driver", c.Store.Driver)
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "store.driver must be one of none, sqlite, mongo; got %q", c.Store.Driver)
	}

	rc, err := c.RenderConfig()
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "render")
	}
	if rc.Beautify != "" {
		if _, err := beautify.ParseDirective(rc.Beautify); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "render.beautify")
		}
	}
	return nil
}

// RenderConfig returns the validated render configuration.
func (c *Config) RenderConfig() (render.Config, error) {
	rc := c.Render
	rc.Templates = rc.Templates.Clone()
	if err := rc.ValidateAndSetDefaults(); err != nil {
		return render.Config{}, err
	}
	return rc, nil
}

// Resolver returns a link resolver for a request to current with the given
// breadcrumb trail.
func (c *Config) Resolver(current string, breadcrumb []string) link.PathResolver {
	return link.PathResolver{
		Base:       c.Link.Base,
		Current:    current,
		Breadcrumb: breadcrumb,
	}
}
