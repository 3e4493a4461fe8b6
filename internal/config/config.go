// Package config loads the missiongraph TOML configuration file.
//
// A configuration file looks like:
//
//	[layout]
//	node_width = 220
//	horizontal_gap = 96
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	database = "missions"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
//
//	[server]
//	addr = ":8080"
//
// Every key is optional. Missing keys take the values from [Default].
package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/missiongraph/pkg/cache"
	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
	"github.com/matzehuels/missiongraph/pkg/layout"
	"github.com/matzehuels/missiongraph/pkg/store"
)

// appName is used for default directories.
const appName = "missiongraph"

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full configuration.
type Config struct {
	Layout layout.Config `toml:"layout"`
	Store  StoreConfig   `toml:"store"`
	Cache  CacheConfig   `toml:"cache"`
	Server ServerConfig  `toml:"server"`
}

// StoreConfig selects where mission task lists live.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"` // Directory for the file backend
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects the layout cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"`
	Prefix        string        `toml:"prefix"` // Key namespace, e.g. "staging:"
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MutationTimeout time.Duration `toml:"mutation_timeout"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Store: StoreConfig{
			Backend:    StoreFile,
			Path:       "missions",
			Database:   appName,
			Collection: store.DefaultCollection,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Dir:     defaultCacheDir(),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			MutationTimeout: 30 * time.Second,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/missiongraph/config.toml, falling
// back to ~/.config.
func DefaultPath() string {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

func defaultCacheDir() string {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// Load reads path over the defaults and validates the result.
//
// An empty path loads [DefaultPath] if that file exists and the defaults
// otherwise. An explicit path that does not exist is an error. Unknown keys
// are rejected so that typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !explicit {
				return Default(), nil
			}
			return Config{}, apierrors.Wrap(apierrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, apierrors.Wrap(apierrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, apierrors.New(apierrors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unusable spacing, unknown backends, and backends missing
// their connection settings.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return apierrors.Wrap(apierrors.ErrCodeInvalidConfig, err, "[layout]")
	}

	switch c.Store.Backend {
	case StoreFile:
		if c.Store.Path == "" {
			return apierrors.New(apierrors.ErrCodeInvalidConfig, "[store] path is required for the file backend")
		}
	case StoreMongo:
		if c.Store.MongoURI == "" || c.Store.Database == "" {
			return apierrors.New(apierrors.ErrCodeInvalidConfig, "[store] mongo_uri and database are required for the mongo backend")
		}
	default:
		return apierrors.New(apierrors.ErrCodeInvalidConfig, "[store] unknown backend %q (want file or mongo)", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone:
	case CacheFile:
		if c.Cache.Dir == "" {
			return apierrors.New(apierrors.ErrCodeInvalidConfig, "[cache] dir is required for the file backend")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return apierrors.New(apierrors.ErrCodeInvalidConfig, "[cache] redis_addr is required for the redis backend")
		}
	default:
		return apierrors.New(apierrors.ErrCodeInvalidConfig, "[cache] unknown backend %q (want none, file, or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return apierrors.New(apierrors.ErrCodeInvalidConfig, "[cache] ttl must not be negative")
	}

	if c.Server.Addr == "" {
		return apierrors.New(apierrors.ErrCodeInvalidConfig, "[server] addr is required")
	}
	return nil
}

// =============================================================================
// Backend Factories
// =============================================================================

// Open connects the configured store.
func (c StoreConfig) Open(ctx context.Context) (store.Store, error) {
	switch c.Backend {
	case StoreMongo:
		s, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.MongoURI,
			Database:   c.Database,
			Collection: c.Collection,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case StoreFile, "":
		s, err := store.NewFileStore(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, apierrors.New(apierrors.ErrCodeInvalidConfig, "unknown store backend %q", c.Backend)
	}
}

// Open connects the configured cache and returns it with its keyer.
// The keyer is scoped when a prefix is set.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if c.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Prefix)
	}

	switch c.Backend {
	case CacheNone:
		return cache.NewNullCache(), keyer, nil
	case CacheRedis:
		cc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err != nil {
			return nil, nil, apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "connect redis cache")
		}
		return cc, keyer, nil
	case CacheFile, "":
		cc, err := cache.NewFileCache(c.Dir)
		if err != nil {
			return nil, nil, apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "open cache dir %s", c.Dir)
		}
		return cc, keyer, nil
	default:
		return nil, nil, apierrors.New(apierrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Backend)
	}
}
