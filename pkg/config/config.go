// Package config loads chronoshelf settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/chronoshelf/config.toml unless a path is
// given explicitly. Every field is optional:
//
//	width = 1400
//
//	[epoch]
//	before = "BBY"
//	after  = "ABY"
//
//	[catalog]
//	base_url  = "http://localhost:8000/api/v1"
//	page_size = 100
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//	database  = "chronoshelf"
//
//	[server]
//	addr = "127.0.0.1:8080"
//
// CHRONOSHELF_CATALOG_URL, CHRONOSHELF_REDIS_URL and CHRONOSHELF_MONGO_URI
// override the matching fields after the file is read.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chronoshelf/pkg/cache"
	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

const appName = "chronoshelf"

// Defaults.
const (
	DefaultWidth      = 1200.0
	DefaultCatalogURL = "http://localhost:8000/api/v1"
	DefaultPageSize   = 100
	DefaultDatabase   = "chronoshelf"
	DefaultAddr       = "127.0.0.1:8080"
)

// Environment variables that override file settings.
const (
	EnvCatalogURL = "CHRONOSHELF_CATALOG_URL"
	EnvRedisURL   = "CHRONOSHELF_REDIS_URL"
	EnvMongoURI   = "CHRONOSHELF_MONGO_URI"
)

// Config is the decoded configuration file.
type Config struct {
	Width   float64        `toml:"width"`
	Epoch   timeline.Epoch `toml:"epoch"`
	Catalog Catalog        `toml:"catalog"`
	Cache   Cache          `toml:"cache"`
	Store   Store          `toml:"store"`
	Server  Server         `toml:"server"`
}

// Catalog configures the catalog backend client.
type Catalog struct {
	BaseURL  string `toml:"base_url"`
	PageSize int    `toml:"page_size"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	RedisURL string `toml:"redis_url"`
}

// Store configures snapshot persistence. An empty MongoURI keeps snapshots
// in memory.
type Store struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures `chronoshelf serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Load reads the config file at path. An empty path means the XDG default
// location; a missing default file is not an error, a missing explicit one is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default().withEnv(), nil
		}
		path = p
	}

	c := &Config{}
	meta, err := toml.DecodeFile(path, c)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return Default().withEnv(), nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "config file %s", path)
	case err != nil:
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}

	c.setDefaults()
	c.withEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks field values that TOML decoding cannot.
func (c *Config) Validate() error {
	if err := cerrors.ValidateWidth(c.Width); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "cache.backend = redis needs cache.redis_url")
		}
	default:
		return cerrors.New(cerrors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Catalog.PageSize < 1 || c.Catalog.PageSize > 100 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "catalog.page_size must be in [1, 100], got %d", c.Catalog.PageSize)
	}
	return cerrors.ValidateURL(c.Catalog.BaseURL)
}

func (c *Config) setDefaults() {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = DefaultCatalogURL
	}
	if c.Catalog.PageSize == 0 {
		c.Catalog.PageSize = DefaultPageSize
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendFile
	}
	if c.Store.Database == "" {
		c.Store.Database = DefaultDatabase
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

func (c *Config) withEnv() *Config {
	if v := os.Getenv(EnvCatalogURL); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
		c.Cache.Backend = cache.BackendRedis
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
	return c
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the file cache directory (~/.cache/chronoshelf).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
