// Package config loads the service configuration from TOML files and
// REGISTRY_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/registry/pkg/cache"
	"github.com/JaimeStill/registry/pkg/database"
	"github.com/JaimeStill/registry/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvRegistryEnv             = "REGISTRY_ENV"
	EnvRegistryShutdownTimeout = "REGISTRY_SHUTDOWN_TIMEOUT"
	EnvRegistryVersion         = "REGISTRY_VERSION"
)

var databaseEnv = &database.Env{
	URL:             "REGISTRY_DB_URL",
	Host:            "REGISTRY_DB_HOST",
	Port:            "REGISTRY_DB_PORT",
	Name:            "REGISTRY_DB_NAME",
	User:            "REGISTRY_DB_USER",
	Password:        "REGISTRY_DB_PASSWORD",
	SSLMode:         "REGISTRY_DB_SSL_MODE",
	MaxOpenConns:    "REGISTRY_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "REGISTRY_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "REGISTRY_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "REGISTRY_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "REGISTRY_STORAGE_CONTAINER_NAME",
	ConnectionString: "REGISTRY_STORAGE_CONNECTION_STRING",
	ServiceURL:       "REGISTRY_STORAGE_SERVICE_URL",
	MaxRetries:       "REGISTRY_STORAGE_MAX_RETRIES",
}

var cacheEnv = &cache.Env{
	URL:          "REGISTRY_CACHE_URL",
	Prefix:       "REGISTRY_CACHE_PREFIX",
	TTL:          "REGISTRY_CACHE_TTL",
	PoolSize:     "REGISTRY_CACHE_POOL_SIZE",
	MinIdleConns: "REGISTRY_CACHE_MIN_IDLE_CONNS",
	DialTimeout:  "REGISTRY_CACHE_DIAL_TIMEOUT",
	ReadTimeout:  "REGISTRY_CACHE_READ_TIMEOUT",
	WriteTimeout: "REGISTRY_CACHE_WRITE_TIMEOUT",
}

// Config is the root configuration for the registry service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Cache           cache.Config    `toml:"cache"`
	API             APIConfig       `toml:"api"`
	Registry        RegistryConfig  `toml:"registry"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the REGISTRY_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvRegistryEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.API.Merge(&overlay.API)
	c.Registry.Merge(&overlay.Registry)
}

// Finalize applies defaults, environment overrides, and validation to every
// sub-config. Database settings are only validated for the postgres driver.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Registry.Finalize(); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	if c.Registry.Driver == DriverPostgres {
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	loadString(&c.ShutdownTimeout, EnvRegistryShutdownTimeout)
	loadString(&c.Version, EnvRegistryVersion)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvRegistryEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
