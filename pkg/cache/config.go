package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Redis connection parameters. An empty URL disables caching.
type Config struct {
	URL          string `toml:"url"`
	Prefix       string `toml:"prefix"`
	TTL          string `toml:"ttl"`
	PoolSize     int    `toml:"pool_size"`
	MinIdleConns int    `toml:"min_idle_conns"`
	DialTimeout  string `toml:"dial_timeout"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	URL          string
	Prefix       string
	TTL          string
	PoolSize     string
	MinIdleConns string
	DialTimeout  string
	ReadTimeout  string
	WriteTimeout string
}

// Enabled reports whether a Redis URL is configured.
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// TTLDuration returns TTL as a time.Duration.
func (c *Config) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// DialTimeoutDuration returns DialTimeout as a time.Duration.
func (c *Config) DialTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.DialTimeout)
	return d
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *Config) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	return d
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *Config) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.PoolSize != 0 {
		c.PoolSize = overlay.PoolSize
	}
	if overlay.MinIdleConns != 0 {
		c.MinIdleConns = overlay.MinIdleConns
	}
	if overlay.DialTimeout != "" {
		c.DialTimeout = overlay.DialTimeout
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Prefix == "" {
		c.Prefix = "registry:"
	}
	if c.TTL == "" {
		c.TTL = "1m"
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "3s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.URL != "" {
		if v := os.Getenv(env.URL); v != "" {
			c.URL = v
		}
	}
	if env.Prefix != "" {
		if v := os.Getenv(env.Prefix); v != "" {
			c.Prefix = v
		}
	}
	if env.TTL != "" {
		if v := os.Getenv(env.TTL); v != "" {
			c.TTL = v
		}
	}
	if env.PoolSize != "" {
		if v := os.Getenv(env.PoolSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.PoolSize = n
			}
		}
	}
	if env.MinIdleConns != "" {
		if v := os.Getenv(env.MinIdleConns); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MinIdleConns = n
			}
		}
	}
	if env.DialTimeout != "" {
		if v := os.Getenv(env.DialTimeout); v != "" {
			c.DialTimeout = v
		}
	}
	if env.ReadTimeout != "" {
		if v := os.Getenv(env.ReadTimeout); v != "" {
			c.ReadTimeout = v
		}
	}
	if env.WriteTimeout != "" {
		if v := os.Getenv(env.WriteTimeout); v != "" {
			c.WriteTimeout = v
		}
	}
}

func (c *Config) validate() error {
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}
	if _, err := time.ParseDuration(c.DialTimeout); err != nil {
		return fmt.Errorf("invalid dial_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.WriteTimeout); err != nil {
		return fmt.Errorf("invalid write_timeout: %w", err)
	}
	return nil
}
