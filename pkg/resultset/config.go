package resultset

import (
	"fmt"
	"os"
	"strconv"
)

// Config bounds how many results a single search may return.
type Config struct {
	MaxSize int `toml:"max_size"`
}

// ConfigEnv maps environment variable names for result set configuration.
type ConfigEnv struct {
	MaxSize string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxSize != 0 {
		c.MaxSize = overlay.MaxSize
	}
}

// Normalize bounds a requested size: non-positive requests get MaxSize and
// larger requests are clamped to it.
func (c Config) Normalize(requested int) int {
	if requested < 1 || requested > c.MaxSize {
		return c.MaxSize
	}
	return requested
}

func (c *Config) loadDefaults() {
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if env.MaxSize != "" {
		if v := os.Getenv(env.MaxSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxSize = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.MaxSize < 1 {
		return fmt.Errorf("max_size must be positive")
	}
	return nil
}
