package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/registry/pkg/formatting"
)

const (
	EnvRegistryDriver        = "REGISTRY_STORE_DRIVER"
	EnvRegistryPendingPeriod = "REGISTRY_DELETE_PENDING_PERIOD"
	EnvRegistryMaxRetries    = "REGISTRY_DELETE_MAX_RETRIES"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// RegistryConfig selects the object store and tunes the delete flow.
type RegistryConfig struct {
	Driver string       `toml:"driver"`
	Delete DeleteConfig `toml:"delete"`
}

// DeleteConfig holds delete flow settings. Modes maps object kinds to
// "fast" or "pending"; kinds left out keep their built-in mode.
type DeleteConfig struct {
	PendingPeriod string            `toml:"pending_period"`
	MaxRetries    int               `toml:"max_retries"`
	Modes         map[string]string `toml:"modes"`
}

// PendingPeriodDuration returns PendingPeriod as a time.Duration.
func (c *DeleteConfig) PendingPeriodDuration() time.Duration {
	d, _ := formatting.ParseDuration(c.PendingPeriod)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RegistryConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Overlay modes are merged per kind.
func (c *RegistryConfig) Merge(overlay *RegistryConfig) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.Delete.PendingPeriod != "" {
		c.Delete.PendingPeriod = overlay.Delete.PendingPeriod
	}
	if overlay.Delete.MaxRetries != 0 {
		c.Delete.MaxRetries = overlay.Delete.MaxRetries
	}
	for kind, mode := range overlay.Delete.Modes {
		if c.Delete.Modes == nil {
			c.Delete.Modes = make(map[string]string)
		}
		c.Delete.Modes[kind] = mode
	}
}

func (c *RegistryConfig) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	if c.Delete.PendingPeriod == "" {
		c.Delete.PendingPeriod = "35d"
	}
	if c.Delete.MaxRetries == 0 {
		c.Delete.MaxRetries = 3
	}
}

func (c *RegistryConfig) loadEnv() {
	if v := os.Getenv(EnvRegistryDriver); v != "" {
		c.Driver = v
	}
	if v := os.Getenv(EnvRegistryPendingPeriod); v != "" {
		c.Delete.PendingPeriod = v
	}
	if v := os.Getenv(EnvRegistryMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Delete.MaxRetries = n
		}
	}
}

func (c *RegistryConfig) validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("invalid driver %q: want %s or %s", c.Driver, DriverPostgres, DriverMemory)
	}
	d, err := formatting.ParseDuration(c.Delete.PendingPeriod)
	if err != nil {
		return fmt.Errorf("invalid delete.pending_period: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("delete.pending_period must be positive")
	}
	if c.Delete.MaxRetries < 0 {
		return fmt.Errorf("delete.max_retries must not be negative")
	}
	for kind, mode := range c.Delete.Modes {
		if mode != "fast" && mode != "pending" {
			return fmt.Errorf("invalid delete mode %q for %s", mode, kind)
		}
	}
	return nil
}
