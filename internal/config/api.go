package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/registry/pkg/middleware"
	"github.com/JaimeStill/registry/pkg/resultset"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "REGISTRY_CORS_ENABLED",
	Origins:          "REGISTRY_CORS_ORIGINS",
	AllowedMethods:   "REGISTRY_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "REGISTRY_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "REGISTRY_CORS_EXPOSED_HEADERS",
	AllowCredentials: "REGISTRY_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "REGISTRY_CORS_MAX_AGE",
}

var resultsetEnv = &resultset.ConfigEnv{
	MaxSize: "REGISTRY_RESULTSET_MAX_SIZE",
}

// APIConfig holds API routing, CORS, and search result limits.
type APIConfig struct {
	BasePath  string                `toml:"base_path"`
	CORS      middleware.CORSConfig `toml:"cors"`
	ResultSet resultset.Config      `toml:"resultset"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and result set configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.ResultSet.Finalize(resultsetEnv); err != nil {
		return fmt.Errorf("resultset: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	c.CORS.Merge(&overlay.CORS)
	c.ResultSet.Merge(&overlay.ResultSet)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/rdap"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("REGISTRY_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}
