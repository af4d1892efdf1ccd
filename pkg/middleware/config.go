package middleware

import (
	"os"
	"strconv"
	"strings"
)

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	ExposedHeaders   []string `toml:"exposed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv maps CORS config fields to environment variable names for override injection.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	ExposedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults and environment variable overrides.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites fields from overlay. Boolean fields always apply; slice and
// int fields only apply when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	for _, f := range []struct{ dst, src *[]string }{
		{&c.Origins, &overlay.Origins},
		{&c.AllowedMethods, &overlay.AllowedMethods},
		{&c.AllowedHeaders, &overlay.AllowedHeaders},
		{&c.ExposedHeaders, &overlay.ExposedHeaders},
	} {
		if *f.src != nil {
			*f.dst = *f.src
		}
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "HEAD", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization", "Idempotency-Key"}
	}
	if len(c.ExposedHeaders) == 0 {
		c.ExposedHeaders = []string{"Idempotency-Key"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

func (c *CORSConfig) loadEnv(env *CORSEnv) {
	loadBool(&c.Enabled, env.Enabled)
	loadBool(&c.AllowCredentials, env.AllowCredentials)
	loadList(&c.Origins, env.Origins)
	loadList(&c.AllowedMethods, env.AllowedMethods)
	loadList(&c.AllowedHeaders, env.AllowedHeaders)
	loadList(&c.ExposedHeaders, env.ExposedHeaders)

	if v := lookup(env.MaxAge); v != "" {
		if maxAge, err := strconv.Atoi(v); err == nil {
			c.MaxAge = maxAge
		}
	}
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func loadBool(dst *bool, name string) {
	if v := lookup(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// loadList replaces dst with the comma-separated, trimmed, non-empty entries
// of the named variable.
func loadList(dst *[]string, name string) {
	v := lookup(name)
	if v == "" {
		return
	}
	items := make([]string, 0)
	for item := range strings.SplitSeq(v, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	*dst = items
}
