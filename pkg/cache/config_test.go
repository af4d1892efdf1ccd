package cache_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/registry/pkg/cache"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := cache.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Enabled() {
		t.Error("cache without url should be disabled")
	}
	if cfg.Prefix != "registry:" {
		t.Errorf("prefix: got %s, want registry:", cfg.Prefix)
	}
	if cfg.TTLDuration() != time.Minute {
		t.Errorf("ttl: got %v, want 1m", cfg.TTLDuration())
	}
	if cfg.PoolSize != 10 {
		t.Errorf("pool_size: got %d, want 10", cfg.PoolSize)
	}
	if cfg.DialTimeoutDuration() != 5*time.Second {
		t.Errorf("dial_timeout: got %v, want 5s", cfg.DialTimeoutDuration())
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CACHE_URL", "redis://localhost:6379/1")
	t.Setenv("TEST_CACHE_TTL", "30s")
	t.Setenv("TEST_CACHE_POOL", "4")

	env := &cache.Env{
		URL:      "TEST_CACHE_URL",
		TTL:      "TEST_CACHE_TTL",
		PoolSize: "TEST_CACHE_POOL",
	}

	cfg := cache.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.Enabled() {
		t.Error("cache with url should be enabled")
	}
	if cfg.TTLDuration() != 30*time.Second {
		t.Errorf("ttl: got %v, want 30s", cfg.TTLDuration())
	}
	if cfg.PoolSize != 4 {
		t.Errorf("pool_size: got %d, want 4", cfg.PoolSize)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     cache.Config
		wantErr string
	}{
		{"invalid ttl", cache.Config{TTL: "soon"}, "invalid ttl"},
		{"negative ttl", cache.Config{TTL: "-1s"}, "ttl must be positive"},
		{"invalid dial timeout", cache.Config{DialTimeout: "x"}, "invalid dial_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Finalize() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := cache.Config{URL: "redis://a:6379", TTL: "1m"}
	base.Merge(&cache.Config{TTL: "5m"})

	if base.URL != "redis://a:6379" {
		t.Errorf("url should be preserved, got %s", base.URL)
	}
	if base.TTL != "5m" {
		t.Errorf("ttl: got %s, want 5m", base.TTL)
	}
}

func TestNew(t *testing.T) {
	t.Run("valid url", func(t *testing.T) {
		cfg := cache.Config{URL: "redis://localhost:6379/0"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		sys, err := cache.New(&cfg, slog.Default())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if sys == nil {
			t.Fatal("New() returned nil system")
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		cfg := cache.Config{URL: "http://not-redis"}
		if _, err := cache.New(&cfg, slog.Default()); err == nil {
			t.Fatal("expected error for non-redis scheme")
		}
	})
}
