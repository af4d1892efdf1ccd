// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, time, the object store and its
// optional cache, blob storage, metrics) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/registry/internal/config"
	"github.com/JaimeStill/registry/internal/metrics"
	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/pkg/cache"
	"github.com/JaimeStill/registry/pkg/clock"
	"github.com/JaimeStill/registry/pkg/database"
	"github.com/JaimeStill/registry/pkg/lifecycle"
	"github.com/JaimeStill/registry/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil for the memory driver. Cache and Storage are nil unless
// their accounts are configured.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Clock     clock.Clock
	IDs       clock.IDSource
	Database  database.System
	Store     registry.Store
	Cache     cache.System
	Storage   storage.System
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewWithLogger(cfg, logger)
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Clock:     clock.System{},
		IDs:       clock.NewIDSource(),
		Registry:  prometheus.NewRegistry(),
	}

	infra.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	infra.Metrics = metrics.New(infra.Registry)

	switch cfg.Registry.Driver {
	case config.DriverPostgres:
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
		infra.Store = registry.NewPostgres(db.Connection(), logger)
	case config.DriverMemory:
		logger.Warn("using in-memory object store; state is lost on exit")
		infra.Store = registry.NewMemory()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Registry.Driver)
	}

	if cfg.Cache.Enabled() {
		c, err := cache.New(&cfg.Cache, logger)
		if err != nil {
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		infra.Cache = c
		infra.Store = registry.WithRegistrarCache(infra.Store, c, logger)
	}

	if cfg.Storage.Enabled() {
		s, err := storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = s
	}

	return infra, nil
}

// Start registers all configured systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Cache != nil {
		if err := i.Cache.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("cache start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
