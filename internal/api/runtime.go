package api

import (
	"github.com/JaimeStill/registry/internal/config"
	"github.com/JaimeStill/registry/internal/infrastructure"
	"github.com/JaimeStill/registry/pkg/resultset"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	ResultSet resultset.Config
	Delete    config.DeleteConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		ResultSet:      cfg.API.ResultSet,
		Delete:         cfg.Registry.Delete,
	}
}
