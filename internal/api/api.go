// Package api assembles the RDAP module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/registry/internal/config"
	"github.com/JaimeStill/registry/internal/infrastructure"
	"github.com/JaimeStill/registry/pkg/middleware"
	"github.com/JaimeStill/registry/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
