package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/registry/internal/api"
	"github.com/JaimeStill/registry/internal/config"
	"github.com/JaimeStill/registry/internal/infrastructure"
	"github.com/JaimeStill/registry/pkg/module"
)

const readinessTimeout = 2 * time.Second

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{"status": "not ready"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if failures := infra.Lifecycle.Check(ctx); len(failures) > 0 {
			checks := make(map[string]string, len(failures))
			for name, err := range failures {
				checks[name] = err.Error()
			}
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not ready",
				"checks": checks,
			})
			return
		}

		writeStatus(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	router.Handle("GET /metrics", promhttp.HandlerFor(
		infra.Registry,
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	))

	return router
}

func writeStatus(w http.ResponseWriter, code int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
