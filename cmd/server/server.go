package main

import (
	"fmt"
	"time"

	"github.com/JaimeStill/registry/internal/config"
	"github.com/JaimeStill/registry/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules, and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("infrastructure: %w", err)
	}
	return newServer(cfg, infra)
}

func newServer(cfg *config.Config, infra *infrastructure.Infrastructure) (*Server, error) {
	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}

	router := buildRouter(infra)
	if err := modules.Mount(router); err != nil {
		return nil, fmt.Errorf("mount modules: %w", err)
	}

	infra.Logger.Info(
		"server initialized",
		"version", cfg.Version,
		"env", cfg.Env(),
		"driver", cfg.Registry.Driver,
		"base_path", cfg.API.BasePath,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start brings up infrastructure and binds the listener. Readiness flips
// once every startup hook has returned.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready", "addr", s.http.Addr())
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}
