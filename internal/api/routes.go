package api

import (
	"net/http"

	"github.com/JaimeStill/registry/internal/deletion"
	"github.com/JaimeStill/registry/internal/history"
	"github.com/JaimeStill/registry/internal/search"
	"github.com/JaimeStill/registry/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	groups := []routes.Group{
		search.NewHandler(domain.Search, runtime.Logger).Routes(),
		deletion.NewHandler(domain.Deletion, runtime.Logger).Routes(),
	}
	if domain.History != nil {
		groups = append(groups, history.NewHandler(domain.History, runtime.Logger).Routes())
	}

	for _, pattern := range routes.Register(mux, groups...) {
		runtime.Logger.Debug("route registered", "pattern", pattern)
	}
}
