package search

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/registry/pkg/handlers"
	"github.com/JaimeStill/registry/pkg/routes"
)

// Handler provides HTTP endpoints for public searches.
type Handler struct {
	engine *Engine
	logger *slog.Logger
}

// NewHandler creates a Handler over engine.
func NewHandler(engine *Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger.With("handler", "search"),
	}
}

// Routes returns the route group definition for search endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/nameservers", Handler: h.Nameservers},
			{Method: "GET", Pattern: "/entities", Handler: h.Entities},
		},
	}
}

// Nameservers searches hosts by ?name= (wildcards allowed) or ?ip=.
func (h *Handler) Nameservers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.engine.Nameservers(r.Context(), Request{
		Name:    q.Get("name"),
		Address: q.Get("ip"),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewNameserverResponse(result))
}

// Entities searches contacts and registrars by ?handle= (wildcards allowed).
// Searching by ?fn= is rejected as not implemented.
func (h *Handler) Entities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.engine.Entities(r.Context(), Request{
		Handle:   q.Get("handle"),
		FullName: q.Get("fn"),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewEntityResponse(result))
}
