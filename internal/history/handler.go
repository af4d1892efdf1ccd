package history

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/registry/pkg/handlers"
	"github.com/JaimeStill/registry/pkg/routes"
)

// Handler exposes archived deletion records.
type Handler struct {
	archive *Archive
	logger  *slog.Logger
}

// NewHandler creates a Handler over archive.
func NewHandler(archive *Archive, logger *slog.Logger) *Handler {
	return &Handler{
		archive: archive,
		logger:  logger.With("handler", "history"),
	}
}

// Routes returns the route group definition for history endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/history",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{handle}/{attempt}", Handler: h.Find},
		},
	}
}

// Find returns the record archived for a handle's attempt.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	attempt, err := uuid.Parse(r.PathValue("attempt"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	rec, err := h.archive.Load(r.Context(), r.PathValue("handle"), attempt)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}
