package deletion

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/registry/pkg/handlers"
	"github.com/JaimeStill/registry/pkg/routes"
)

// IdempotencyHeader carries the attempt id of a delete request.
const IdempotencyHeader = "Idempotency-Key"

var errMissingClient = errors.New("client_id is required")

// Handler provides the HTTP endpoint for object deletion.
type Handler struct {
	flow   *Flow
	logger *slog.Logger
}

// NewHandler creates a Handler over flow.
func NewHandler(flow *Flow, logger *slog.Logger) *Handler {
	return &Handler{
		flow:   flow,
		logger: logger.With("handler", "deletion"),
	}
}

// Routes returns the route group definition for deletion endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/objects",
		Routes: []routes.Route{
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// Delete deletes the object at {id} on behalf of ?client_id=. A request
// without an Idempotency-Key header gets a fresh attempt id, echoed back in
// the response header so the caller can retry.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingClient)
		return
	}

	var attempt uuid.UUID
	if key := r.Header.Get(IdempotencyHeader); key != "" {
		id, err := uuid.Parse(key)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		attempt = id
	}

	out, err := h.flow.Delete(r.Context(), Request{
		ObjectID:  r.PathValue("id"),
		ClientID:  clientID,
		AttemptID: attempt,
	})
	w.Header().Set(IdempotencyHeader, out.Attempt.String())

	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	code := http.StatusOK
	if out.Code == CodeSuccessPending {
		code = http.StatusAccepted
	}
	handlers.RespondJSON(w, code, out)
}
