// Package handlers provides HTTP response helpers shared by domain handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the error document returned for failed requests. It follows
// the RDAP error response layout.
type ErrorBody struct {
	ErrorCode   int      `json:"errorCode"`
	Title       string   `json:"title"`
	Description []string `json:"description"`
}

// RespondJSON writes data as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as an ErrorBody. Server errors are
// logged at error level and their details withheld from the client.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	description := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "status", status)
		description = http.StatusText(status)
	} else {
		logger.Warn("request rejected", "error", err, "status", status)
	}

	RespondJSON(w, status, ErrorBody{
		ErrorCode:   status,
		Title:       http.StatusText(status),
		Description: []string{description},
	})
}
