package history

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/registry/pkg/storage"
)

// ErrNotFound indicates no record is archived for the requested attempt.
var ErrNotFound = errors.New("history record not found")

// MapHTTPStatus maps history errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return storage.MapHTTPStatus(err)
}
