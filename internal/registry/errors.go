package registry

import (
	"errors"
	"net/http"
)

// Store-level errors. Implementations return these, optionally wrapped.
var (
	ErrNotFound  = errors.New("object not found")
	ErrDuplicate = errors.New("object already exists")
	// ErrConflict means a compare-and-apply lost to a concurrent writer.
	ErrConflict = errors.New("object version conflict")
	// ErrTransient marks store failures that may succeed on retry.
	ErrTransient = errors.New("transient store failure")
)

// MapHTTPStatus maps store errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
