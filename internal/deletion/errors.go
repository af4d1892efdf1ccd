package deletion

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/internal/status"
)

// Code is an EPP result code.
type Code int

const (
	CodeSuccess            Code = 1000
	CodeSuccessPending     Code = 1001
	CodeAuthorizationError Code = 2201
	CodeObjectDoesNotExist Code = 2303
	CodeStatusProhibits    Code = 2304
	CodeCommandFailed      Code = 2400
)

// Message returns the standard text for c.
func (c Code) Message() string {
	switch c {
	case CodeSuccess:
		return "Command completed successfully"
	case CodeSuccessPending:
		return "Command completed successfully; action pending"
	case CodeAuthorizationError:
		return "Authorization error"
	case CodeObjectDoesNotExist:
		return "Object does not exist"
	case CodeStatusProhibits:
		return "Object status prohibits operation"
	case CodeCommandFailed:
		return "Command failed"
	}
	return fmt.Sprintf("result code %d", int(c))
}

var (
	// ErrNotFound means the target does not exist at the time of the request.
	ErrNotFound = errors.New("object does not exist")
	// ErrNotOwner means the acting registrar does not sponsor the target.
	ErrNotOwner = errors.New("object not owned by requesting registrar")
	// ErrStoreTransient means the write did not land and may be retried with
	// the same attempt id.
	ErrStoreTransient = errors.New("transient store failure")
	// ErrAttemptReused means an attempt id already committed against another object.
	ErrAttemptReused = errors.New("attempt id already used for another object")
	// ErrProhibited matches any *ProhibitedError.
	ErrProhibited = errors.New("object status prohibits operation")
)

// ProhibitedError names the statuses that rejected a delete. Deleted is set
// when the target was already tombstoned.
type ProhibitedError struct {
	Statuses []status.Status
	Deleted  bool
}

func (e *ProhibitedError) Error() string {
	if e.Deleted {
		return CodeStatusProhibits.Message() + ": object already deleted"
	}
	names := make([]string, len(e.Statuses))
	for i, s := range e.Statuses {
		names[i] = string(s)
	}
	return fmt.Sprintf("%s: %s", CodeStatusProhibits.Message(), strings.Join(names, ", "))
}

func (e *ProhibitedError) Is(target error) bool {
	return target == ErrProhibited
}

// MapHTTPStatus maps delete errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrProhibited):
		return http.StatusConflict
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAttemptReused):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrStoreTransient):
		return http.StatusServiceUnavailable
	}
	return registry.MapHTTPStatus(err)
}

func failureCode(err error) Code {
	switch {
	case errors.Is(err, ErrNotOwner):
		return CodeAuthorizationError
	case errors.Is(err, ErrNotFound):
		return CodeObjectDoesNotExist
	}
	return CodeCommandFailed
}
