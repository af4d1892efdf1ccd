package search

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/internal/wildcard"
)

// Class classifies a search failure.
type Class int

const (
	BadRequest Class = iota + 1
	Unprocessable
	NotFound
	NotImplemented
)

func (c Class) String() string {
	switch c {
	case BadRequest:
		return "bad_request"
	case Unprocessable:
		return "unprocessable"
	case NotFound:
		return "not_found"
	case NotImplemented:
		return "not_implemented"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Error is a classified search outcome. It matches the package sentinels by
// class under errors.Is and unwraps to the resolver error that caused it, if any.
type Error struct {
	Class   Class
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Class == e.Class
}

// Sentinels for errors.Is matching by class.
var (
	ErrBadRequest     = &Error{Class: BadRequest, Message: "bad request"}
	ErrUnprocessable  = &Error{Class: Unprocessable, Message: "unprocessable search term"}
	ErrNotFound       = &Error{Class: NotFound, Message: "not found"}
	ErrNotImplemented = &Error{Class: NotImplemented, Message: "not implemented"}
)

const (
	msgNameserverParams = "You must specify either name=XXXX or ip=YYYY"
	msgEntityParams     = "You must specify either fn=XXXX or handle=YYYY"
	msgNotCanonical     = "Names must use the ASCII-compatible (punycode) form"
	msgInvalidName      = "Not a valid domain name"
	msgNoNameservers    = "No nameservers found"
	msgNoEntities       = "No entities found"
	msgNoSuffixDomain   = "No domain found for specified nameserver suffix"
)

func classified(class Class, message string) *Error {
	return &Error{Class: class, Message: message}
}

func fromResolver(err error) error {
	var werr *wildcard.Error
	if !errors.As(err, &werr) {
		return err
	}
	class := Unprocessable
	if werr.Class == wildcard.NotImplemented {
		class = NotImplemented
	}
	return &Error{Class: class, Message: werr.Message, Err: werr}
}

// MapHTTPStatus maps search and store errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var serr *Error
	if errors.As(err, &serr) {
		switch serr.Class {
		case BadRequest:
			return http.StatusBadRequest
		case Unprocessable:
			return http.StatusUnprocessableEntity
		case NotFound:
			return http.StatusNotFound
		case NotImplemented:
			return http.StatusNotImplemented
		}
	}
	return registry.MapHTTPStatus(err)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Class.String()
	}
	return "error"
}
