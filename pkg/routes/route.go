// Package routes declares handler routes as data so that domain packages can
// describe their endpoints without owning a mux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Path returns the ServeMux pattern for the route under prefix.
func (r Route) Path(prefix string) string {
	return r.Method + " " + prefix + r.Pattern
}
