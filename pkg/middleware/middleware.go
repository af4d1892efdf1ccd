// Package middleware provides HTTP middleware and an ordered stack to apply it.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

// Stack is a System whose first registered middleware runs outermost.
type Stack struct {
	funcs []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &Stack{}
}

// Use appends mw to the stack.
func (s *Stack) Use(mw func(http.Handler) http.Handler) {
	s.funcs = append(s.funcs, mw)
}

// Apply wraps handler so requests pass through the stack in registration order.
func (s *Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.funcs) - 1; i >= 0; i-- {
		handler = s.funcs[i](handler)
	}
	return handler
}
