package module

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Router dispatches requests to mounted modules by longest matching prefix,
// falling back to a native ServeMux for unmatched paths.
type Router struct {
	modules []*Module
	native  *http.ServeMux
}

// NewRouter creates a Router with no modules and an empty native fallback mux.
func NewRouter() *Router {
	return &Router{
		native: http.NewServeMux(),
	}
}

// HandleNative registers a handler function on the native fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Handle registers a handler on the native fallback mux.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.native.Handle(pattern, handler)
}

// Mount registers a module. Mounting two modules at the same prefix is an error.
func (r *Router) Mount(m *Module) error {
	for _, existing := range r.modules {
		if existing.prefix == m.prefix {
			return fmt.Errorf("module already mounted at %s", m.prefix)
		}
	}
	r.modules = append(r.modules, m)
	slices.SortFunc(r.modules, func(a, b *Module) int {
		return len(b.prefix) - len(a.prefix)
	})
	return nil
}

// ServeHTTP dispatches to the matching module or falls back to the native mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := normalizePath(req)

	for _, m := range r.modules {
		if m.Matches(path) {
			m.ServeHTTP(w, req)
			return
		}
	}

	r.native.ServeHTTP(w, req)
}

func normalizePath(req *http.Request) string {
	path := req.URL.Path
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
		req.URL.Path = path
	}
	return path
}
