// Package module mounts prefixed HTTP sub-routers, each with its own
// middleware stack, onto a single top-level handler.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/registry/pkg/middleware"
)

// Module is an HTTP handler that strips its prefix and delegates to an inner router
// with its own middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module mounted at prefix (e.g. "/rdap" or "/rdap/v1").
// The prefix must start with a slash and must not end with one.
func New(prefix string, router http.Handler) (*Module, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}, nil
}

// Handler returns the inner router wrapped with the module's middleware stack.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// ServeHTTP strips the module prefix from the request path and dispatches to
// the inner router.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}
	m.Handler().ServeHTTP(w, cloneRequest(req, path))
}

// Matches reports whether path falls under the module prefix on a segment boundary.
func (m *Module) Matches(path string) bool {
	return path == m.prefix || strings.HasPrefix(path, m.prefix+"/")
}

func cloneRequest(req *http.Request, path string) *http.Request {
	request := req.Clone(req.Context())
	request.URL = new(url.URL)
	*request.URL = *req.URL
	request.URL.Path = path
	request.URL.RawPath = ""
	return request
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case prefix == "/" || strings.HasSuffix(prefix, "/"):
		return fmt.Errorf("module prefix must not end with /: %s", prefix)
	case strings.Contains(prefix, "//"):
		return fmt.Errorf("module prefix has an empty segment: %s", prefix)
	case strings.ContainsAny(prefix, "{}"):
		return fmt.Errorf("module prefix cannot contain wildcards: %s", prefix)
	}
	return nil
}
