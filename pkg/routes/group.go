package routes

import "net/http"

// Mux is the subset of *http.ServeMux that Register needs.
type Mux interface {
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
}

// Group organizes routes and nested groups under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Walk calls fn for every route in the group and its children with the
// fully prefixed ServeMux pattern.
func (g Group) Walk(fn func(pattern string, route Route)) {
	g.walk("", fn)
}

func (g Group) walk(parent string, fn func(string, Route)) {
	prefix := parent + g.Prefix
	for _, route := range g.Routes {
		fn(route.Path(prefix), route)
	}
	for _, child := range g.Children {
		child.walk(prefix, fn)
	}
}

// Register adds all routes from the given groups to the mux and returns the
// registered patterns in registration order.
func Register(mux Mux, groups ...Group) []string {
	var patterns []string
	for _, group := range groups {
		group.Walk(func(pattern string, route Route) {
			mux.HandleFunc(pattern, route.Handler)
			patterns = append(patterns, pattern)
		})
	}
	return patterns
}
