package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]supersig.Handler
}

var _ supersig.Registry = (*Router)(nil)
var _ supersig.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]supersig.Handler),
	}
}

// Handle adds a new Handler for the given path.
// panics if another Handler was already registered
func (r *Router) Handle(path string, h supersig.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// If no path is found, returns a noSuchPath Handler
// Always returns a non-nil Handler
func (r *Router) Handler(path string) supersig.Handler {
	h, ok := r.routes[path]
	if !ok {
		return noSuchPathHandler{path}
	}
	return h
}

// Deliver dispatches to the handler registered for the message path.
func (r *Router) Deliver(ctx supersig.Context, store supersig.KVStore, msg supersig.Msg) (*supersig.DeliverResult, error) {
	return r.Handler(msg.Path()).Deliver(ctx, store, msg)
}

type noSuchPathHandler struct {
	path string
}

var _ supersig.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Deliver(supersig.Context, supersig.KVStore, supersig.Msg) (*supersig.DeliverResult, error) {
	return nil, errors.Wrapf(ErrNoSuchPath, "path: %s", h.path)
}
