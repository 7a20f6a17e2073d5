package router

import (
	"strings"

	"github.com/Brownie44l1/http-server/internal/request"
	"github.com/Brownie44l1/http-server/internal/response"
)

// Handler produces the response for a request. A non-nil error means no
// response can be sent and the connection should be dropped.
type Handler func(req *request.Request) (response.Response, error)

// Matcher decides whether a route applies to a request
type Matcher func(req *request.Request) bool

// Middleware wraps a Handler
type Middleware func(next Handler) Handler

// Route represents a single route
type Route struct {
	Name    string
	Match   Matcher
	Handler Handler
}

// Router dispatches to the first matching route, in registration order
type Router struct {
	routes      []*Route
	notFound    Handler
	middlewares []Middleware
}

// New creates a new router
func New() *Router {
	return &Router{
		routes:   make([]*Route, 0),
		notFound: NotFound,
	}
}

// Handle registers a new route after all existing ones
func (r *Router) Handle(name string, match Matcher, handler Handler) {
	r.routes = append(r.routes, &Route{
		Name:    name,
		Match:   match,
		Handler: handler,
	})
}

// NotFoundHandler replaces the fallback used when no route matches
func (r *Router) NotFoundHandler(h Handler) {
	r.notFound = h
}

// Use adds middleware around every route, including the fallback
func (r *Router) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

// Routes returns the registered routes in precedence order
func (r *Router) Routes() []*Route {
	return r.routes
}

// Match finds the first route that matches req, or nil
func (r *Router) Match(req *request.Request) *Route {
	for _, route := range r.routes {
		if route.Match(req) {
			return route
		}
	}
	return nil
}

// ServeRequest runs exactly one handler for req
func (r *Router) ServeRequest(req *request.Request) (response.Response, error) {
	h := r.notFound
	if route := r.Match(req); route != nil {
		h = route.Handler
	}

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}
	return h(req)
}

// NotFound answers 404 with no body
func NotFound(*request.Request) (response.Response, error) {
	return response.Empty(response.StatusNotFound), nil
}

// Prefix matches paths starting with p, any method
func Prefix(p string) Matcher {
	return func(req *request.Request) bool {
		return strings.HasPrefix(req.Path, p)
	}
}

// Exact matches the path p exactly, any method
func Exact(p string) Matcher {
	return func(req *request.Request) bool {
		return req.Path == p
	}
}

// Method restricts m to requests with the given method
func Method(method string, m Matcher) Matcher {
	return func(req *request.Request) bool {
		return req.Method == method && m(req)
	}
}
