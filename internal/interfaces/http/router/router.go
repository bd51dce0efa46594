package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	groups     []group
}

type group struct {
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g. "v1")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds registrars that share a middleware chain. Each call
// produces its own sub-group under the versioned API prefix, so a
// registrar's routes only pass through the middleware registered with
// it.
func (r *Router) Register(middleware []gin.HandlerFunc, registrars ...RouteRegistrar) *Router {
	r.groups = append(r.groups, group{middleware: middleware, registrars: registrars})
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, g := range r.groups {
		rg := api.Group("")
		if len(g.middleware) > 0 {
			rg.Use(g.middleware...)
		}
		for _, registrar := range g.registrars {
			registrar.RegisterRoutes(rg)
		}
	}
}
