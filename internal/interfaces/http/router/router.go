package router

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// Router mounts domain groups under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	groups     []*DomainGroup
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the API prefix (e.g. "v1")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router on engine
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

// Register queues groups for Setup
func (r *Router) Register(groups ...*DomainGroup) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// Setup adds every registered group's routes to the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, g := range r.groups {
		g.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one area of the API under a prefix.
// Middleware added with Use runs for every route of the group; guards
// added with With run only for the routes registered through that scope.
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	subgroups  []*DomainGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates an empty group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to the group and its subgroups
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle registers a route for any method
func (dg *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: path, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, handlers...)
}

func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, handlers...)
}

func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, path, handlers...)
}

func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPatch, path, handlers...)
}

func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, handlers...)
}

// With returns a scope whose routes run guards before their handler.
// Public and authenticated routes can then share one prefix.
func (dg *DomainGroup) With(guards ...gin.HandlerFunc) *Scope {
	return &Scope{group: dg, guards: guards}
}

// Group creates a subgroup nested under this group's prefix
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	sub := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, sub)
	return sub
}

// RegisterRoutes adds the group's routes to rg
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, sub := range dg.subgroups {
		sub.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Scope registers routes on a DomainGroup behind a fixed set of guards
type Scope struct {
	group  *DomainGroup
	guards []gin.HandlerFunc
}

// Handle registers a guarded route
func (s *Scope) Handle(method, path string, h gin.HandlerFunc) *Scope {
	s.group.Handle(method, path, append(slices.Clone(s.guards), h)...)
	return s
}

func (s *Scope) GET(path string, h gin.HandlerFunc) *Scope {
	return s.Handle(http.MethodGet, path, h)
}

func (s *Scope) POST(path string, h gin.HandlerFunc) *Scope {
	return s.Handle(http.MethodPost, path, h)
}

func (s *Scope) PUT(path string, h gin.HandlerFunc) *Scope {
	return s.Handle(http.MethodPut, path, h)
}

func (s *Scope) PATCH(path string, h gin.HandlerFunc) *Scope {
	return s.Handle(http.MethodPatch, path, h)
}

func (s *Scope) DELETE(path string, h gin.HandlerFunc) *Scope {
	return s.Handle(http.MethodDelete, path, h)
}
