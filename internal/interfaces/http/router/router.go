package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Router mounts domain route groups under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	groups     []*DomainGroup
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the API version segment, "v1" by default
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router on engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BasePath is the prefix every group is mounted under
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Use adds middleware for the versioned API only; routes mounted directly on
// the engine, such as the health probe, do not see it
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register queues groups for Setup
func (r *Router) Register(groups ...*DomainGroup) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// Setup mounts the registered groups and returns the routes it added
func (r *Router) Setup() []gin.RouteInfo {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	var mounted []gin.RouteInfo
	for _, g := range r.groups {
		mounted = g.mount(api, mounted)
	}
	return mounted
}

// DomainGroup collects the routes of one domain under a path prefix.
// Routes are kept until the group is mounted so a group can be built before
// the engine exists.
type DomainGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*DomainGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a group mounted at prefix
func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

// Use adds middleware for this group and its subgroups
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle adds a route with an arbitrary method
func (dg *DomainGroup) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: relativePath, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, p, h...)
}

func (dg *DomainGroup) POST(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, p, h...)
}

func (dg *DomainGroup) PUT(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, p, h...)
}

func (dg *DomainGroup) PATCH(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPatch, p, h...)
}

func (dg *DomainGroup) DELETE(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, p, h...)
}

// Group creates a subgroup that inherits this group's prefix and middleware
func (dg *DomainGroup) Group(prefix string) *DomainGroup {
	child := NewDomainGroup(prefix)
	dg.children = append(dg.children, child)
	return child
}

// Mount registers the group on parent
func (dg *DomainGroup) Mount(parent *gin.RouterGroup) {
	dg.mount(parent, nil)
}

func (dg *DomainGroup) mount(parent *gin.RouterGroup, mounted []gin.RouteInfo) []gin.RouteInfo {
	group := parent.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
		mounted = append(mounted, gin.RouteInfo{
			Method: rt.method,
			Path:   path.Join(group.BasePath(), rt.path),
		})
	}
	for _, child := range dg.children {
		mounted = child.mount(group, mounted)
	}
	return mounted
}
