package httpcore

import (
	"github.com/zenweb/httpcore/internal/radix"
)

// route records one registered route for introspection (Router.Routes).
type route struct {
	Pattern  string
	Method   Method
	Handlers []Handler
	Schema   CaptureSchema
}

// routeEntry is what a radix.Tree node actually stores per method: the
// compiled middleware+handler chain and an optional typed capture schema.
type routeEntry struct {
	handlers []Handler
	schema   CaptureSchema
}

// Router dispatches a parsed Request to the handler chain registered for
// its method and path. Each method gets its own trie; MethodAny routes
// live in a separate fallback trie consulted when no method-specific tree
// matches, matching the "any-method fallback" rule.
type Router struct {
	Routes []route

	trees       map[Method]*radix.Tree
	anyTree     *radix.Tree
	middlewares []Handler

	// NotFound is invoked when no route matches the request path at all.
	NotFound Handler
}

// NewRouter creates an empty Router with the default NotFound handler.
func NewRouter() *Router {
	return &Router{
		trees:   make(map[Method]*radix.Tree),
		anyTree: radix.NewTree(),
		NotFound: func(c *Ctx) {
			c.String(StatusNotFound, "404 page not found")
		},
	}
}

// Use registers router-wide middleware, run before the handlers of every
// route registered after this call, in registration order. A route's chain
// is fixed when the route is registered, so routes registered earlier do
// not get the middleware.
func (r *Router) Use(middleware ...Handler) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers pattern under method. A pattern segment beginning with
// ':' captures a single path segment by name; a trailing "*" or "*name"
// segment captures the remainder of the path, slashes included.
func (r *Router) Handle(pattern string, method Method, handlers ...Handler) *Router {
	return r.HandleTyped(pattern, method, nil, handlers...)
}

// HandleTyped registers pattern like Handle, additionally recording a
// CaptureSchema on the route (see Routes). Dispatch does not apply the
// schema itself; a handler reads its path parameters via Ctx.Captures and
// projects them with Captures.Project (see param.go).
func (r *Router) HandleTyped(pattern string, method Method, schema CaptureSchema, handlers ...Handler) *Router {
	r.Routes = append(r.Routes, route{
		Pattern:  pattern,
		Method:   method,
		Handlers: handlers,
		Schema:   schema,
	})

	chain := make([]Handler, 0, len(r.middlewares)+len(handlers))
	chain = append(chain, r.middlewares...)
	chain = append(chain, handlers...)
	entry := &routeEntry{handlers: chain, schema: schema}

	if method == MethodAny {
		r.anyTree.Insert(pattern, "*", entry)
		return r
	}

	tree, ok := r.trees[method]
	if !ok {
		tree = radix.NewTree()
		r.trees[method] = tree
	}
	tree.Insert(pattern, "*", entry)

	// HEAD requests are served by a GET handler when no HEAD route exists,
	// per the method's defined semantics (a HEAD response mirrors GET's
	// headers with no body).
	if method == MethodGet {
		explicitHead := false
		for _, rt := range r.Routes {
			if rt.Method == MethodHead && rt.Pattern == pattern {
				explicitHead = true
				break
			}
		}
		if !explicitHead {
			if _, ok := r.trees[MethodHead]; !ok {
				r.trees[MethodHead] = radix.NewTree()
			}
			r.trees[MethodHead].Insert(pattern, "*", entry)
		}
	}

	return r
}

// GET registers pattern for GET (and, implicitly, HEAD).
func (r *Router) GET(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodGet, handlers...)
}

// HEAD registers pattern for HEAD explicitly, overriding the implicit
// GET-derived HEAD route.
func (r *Router) HEAD(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodHead, handlers...)
}

// POST registers pattern for POST.
func (r *Router) POST(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodPost, handlers...)
}

// PUT registers pattern for PUT.
func (r *Router) PUT(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodPut, handlers...)
}

// DELETE registers pattern for DELETE.
func (r *Router) DELETE(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodDelete, handlers...)
}

// CONNECT registers pattern for CONNECT.
func (r *Router) CONNECT(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodConnect, handlers...)
}

// OPTIONS registers pattern for OPTIONS.
func (r *Router) OPTIONS(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodOptions, handlers...)
}

// TRACE registers pattern for TRACE.
func (r *Router) TRACE(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodTrace, handlers...)
}

// PATCH registers pattern for PATCH.
func (r *Router) PATCH(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodPatch, handlers...)
}

// Any registers pattern against the any-method fallback tree, matched only
// when no method-specific tree has a route for the path.
func (r *Router) Any(pattern string, handlers ...Handler) *Router {
	return r.Handle(pattern, MethodAny, handlers...)
}

// Dispatch runs req through the router's middleware and matched handler,
// synthesizing a 404 body if the handler wrote nothing, and returns the
// resulting Response. It is the entry point alternate connection drivers
// (see the gnetengine package) use instead of building a Ctx themselves.
func (r *Router) Dispatch(req *Request) *Response {
	resp := newResponse()
	ctx := getCtx(req, resp, nil)
	defer releaseCtx(ctx)

	r.ServeHTTP(ctx, req)

	if !resp.isDirty {
		resp.notFound()
	}
	return resp
}

// ServeHTTP dispatches req: it resolves the matching handler chain (if
// any), fills req.Params with the route's captures, and runs the chain via
// ctx.Next(). If no route matches the path under any method, NotFound
// runs; if the path matches under a different method, a 405 with a short
// plain-text body is written (Method Not Allowed, per §4.4's cross-tree lookup rule).
func (r *Router) ServeHTTP(ctx *Ctx, req *Request) {
	path := req.Path()

	params := getParamMap()
	entry, ok := r.lookup(req.Method, path, params)
	if !ok {
		if r.pathExistsUnderOtherMethod(req.Method, path) {
			releaseParamMap(params)
			ctx.String(StatusMethodNotAllowed, "405 method not allowed")
			return
		}
		releaseParamMap(params)
		ctx.handlers = []Handler{r.NotFound}
		ctx.index = -1
		ctx.Next()
		return
	}

	req.Params = params
	defer releaseParamMap(params)

	ctx.handlers = entry.handlers
	ctx.index = -1
	ctx.Next()
}

func (r *Router) lookup(method Method, path string, params map[string]string) (*routeEntry, bool) {
	if tree, ok := r.trees[method]; ok {
		if handlers, found := tree.Find(path, params); found {
			if entry, ok := handlers["*"].(*routeEntry); ok {
				return entry, true
			}
		}
	}
	if handlers, found := r.anyTree.Find(path, params); found {
		if entry, ok := handlers["*"].(*routeEntry); ok {
			return entry, true
		}
	}
	return nil, false
}

func (r *Router) pathExistsUnderOtherMethod(method Method, path string) bool {
	for m, tree := range r.trees {
		if m == method {
			continue
		}
		if _, found := tree.Find(path, nil); found {
			return true
		}
	}
	return false
}
