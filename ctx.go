package httpcore

import (
	"net"
	"strings"

	"github.com/zenweb/httpcore/internal/pool"
)

// Ctx is the per-request object passed to handlers and middleware. It
// chains middleware via Next(), the same way the router's compiled
// middleware stack does.
type Ctx struct {
	Request  *Request
	Response *Response

	handlers []Handler
	index    int
	err      error
}

var ctxPool = pool.New(func() *Ctx { return &Ctx{} })

func getCtx(req *Request, resp *Response, handlers []Handler) *Ctx {
	c := ctxPool.Get()
	c.Request = req
	c.Response = resp
	c.handlers = handlers
	c.index = -1
	c.err = nil
	return c
}

func releaseCtx(c *Ctx) {
	c.Request = nil
	c.Response = nil
	c.handlers = nil
	c.err = nil
	ctxPool.Put(c)
}

// SetError records an error for the configured ErrorHandler to inspect.
// Handlers call this instead of writing an error response directly so the
// driver's error handling stays in one place.
func (c *Ctx) SetError(err error) { c.err = err }

// Err returns the error previously recorded with SetError, if any.
func (c *Ctx) Err() error { return c.err }

// Next invokes the next handler in the chain. A middleware that
// doesn't call Next stops the chain there.
func (c *Ctx) Next() {
	c.index++
	if c.index < len(c.handlers) {
		c.handlers[c.index](c)
	}
}

// Param returns the path capture named key, or "" if unmatched.
func (c *Ctx) Param(key string) string { return c.Request.Param(key) }

// ParamInt returns the path capture named key as an integer, clamped to 0
// on parse failure.
func (c *Ctx) ParamInt(key string) int { return c.Request.ParamInt(key) }

// Query returns the first decoded value of a query parameter.
func (c *Ctx) Query(key string) string { return c.Request.QueryValue(key) }

// Method returns the request method.
func (c *Ctx) Method() Method { return c.Request.Method }

// Path returns the decoded, resolved request path.
func (c *Ctx) Path() string { return c.Request.Path() }

// Status sets the response status code and returns c for chaining.
func (c *Ctx) Status(status int) *Ctx {
	c.Response.WriteHeader(status)
	return c
}

// SetHeader sets a response header.
func (c *Ctx) SetHeader(key, value string) { c.Response.Header.Set(key, value) }

// String writes a plain-text response body.
func (c *Ctx) String(status int, s string) { c.Response.String(status, s) }

// JSON marshals v and writes it as the response body.
func (c *Ctx) JSON(status int, v interface{}) error { return c.Response.JSON(status, v) }

// HTML writes an HTML response body.
func (c *Ctx) HTML(status int, s string) { c.Response.HTML(status, s) }

// Data writes an arbitrary response body with an explicit content type.
func (c *Ctx) Data(status int, contentType string, data []byte) {
	c.Response.Data(status, contentType, data)
}

// IP returns the client's address, preferring X-Forwarded-For and
// X-Real-Ip over the raw connection's remote address, matching how a
// server behind a reverse proxy is expected to resolve it.
func (c *Ctx) IP() string {
	if fwd := c.Request.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if ip := c.Request.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// Protocol returns the request's scheme, preferring the proxy headers a
// reverse proxy sets ahead of a terminated TLS connection over the
// request line's own scheme, and "http" when none of them is set. The
// X-Forwarded-Proto/X-Forwarded-Protocol values and the URI scheme are
// returned as given, not normalized to "https" or "http".
func (c *Ctx) Protocol() string {
	if c.Request == nil {
		return ""
	}
	if proto := c.Request.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if proto := c.Request.Header.Get("X-Forwarded-Protocol"); proto != "" {
		return proto
	}
	if strings.EqualFold(c.Request.Header.Get("X-Forwarded-Ssl"), "on") {
		return "https"
	}
	if strings.EqualFold(c.Request.Header.Get("Front-End-Https"), "on") {
		return "https"
	}
	if c.Request.URI.Scheme != "" {
		return c.Request.URI.Scheme
	}
	return "http"
}

// SetCookie appends a Set-Cookie response header.
func (c *Ctx) SetCookie(cookie *Cookie) {
	cookie.WriteTo(c.Response.Header)
}

// Cookie returns the named cookie's value from the request's Cookie header.
func (c *Ctx) Cookie(name string) (string, bool) {
	v, ok := c.Request.Header.Cookies()[name]
	return v, ok
}
