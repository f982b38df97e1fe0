package httpcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/zenweb/httpcore/internal/netutil"
	"github.com/zenweb/httpcore/internal/reqparse"
	"github.com/zenweb/httpcore/log"
)

// Server drives the TCP accept loop and the per-connection request/response
// lifecycle on top of a Router. One goroutine serves one connection;
// connections themselves run concurrently and share nothing but the
// router's (read-only, post-startup) route trees.
type Server struct {
	router *Router

	headerBufferSize int
	readBufferSize   int
	listenBacklog    int

	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration

	disableStartupMessage bool
	errorHandler          Handler

	listener net.Listener
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// defaultErrorHandler is the ErrorHandler used when none is configured. It
// unwraps an *HttpError for its status code and otherwise responds 500.
func defaultErrorHandler(c *Ctx) {
	err := c.Err()
	if err == nil {
		return
	}

	statusCode := StatusInternalServerError
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		statusCode = httpErr.Code
	}

	c.String(statusCode, err.Error())
}

// New creates a new server with the given configuration.
//
// Parameters:
//   - config: The server configuration (use DefaultConfig() for sensible defaults)
//
// Returns:
//   - A new Server instance ready to be configured with routes and middleware
func New(config ...Config) *Server {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	headerBufferSize := cfg.HeaderBufferSize
	if headerBufferSize <= 0 {
		headerBufferSize = reqparse.DefaultHeaderBufferSize
	}
	if headerBufferSize > reqparse.MaxHeaderBufferSize {
		headerBufferSize = reqparse.MaxHeaderBufferSize
	}

	readBufferSize := cfg.ReadBufferSize
	if readBufferSize <= 0 {
		readBufferSize = 4 * 1024
	}

	listenBacklog := cfg.ListenBacklog
	if listenBacklog <= 0 {
		listenBacklog = 128
	}

	errorHandler := cfg.ErrorHandler
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return &Server{
		router:                NewRouter(),
		headerBufferSize:      headerBufferSize,
		readBufferSize:        readBufferSize,
		listenBacklog:         listenBacklog,
		readTimeout:           cfg.ReadTimeout,
		writeTimeout:          cfg.WriteTimeout,
		idleTimeout:           cfg.IdleTimeout,
		disableStartupMessage: cfg.DisableStartupMessage,
		errorHandler:          errorHandler,
		stopCh:                make(chan struct{}),
	}
}

// Router returns the server's underlying router.
func (s *Server) Router() *Router {
	return s.router
}

// Listen starts the server: it binds addr with SO_REUSEADDR and an accept
// queue sized to listenBacklog (see internal/netutil), prints the startup
// banner (unless disabled), and accepts connections until Shutdown is
// called. Each accepted connection is served on its own goroutine.
// listenBacklog is still advisory on platforms internal/netutil falls back
// to plain net.Listen on; the OS may cap the accept queue lower than
// requested.
func (s *Server) Listen(addr string) error {
	if addr == "" {
		addr = ":3000"
	}

	ln, err := netutil.Listen(addr, s.listenBacklog)
	if err != nil {
		return err
	}
	s.listener = ln

	initLogger(log.InfoLevel)
	if !s.disableStartupMessage {
		displayStartupMessage(addr)
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return nil
			default:
				logger.Error().Err(err).Msg("accept failed")
				continue
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

// Shutdown stops accepting new connections and waits for in-flight
// connections to drain, or for ctx to expire, whichever comes first.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopCh)
	if s.listener != nil {
		s.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// serveConn implements the connection lifecycle: a 4KiB (configurable)
// buffered reader parses one request at a time into a fresh arena; the
// response is written through a shared buffered writer; the loop continues
// while both sides want a persistent connection and stops on transport
// error, end of stream, or a close-inducing Connection header.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReaderSize(conn, s.readBufferSize)
	writer := bufio.NewWriter(conn)
	arena := reqparse.NewArena(s.headerBufferSize)

	for {
		arena.Reset()

		if s.readTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}

		result, err := reqparse.Parse(reader, arena)
		if err != nil {
			if errors.Is(err, reqparse.ErrEndOfStream) || errors.Is(err, reqparse.ErrTruncated) {
				return
			}

			s.writeBadRequest(conn, writer)
			return
		}

		req, err := newRequest(result, conn.RemoteAddr().String())
		if err != nil {
			s.writeBadRequest(conn, writer)
			return
		}

		resp := newResponse()

		if s.writeTimeout > 0 {
			conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		}

		s.dispatch(req, resp)

		if !resp.isDirty {
			resp.notFound()
		}

		if err := resp.WriteTo(writer); err != nil {
			resp.release()
			return
		}

		keepAlive := req.Connection == ConnectionKeepAlive &&
			resp.Header.Get("Connection") != "close"

		resp.release()

		if !keepAlive {
			return
		}

		if s.idleTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		}
	}
}

// dispatch runs the router chain for one request. An error a handler
// recorded with Ctx.SetError is handed to the configured ErrorHandler, and
// so is a recovered handler panic, rather than taking the connection's
// goroutine down with it.
func (s *Server) dispatch(req *Request, resp *Response) {
	ctx := getCtx(req, resp, nil)
	defer releaseCtx(ctx)

	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			ctx.SetError(err)
			s.errorHandler(ctx)
		}
	}()

	s.router.ServeHTTP(ctx, req)
	if ctx.Err() != nil {
		s.errorHandler(ctx)
	}
}

// writeBadRequest responds 400 and closes the connection, per the driver's
// fail-fast handling of a request the parser could not make sense of.
func (s *Server) writeBadRequest(conn net.Conn, writer *bufio.Writer) {
	resp := newResponse()
	resp.String(StatusBadRequest, "400 Bad Request")
	resp.Header.Set("Connection", "close")
	resp.WriteTo(writer)
	resp.release()
}

// GET registers a new route with the GET method.
func (s *Server) GET(pattern string, handlers ...Handler) *Router {
	return s.router.GET(pattern, handlers...)
}

// HEAD registers a new route with the HEAD method.
func (s *Server) HEAD(pattern string, handlers ...Handler) *Router {
	return s.router.HEAD(pattern, handlers...)
}

// POST registers a new route with the POST method.
func (s *Server) POST(pattern string, handlers ...Handler) *Router {
	return s.router.POST(pattern, handlers...)
}

// PUT registers a new route with the PUT method.
func (s *Server) PUT(pattern string, handlers ...Handler) *Router {
	return s.router.PUT(pattern, handlers...)
}

// DELETE registers a new route with the DELETE method.
func (s *Server) DELETE(pattern string, handlers ...Handler) *Router {
	return s.router.DELETE(pattern, handlers...)
}

// CONNECT registers a new route with the CONNECT method.
func (s *Server) CONNECT(pattern string, handlers ...Handler) *Router {
	return s.router.CONNECT(pattern, handlers...)
}

// OPTIONS registers a new route with the OPTIONS method.
func (s *Server) OPTIONS(pattern string, handlers ...Handler) *Router {
	return s.router.OPTIONS(pattern, handlers...)
}

// TRACE registers a new route with the TRACE method.
func (s *Server) TRACE(pattern string, handlers ...Handler) *Router {
	return s.router.TRACE(pattern, handlers...)
}

// PATCH registers a new route with the PATCH method.
func (s *Server) PATCH(pattern string, handlers ...Handler) *Router {
	return s.router.PATCH(pattern, handlers...)
}

// Use adds middleware to the router.
func (s *Server) Use(middleware ...Handler) {
	s.router.Use(middleware...)
}

// NotFound sets the handler for requests that don't match any route.
func (s *Server) NotFound(handler Handler) {
	s.router.NotFound = handler
}

// Group creates a new route group with the given prefix.
func (s *Server) Group(prefix string) *Group {
	return s.router.Group(prefix)
}
