// Package gnetengine is an alternate connection driver built on gnet's
// multicore event loop instead of a goroutine per connection. It is not
// the default (see httpcore.Server.Listen) — pick it when a workload is
// dominated by many idle keep-alive connections and the per-connection
// goroutine's stack becomes the bottleneck rather than request latency.
//
// It reuses the same arena-based request parser and Router as the default
// driver; only the I/O model differs. Because gnet delivers OnTraffic with
// whatever bytes are currently buffered rather than a blocking read, a
// partial request at the end of a buffer is left unconsumed and re-parsed
// once the rest of it arrives on a later OnTraffic call.
package gnetengine

import (
	"bufio"
	"bytes"
	"context"
	"errors"

	"github.com/panjf2000/gnet/v2"

	"github.com/zenweb/httpcore"
	"github.com/zenweb/httpcore/internal/reqparse"
)

// Engine drives a Router's connections through gnet instead of a
// goroutine per connection.
type Engine struct {
	gnet.BuiltinEventEngine

	addr             string
	multicore        bool
	router           *httpcore.Router
	eng              gnet.Engine
	headerBufferSize int
}

// connState is the per-connection scratch kept across OnTraffic calls.
type connState struct {
	arena *reqparse.Arena
}

// New builds a gnet-backed Engine serving router. headerBufferSize bounds
// the per-request parse arena; pass 0 for reqparse.DefaultHeaderBufferSize.
func New(router *httpcore.Router, multicore bool, headerBufferSize int) *Engine {
	if headerBufferSize <= 0 {
		headerBufferSize = reqparse.DefaultHeaderBufferSize
	}
	return &Engine{
		router:           router,
		multicore:        multicore,
		headerBufferSize: headerBufferSize,
	}
}

// Run starts the gnet event loop listening on addr. It blocks until the
// loop stops (see Stop).
func (e *Engine) Run(addr string) error {
	e.addr = "tcp://" + addr
	return gnet.Run(
		e,
		e.addr,
		gnet.WithMulticore(e.multicore),
		gnet.WithReuseAddr(true),
		gnet.WithReusePort(true),
		gnet.WithTCPNoDelay(gnet.TCPNoDelay),
	)
}

// Stop shuts down the event loop, waiting for ctx or for gnet's own
// in-flight connections to drain, whichever comes first.
func (e *Engine) Stop(ctx context.Context) error {
	return e.eng.Stop(ctx)
}

func (e *Engine) OnBoot(eng gnet.Engine) gnet.Action {
	e.eng = eng
	return gnet.None
}

func (e *Engine) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(&connState{arena: reqparse.NewArena(e.headerBufferSize)})
	return nil, gnet.None
}

func (e *Engine) OnClose(c gnet.Conn, err error) gnet.Action {
	return gnet.None
}

// OnTraffic parses as many complete requests as the currently buffered
// bytes contain, dispatches each through the router, and writes its
// response on the same connection. Bytes belonging to a request that
// hasn't fully arrived yet are left in gnet's inbound buffer for the next
// call.
func (e *Engine) OnTraffic(c gnet.Conn) gnet.Action {
	state, _ := c.Context().(*connState)
	if state == nil {
		state = &connState{arena: reqparse.NewArena(e.headerBufferSize)}
		c.SetContext(state)
	}

	buf, _ := c.Peek(-1)
	if len(buf) == 0 {
		return gnet.None
	}

	src := bytes.NewReader(buf)
	br := bufio.NewReader(src)
	remoteAddr := c.RemoteAddr().String()

	var consumed int
	for {
		state.arena.Reset()

		before := br.Buffered() + src.Len()
		result, err := reqparse.Parse(br, state.arena)
		if err != nil {
			if errors.Is(err, reqparse.ErrEndOfStream) || errors.Is(err, reqparse.ErrTruncated) {
				break
			}

			c.Write(badRequestResponse)
			c.Discard(len(buf))
			return gnet.Close
		}

		after := br.Buffered() + src.Len()
		consumed += before - after

		req, err := httpcore.NewRequestFromParsed(result, remoteAddr)
		if err != nil {
			c.Write(badRequestResponse)
			c.Discard(len(buf))
			return gnet.Close
		}

		resp := e.router.Dispatch(req)
		out, writeErr := httpcore.EncodeResponse(resp)
		if writeErr == nil {
			c.Write(out)
		}

		closeConn := req.Connection == httpcore.ConnectionClose ||
			resp.Header.Get("Connection") == "close"
		if closeConn {
			c.Discard(consumed)
			return gnet.Close
		}
	}

	if consumed > 0 {
		c.Discard(consumed)
	}
	return gnet.None
}

var badRequestResponse = []byte("HTTP/1.1 400 Bad Request\r\nContent-Length: 15\r\nConnection: close\r\n\r\n400 Bad Request")
