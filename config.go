package httpcore

import (
	"time"

	"github.com/zenweb/httpcore/internal/reqparse"
)

// Config represents server configuration options.
type Config struct {
	// HeaderBufferSize bounds the per-request arena the parser copies the
	// request line and headers into. Default 64KiB, hard cap 16MiB.
	HeaderBufferSize int

	// ReadBufferSize sizes the connection's buffered reader. Default 4KiB.
	ReadBufferSize int

	// ListenBacklog is the requested TCP accept-queue depth. The OS may
	// cap this lower (e.g. net.core.somaxconn on Linux); Go's net package
	// has no portable knob to raise it beyond what the kernel allows.
	ListenBacklog int

	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration

	// DisableStartupMessage determines whether to print the startup message when the server starts.
	DisableStartupMessage bool

	// ErrorHandler is called when a handler panics or records an error with
	// Ctx.SetError during request processing.
	ErrorHandler Handler
}

// DefaultConfig returns a default server configuration with pre-configured timeouts
// and other settings suitable for most applications.
// The default configuration includes:
// - HeaderBufferSize: 64KiB
// - ReadBufferSize: 4KiB
// - ListenBacklog: 128
// - ReadTimeout: 5 seconds
// - WriteTimeout: 10 seconds
// - IdleTimeout: 15 seconds
// - DisableStartupMessage: false
// - ErrorHandler: default error handler
func DefaultConfig() Config {
	return Config{
		HeaderBufferSize:      reqparse.DefaultHeaderBufferSize,
		ReadBufferSize:        4 * 1024,
		ListenBacklog:         128,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           15 * time.Second,
		DisableStartupMessage: false,
		ErrorHandler:          defaultErrorHandler,
	}
}
