//go:build !unix

package netutil

import "net"

// Listen falls back to net.Listen on platforms without the raw socket
// options Listen (listen_unix.go) sets explicitly; backlog is then left to the
// platform's own default, which is net.Listen's existing behavior.
func Listen(addr string, backlog int) (net.Listener, error) {
	return net.Listen("tcp", addr)
}
