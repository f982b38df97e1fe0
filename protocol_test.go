package httpcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zenweb/httpcore/uri"
)

func protocolCtx(header Header, scheme string) *Ctx {
	if header == nil {
		header = NewHeader()
	}
	req := &Request{Header: header, URI: uri.URI{Scheme: scheme}}
	return getCtx(req, newResponse(), nil)
}

// TestProtocolWithXForwardedProto tests the Protocol method with X-Forwarded-Proto header
func TestProtocolWithXForwardedProto(t *testing.T) {
	h := NewHeader()
	h.Set("X-Forwarded-Proto", "https")
	ctx := protocolCtx(h, "http")
	defer releaseCtx(ctx)

	assert.Equal(t, "https", ctx.Protocol(), "Protocol should return X-Forwarded-Proto header value")
}

// TestProtocolWithXForwardedProtocol tests the Protocol method with X-Forwarded-Protocol header
func TestProtocolWithXForwardedProtocol(t *testing.T) {
	h := NewHeader()
	h.Set("X-Forwarded-Protocol", "https")
	ctx := protocolCtx(h, "http")
	defer releaseCtx(ctx)

	assert.Equal(t, "https", ctx.Protocol(), "Protocol should return X-Forwarded-Protocol header value")
}

// TestProtocolWithFrontEndHttps tests the Protocol method with Front-End-Https header
func TestProtocolWithFrontEndHttps(t *testing.T) {
	h := NewHeader()
	h.Set("Front-End-Https", "on")
	ctx := protocolCtx(h, "http")
	defer releaseCtx(ctx)

	assert.Equal(t, "https", ctx.Protocol(), "Protocol should return https when Front-End-Https is on")
}

// TestProtocolWithXForwardedSsl tests the Protocol method with X-Forwarded-Ssl header
func TestProtocolWithXForwardedSsl(t *testing.T) {
	h := NewHeader()
	h.Set("X-Forwarded-Ssl", "on")
	ctx := protocolCtx(h, "http")
	defer releaseCtx(ctx)

	assert.Equal(t, "https", ctx.Protocol(), "Protocol should return https when X-Forwarded-Ssl is on")
}

// TestProtocolWithURLScheme tests the Protocol method with URI.Scheme
func TestProtocolWithURLScheme(t *testing.T) {
	ctx := protocolCtx(nil, "https")
	defer releaseCtx(ctx)

	assert.Equal(t, "https", ctx.Protocol(), "Protocol should return URI.Scheme")
}

// TestProtocolDefault tests the Protocol method with no protocol information
func TestProtocolDefault(t *testing.T) {
	ctx := protocolCtx(nil, "")
	defer releaseCtx(ctx)

	assert.Equal(t, "http", ctx.Protocol(), "Protocol should return default http")
}

// TestProtocolNilRequest tests the Protocol method with nil request
func TestProtocolNilRequest(t *testing.T) {
	ctx := protocolCtx(nil, "")
	defer releaseCtx(ctx)
	ctx.Request = nil

	assert.Equal(t, "", ctx.Protocol(), "Protocol should return empty string for nil request")
}

// TestProtocolPriority tests the Protocol method prioritizes headers over URI.Scheme
func TestProtocolPriority(t *testing.T) {
	h := NewHeader()
	h.Set("X-Forwarded-Proto", "https")
	ctx := protocolCtx(h, "http")
	defer releaseCtx(ctx)

	assert.Equal(t, "https", ctx.Protocol(), "Protocol should prioritize X-Forwarded-Proto over URI.Scheme")
}
