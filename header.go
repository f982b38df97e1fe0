package httpcore

import (
	"net/textproto"
	"strings"
)

// Header represents the key-value pairs in an HTTP header. The keys should
// be in canonical form, as returned by textproto.CanonicalMIMEHeaderKey.
//
// A Header belongs to exactly one Request or Response, both of which are
// only ever touched by the single goroutine driving their connection, so
// unlike a shared map this type needs no internal locking.
type Header map[string][]string

// Add adds the key, value pair to the header. It appends to any existing
// values associated with key. The key is case insensitive; it is
// canonicalized by textproto.CanonicalMIMEHeaderKey.
func (h Header) Add(key, value string) {
	key = textproto.CanonicalMIMEHeaderKey(key)
	h[key] = append(h[key], value)
}

// Set sets the header entries associated with key to the single element
// value, replacing any existing values. The key is case insensitive.
func (h Header) Set(key, value string) {
	h[textproto.CanonicalMIMEHeaderKey(key)] = []string{value}
}

// Get gets the first value associated with the given key, or "" if there is
// none. The key is case insensitive.
func (h Header) Get(key string) string {
	values := h[textproto.CanonicalMIMEHeaderKey(key)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns all values associated with the given key. The key is case
// insensitive.
func (h Header) Values(key string) []string {
	return h[textproto.CanonicalMIMEHeaderKey(key)]
}

// Del deletes the values associated with key. The key is case insensitive.
func (h Header) Del(key string) {
	delete(h, textproto.CanonicalMIMEHeaderKey(key))
}

// Clone returns a copy of h, or nil if h is nil.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	h2 := make(Header, len(h))
	for k, vv := range h {
		cp := make([]string, len(vv))
		copy(cp, vv)
		h2[k] = cp
	}
	return h2
}

// stringWriter is the interface that wraps the WriteString method, used by
// Write and WriteSubset to serialize headers in wire format.
type stringWriter interface {
	WriteString(s string) (n int, err error)
}

// WriteSubset writes a header in wire format. If exclude is not nil, keys
// where exclude[key] is true are skipped.
func (h Header) WriteSubset(w stringWriter, exclude map[string]bool) error {
	for key, values := range h {
		if exclude != nil && exclude[key] {
			continue
		}
		for _, v := range values {
			if strings.ContainsAny(v, "\r\n") {
				v = strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
			}
			if _, err := w.WriteString(key); err != nil {
				return err
			}
			if _, err := w.WriteString(": "); err != nil {
				return err
			}
			if _, err := w.WriteString(v); err != nil {
				return err
			}
			if _, err := w.WriteString("\r\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Write writes a header in wire format.
func (h Header) Write(w stringWriter) error {
	return h.WriteSubset(w, nil)
}

// NewHeader creates a new empty Header with a small pre-allocated capacity
// for the handful of headers a typical request or response carries.
func NewHeader() Header {
	return make(Header, 8)
}
