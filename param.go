package httpcore

import (
	"fmt"
	"strconv"

	"github.com/zenweb/httpcore/internal/pool"
)

// paramMapPool pools the route.Params maps the router fills on every match,
// following the teacher's pre-sized-pooled-map idiom for the same concern.
var paramMapPool = pool.New(func() map[string]string {
	return make(map[string]string, 8)
})

func getParamMap() map[string]string {
	return paramMapPool.Get()
}

func releaseParamMap(m map[string]string) {
	for k := range m {
		delete(m, k)
	}
	paramMapPool.Put(m)
}

// CaptureKind names how a path capture should be coerced when a route
// declares a CaptureSchema (see §4.4's typed capture projection: bytes,
// optional bytes, integer clamped to 0, or optional integer).
type CaptureKind uint8

const (
	CaptureBytes CaptureKind = iota
	CaptureOptBytes
	CaptureInt
	CaptureOptInt
)

// CaptureField names one field of a route's typed capture struct: which
// path parameter feeds it, and how to coerce the value.
type CaptureField struct {
	Name string
	Kind CaptureKind
}

// CaptureSchema is supplied explicitly per route (rather than derived by
// reflecting over a handler's function signature, which Go's static
// dispatch doesn't support at routing time — see SPEC_FULL.md's
// Supplemented modules section 2).
type CaptureSchema []CaptureField

// Captures projects a route's matched path parameters according to its
// CaptureSchema.
type Captures struct {
	values map[string]string
}

func newCaptures(values map[string]string) *Captures {
	return &Captures{values: values}
}

// Bytes returns the named capture as a byte slice, or an empty slice if
// absent.
func (c *Captures) Bytes(name string) []byte {
	return []byte(c.values[name])
}

// OptBytes returns the named capture and whether it was present.
func (c *Captures) OptBytes(name string) ([]byte, bool) {
	v, ok := c.values[name]
	if !ok {
		return nil, false
	}
	return []byte(v), true
}

// Int returns the named capture parsed as a base-10 integer, clamped to 0
// on parse failure.
func (c *Captures) Int(name string) int {
	n, err := strconv.Atoi(c.values[name])
	if err != nil {
		return 0
	}
	return n
}

// OptInt returns the named capture parsed as an integer; ok is false if
// the capture is absent or not a valid integer.
func (c *Captures) OptInt(name string) (int, bool) {
	v, ok := c.values[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Project reads c according to schema and returns a map of field name to
// its coerced value (string for bytes kinds, int for integer kinds),
// matching the named-field-struct projection rule: unmatched fields are
// left at their zero value.
func (c *Captures) Project(schema CaptureSchema) map[string]interface{} {
	out := make(map[string]interface{}, len(schema))
	for _, f := range schema {
		switch f.Kind {
		case CaptureBytes:
			out[f.Name] = string(c.Bytes(f.Name))
		case CaptureOptBytes:
			v, ok := c.OptBytes(f.Name)
			if ok {
				out[f.Name] = string(v)
			}
		case CaptureInt:
			out[f.Name] = c.Int(f.Name)
		case CaptureOptInt:
			v, ok := c.OptInt(f.Name)
			if ok {
				out[f.Name] = v
			}
		default:
			panic(fmt.Sprintf("httpcore: unsupported capture kind %d for field %q", f.Kind, f.Name))
		}
	}
	return out
}

// Captures returns the request's matched path parameters, ready for
// typed projection with Captures.Project.
func (c *Ctx) Captures() *Captures {
	return newCaptures(c.Request.Params)
}

// GetParam retrieves a URL parameter from the context's request.
func (c *Ctx) GetParam(key string) string {
	if c.Request == nil {
		return ""
	}
	return c.Request.Param(key)
}
