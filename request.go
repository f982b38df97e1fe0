package httpcore

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/zenweb/httpcore/internal/reqparse"
	"github.com/zenweb/httpcore/uri"
)

// ConnectionType records whether a request's connection should be kept
// alive or closed once its response has been flushed.
type ConnectionType uint8

const (
	ConnectionKeepAlive ConnectionType = iota
	ConnectionClose
)

// FormType classifies a request body by its Content-Type.
type FormType uint8

const (
	FormNone FormType = iota
	FormURLEncoded
	FormMultipart
)

// Request is the structured form of one parsed HTTP request. Its Header
// holds copies of the parsed header keys and values, and its Body is
// allocated separately by the parser; neither aliases the connection's
// per-request arena, so both stay valid after the arena is reset.
type Request struct {
	Method     Method
	Protocol   Protocol
	URI        uri.URI
	Header     Header
	Body       []byte
	Host       string
	Connection ConnectionType
	Form       FormType
	Boundary   string
	RemoteAddr string

	// Params holds path captures set by the router after a successful
	// route match; nil until the router has run.
	Params map[string]string
}

// NewRequestFromParsed builds a Request from a parsed reqparse.Result and
// the connection's remote address. Exported for alternate connection
// drivers (see the gnetengine package) that parse requests themselves
// instead of going through Server.
func NewRequestFromParsed(res *reqparse.Result, remoteAddr string) (*Request, error) {
	return newRequest(res, remoteAddr)
}

// newRequest builds a Request from a parsed reqparse.Result.
func newRequest(res *reqparse.Result, remoteAddr string) (*Request, error) {
	protocol := ParseProtocol(res.Protocol)

	parsedURI, err := uri.Parse(res.Path)
	if err != nil {
		return nil, err
	}

	h := NewHeader()
	for _, hdr := range res.Headers {
		h.Add(string(hdr.Key), string(hdr.Value))
	}

	conn := ConnectionKeepAlive
	if protocol < ProtocolHTTP11 {
		conn = ConnectionClose
	}
	if res.CloseRequested {
		conn = ConnectionClose
	}

	var formType FormType
	switch res.FormType {
	case reqparse.FormURLEncoded:
		formType = FormURLEncoded
	case reqparse.FormMultipart:
		formType = FormMultipart
	}

	return &Request{
		Method:     ParseMethod(res.Method),
		Protocol:   protocol,
		URI:        parsedURI,
		Header:     h,
		Body:       res.Body,
		Host:       res.Host,
		Connection: conn,
		Form:       formType,
		Boundary:   res.Boundary,
		RemoteAddr: remoteAddr,
	}, nil
}

// Path returns the percent-decoded, lexically resolved request path (the
// form a router match or a handler should compare against). An empty path
// is treated as "/", the same default uri.Parse applies.
func (r *Request) Path() string {
	if r.URI.Path == "" {
		return "/"
	}
	decoded, err := uri.Decode(r.URI.Path, false)
	if err != nil {
		decoded = r.URI.Path
	}
	return uri.ResolvePath(decoded)
}

// Query returns the raw (undecoded) query string, without the leading "?".
func (r *Request) Query() string {
	return r.URI.Query
}

// QueryValue returns the first decoded value of a query parameter, or "".
func (r *Request) QueryValue(key string) string {
	pairs, err := uri.DecodeQuery(r.URI.Query)
	if err != nil {
		return ""
	}
	for _, p := range pairs {
		if p[0] == key {
			return p[1]
		}
	}
	return ""
}

// Param returns the path capture named key, or "" if unmatched.
func (r *Request) Param(key string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[key]
}

// ParamInt returns the path capture named key parsed as a base-10 integer,
// clamped to 0 on parse failure, per the router's capture-projection rule.
func (r *Request) ParamInt(key string) int {
	n, err := strconv.Atoi(r.Param(key))
	if err != nil {
		return 0
	}
	return n
}

// ParamOpt returns the path capture named key along with whether it was
// present.
func (r *Request) ParamOpt(key string) (string, bool) {
	if r.Params == nil {
		return "", false
	}
	v, ok := r.Params[key]
	return v, ok
}

// ParamIntOpt returns the path capture named key parsed as an integer; ok
// is false if the capture is absent or not a valid integer.
func (r *Request) ParamIntOpt(key string) (int, bool) {
	v, ok := r.ParamOpt(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormField is one decoded (key, value) pair from a url-encoded or
// multipart request body.
type FormField struct {
	Key   string
	Value string
}

// FormFields decodes the request body according to r.Form. It returns nil,
// nil for FormNone.
func (r *Request) FormFields() ([]FormField, error) {
	switch r.Form {
	case FormURLEncoded:
		pairs, err := uri.DecodeQuery(string(r.Body))
		if err != nil {
			return nil, err
		}
		fields := make([]FormField, len(pairs))
		for i, p := range pairs {
			fields[i] = FormField{Key: p[0], Value: p[1]}
		}
		return fields, nil
	case FormMultipart:
		return decodeMultipartForm(r.Body, r.Boundary)
	default:
		return nil, nil
	}
}

// FormValue returns the first decoded value for key, or "" if absent.
func (r *Request) FormValue(key string) string {
	fields, err := r.FormFields()
	if err != nil {
		return ""
	}
	for _, f := range fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

func decodeMultipartForm(body []byte, boundary string) ([]FormField, error) {
	if boundary == "" {
		return nil, nil
	}
	delim := []byte("--" + boundary)
	parts := bytes.Split(body, delim)

	var fields []FormField
	for _, part := range parts {
		if len(part) == 0 || bytes.Equal(bytes.TrimSpace(part), []byte("--")) {
			continue
		}
		part = bytes.TrimPrefix(part, []byte("\r\n"))

		headerEnd := bytes.Index(part, []byte("\r\n\r\n"))
		if headerEnd < 0 {
			continue
		}
		headerBlock := part[:headerEnd]
		value := bytes.Trim(part[headerEnd+4:], "\r\n")

		name := extractFormFieldName(string(headerBlock))
		if name == "" {
			continue
		}
		fields = append(fields, FormField{Key: name, Value: string(value)})
	}
	return fields, nil
}

// BindJSON unmarshals the request body as JSON into obj.
func (r *Request) BindJSON(obj interface{}) error {
	if len(r.Body) == 0 {
		return errors.New("httpcore: request body is empty")
	}
	if err := json.Unmarshal(r.Body, obj); err != nil {
		return fmt.Errorf("httpcore: failed to unmarshal JSON: %w", err)
	}
	return nil
}

// BindForm decodes the request's url-encoded or multipart body and assigns
// each decoded field into obj's fields tagged `form:"field_name"`. obj must
// be a pointer to a struct.
func (r *Request) BindForm(obj interface{}) error {
	objValue := reflect.ValueOf(obj)
	if objValue.Kind() != reflect.Ptr || objValue.Elem().Kind() != reflect.Struct {
		return errors.New("httpcore: obj must be a pointer to a struct")
	}

	fields, err := r.FormFields()
	if err != nil {
		return fmt.Errorf("httpcore: failed to parse form data: %w", err)
	}
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		if _, exists := values[f.Key]; !exists {
			values[f.Key] = f.Value
		}
	}

	objElem := objValue.Elem()
	objType := objElem.Type()

	for i := 0; i < objElem.NumField(); i++ {
		field := objType.Field(i)
		fieldValue := objElem.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		formTag := field.Tag.Get("form")
		if formTag == "" {
			continue
		}
		formValue, ok := values[formTag]
		if !ok || formValue == "" {
			continue
		}

		switch fieldValue.Kind() {
		case reflect.String:
			fieldValue.SetString(formValue)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(formValue, 10, 64)
			if err != nil {
				return fmt.Errorf("httpcore: failed to parse %s as int: %w", formTag, err)
			}
			fieldValue.SetInt(n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(formValue, 10, 64)
			if err != nil {
				return fmt.Errorf("httpcore: failed to parse %s as uint: %w", formTag, err)
			}
			fieldValue.SetUint(n)
		case reflect.Float32, reflect.Float64:
			n, err := strconv.ParseFloat(formValue, 64)
			if err != nil {
				return fmt.Errorf("httpcore: failed to parse %s as float: %w", formTag, err)
			}
			fieldValue.SetFloat(n)
		case reflect.Bool:
			n, err := strconv.ParseBool(formValue)
			if err != nil {
				return fmt.Errorf("httpcore: failed to parse %s as bool: %w", formTag, err)
			}
			fieldValue.SetBool(n)
		default:
			continue
		}
	}

	return nil
}

// BindJSON unmarshals the request body as JSON into obj.
func (c *Ctx) BindJSON(obj interface{}) error { return c.Request.BindJSON(obj) }

// BindForm decodes the request's form body into obj. See Request.BindForm.
func (c *Ctx) BindForm(obj interface{}) error { return c.Request.BindForm(obj) }

func extractFormFieldName(headerBlock string) string {
	idx := strings.Index(strings.ToLower(headerBlock), "name=")
	if idx < 0 {
		return ""
	}
	rest := headerBlock[idx+len("name="):]
	if strings.HasPrefix(rest, `"`) {
		rest = rest[1:]
		if end := strings.IndexByte(rest, '"'); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	if end := strings.IndexAny(rest, "; \r\n"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
