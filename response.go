package httpcore

import (
	"bufio"
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/valyala/bytebufferpool"
)

// Response is one response cycle's status, headers, and buffered body.
// WriteTo serializes it onto the buffered writer it is given, and the
// connection driver releases its body buffer back to the pool afterwards.
type Response struct {
	StatusCode int
	Header     Header

	body      *bytebufferpool.ByteBuffer
	isFlushed bool
	isDirty   bool
}

func newResponse() *Response {
	return &Response{
		StatusCode: StatusOK,
		Header:     NewHeader(),
		body:       bytebufferpool.Get(),
	}
}

func (resp *Response) reset() {
	resp.StatusCode = StatusOK
	resp.Header = NewHeader()
	resp.body.Reset()
	resp.isFlushed = false
	resp.isDirty = false
}

func (resp *Response) release() {
	bytebufferpool.Put(resp.body)
}

// WriteHeader sets the status code for the eventual flush. Calling it does
// not itself write anything to the socket.
func (resp *Response) WriteHeader(status int) {
	resp.StatusCode = status
	resp.isDirty = true
}

// Write appends to the buffered body, marking the response dirty (so the
// driver knows not to synthesize a 404).
func (resp *Response) Write(p []byte) (int, error) {
	resp.isDirty = true
	return resp.body.Write(p)
}

// String writes a plain-text body with the given status code.
func (resp *Response) String(status int, s string) {
	resp.WriteHeader(status)
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp.body.Reset()
	_, _ = resp.body.WriteString(s)
}

// JSON marshals v with goccy/go-json and writes it as the response body.
func (resp *Response) JSON(status int, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	resp.WriteHeader(status)
	resp.Header.Set("Content-Type", "application/json; charset=utf-8")
	resp.body.Reset()
	_, _ = resp.body.Write(data)
	return nil
}

// HTML writes an HTML body with the given status code.
func (resp *Response) HTML(status int, s string) {
	resp.WriteHeader(status)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	resp.body.Reset()
	_, _ = resp.body.WriteString(s)
}

// Data writes an arbitrary body with an explicit content type.
func (resp *Response) Data(status int, contentType string, data []byte) {
	resp.WriteHeader(status)
	resp.Header.Set("Content-Type", contentType)
	resp.body.Reset()
	_, _ = resp.body.Write(data)
}

// notFound synthesizes the driver's default 404 when a handler returns
// without writing anything (§4.5e).
func (resp *Response) notFound() {
	resp.StatusCode = StatusNotFound
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp.body.Reset()
	_, _ = resp.body.WriteString("Resource not found")
}

// WriteTo serializes the response to w in wire format: status line,
// headers, blank line, body. It is a no-op if already flushed.
func (resp *Response) WriteTo(w *bufio.Writer) error {
	if resp.isFlushed {
		return nil
	}
	resp.isFlushed = true

	if resp.Header.Get("Content-Length") == "" {
		resp.Header.Set("Content-Length", strconv.Itoa(resp.body.Len()))
	}

	if _, err := w.WriteString("HTTP/1.1 "); err != nil {
		return err
	}
	if _, err := w.WriteString(strconv.Itoa(resp.StatusCode)); err != nil {
		return err
	}
	if _, err := w.WriteString(" "); err != nil {
		return err
	}
	if _, err := w.WriteString(StatusText(resp.StatusCode)); err != nil {
		return err
	}
	if _, err := w.WriteString("\r\n"); err != nil {
		return err
	}

	if err := resp.Header.Write(w); err != nil {
		return err
	}

	if _, err := w.WriteString("\r\n"); err != nil {
		return err
	}
	if _, err := w.Write(resp.body.B); err != nil {
		return err
	}
	return w.Flush()
}

// EncodeResponse serializes resp to its wire bytes. It exists for
// connection drivers that write whole messages to a socket at once (see
// the gnetengine package) rather than streaming through a *bufio.Writer.
func EncodeResponse(resp *Response) ([]byte, error) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := resp.WriteTo(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
