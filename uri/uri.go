// Package uri parses the request-target of an HTTP request line per the
// RFC 3986 subset an HTTP/1.1 server needs: scheme, userinfo, host (including
// bracketed IPv6 literals), port, path, query and fragment, plus
// percent-decoding and lexical path resolution.
package uri

import (
	"errors"
	"strconv"
	"strings"
)

// URI is a parsed request-target or absolute-form URI.
type URI struct {
	Scheme   string
	Username string
	Password string
	Host     string
	Port     string
	Path     string
	Query    string
	Fragment string
}

var (
	// ErrInvalidPercentEncoding is returned when a "%" is not followed by
	// two hex digits.
	ErrInvalidPercentEncoding = errors.New("uri: invalid percent-encoding")
	// ErrInvalidIPv6Literal is returned when a bracketed host is not
	// properly terminated.
	ErrInvalidIPv6Literal = errors.New("uri: unterminated IPv6 literal")
	// ErrInvalidPort is returned when a port segment is not all digits.
	ErrInvalidPort = errors.New("uri: invalid port")
)

// Parse parses raw, which may be an origin-form request-target ("/a/b?c")
// or an absolute-form URI ("http://host:port/a/b"). Authority-form
// ("host:port", used only by CONNECT) is not split into Host and Port: it
// has no "://", so it lands in Path unchanged. Parse does not percent-decode Path
// or Query; callers decode those explicitly via Decode once they know which
// component they need (a path segment vs. a form field decode differently).
func Parse(raw string) (URI, error) {
	var u URI

	rest := raw

	if i := strings.Index(rest, "#"); i >= 0 {
		u.Fragment = rest[i+1:]
		rest = rest[:i]
	}

	if idx := strings.Index(rest, "://"); idx >= 0 && isValidScheme(rest[:idx]) {
		u.Scheme = strings.ToLower(rest[:idx])
		rest = rest[idx+3:]

		authority := rest
		if i := strings.IndexAny(rest, "/?"); i >= 0 {
			authority = rest[:i]
			rest = rest[i:]
		} else {
			rest = ""
		}

		if err := parseAuthority(authority, &u); err != nil {
			return URI{}, err
		}
	}

	if i := strings.Index(rest, "?"); i >= 0 {
		u.Query = rest[i+1:]
		rest = rest[:i]
	}

	if rest == "" {
		rest = "/"
	}
	u.Path = rest

	return u, nil
}

func isValidScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		case (c == '+' || c == '-' || c == '.') && i > 0:
		default:
			return false
		}
	}
	return true
}

func parseAuthority(authority string, u *URI) error {
	if at := strings.LastIndex(authority, "@"); at >= 0 {
		userinfo := authority[:at]
		authority = authority[at+1:]
		if colon := strings.IndexByte(userinfo, ':'); colon >= 0 {
			u.Username = userinfo[:colon]
			u.Password = userinfo[colon+1:]
		} else {
			u.Username = userinfo
		}
	}

	if strings.HasPrefix(authority, "[") {
		end := strings.IndexByte(authority, ']')
		if end < 0 {
			return ErrInvalidIPv6Literal
		}
		u.Host = authority[:end+1]
		remainder := authority[end+1:]
		if strings.HasPrefix(remainder, ":") {
			port := remainder[1:]
			if !isDigits(port) {
				return ErrInvalidPort
			}
			u.Port = port
		}
		return nil
	}

	if colon := strings.LastIndexByte(authority, ':'); colon >= 0 {
		u.Host = authority[:colon]
		port := authority[colon+1:]
		if !isDigits(port) {
			return ErrInvalidPort
		}
		u.Port = port
		return nil
	}

	u.Host = authority
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Decode percent-decodes s, turning "+" into " " only when form is true
// (application/x-www-form-urlencoded semantics); path and query-as-a-whole
// decoding leaves "+" alone.
func Decode(s string, form bool) (string, error) {
	if !strings.ContainsAny(s, "%+") || (!form && !strings.ContainsRune(s, '%')) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%':
			if i+2 >= len(s) {
				return "", ErrInvalidPercentEncoding
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", ErrInvalidPercentEncoding
			}
			b.WriteByte(byte(v))
			i += 2
		case '+':
			if form {
				b.WriteByte(' ')
			} else {
				b.WriteByte('+')
			}
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// DecodeQuery decodes an application/x-www-form-urlencoded query or body
// string into an ordered slice of key/value pairs (ordering is preserved so
// repeated keys keep their original positions, unlike a map).
func DecodeQuery(raw string) ([][2]string, error) {
	if raw == "" {
		return nil, nil
	}

	var out [][2]string
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		var key, value string
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key, value = pair[:i], pair[i+1:]
		} else {
			key = pair
		}
		dk, err := Decode(key, true)
		if err != nil {
			return nil, err
		}
		dv, err := Decode(value, true)
		if err != nil {
			return nil, err
		}
		out = append(out, [2]string{dk, dv})
	}
	return out, nil
}

// ResolvePath lexically collapses "." and ".." segments out of path,
// without consulting the filesystem. A rooted path ("/a/b") resolves to
// another rooted path, with excess ".." at the root dropped rather than
// erroring; a relative path resolves to another relative path, with excess
// ".." preserved as a leading ".." since there is nothing left to pop. The
// empty path resolves to ".". Trailing slashes are stripped, except the
// root path itself.
func ResolvePath(path string) string {
	if path == "" {
		return "."
	}

	rooted := path[0] == '/'

	segments := strings.Split(path, "/")
	stack := make([]string, 0, len(segments))

	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if n := len(stack); n > 0 && stack[n-1] != ".." {
				stack = stack[:n-1]
			} else if !rooted {
				stack = append(stack, "..")
			}
		default:
			stack = append(stack, seg)
		}
	}

	if rooted {
		return "/" + strings.Join(stack, "/")
	}
	if len(stack) == 0 {
		return "."
	}
	return strings.Join(stack, "/")
}
