// Package radix implements the per-method path trie the router matches
// requests against: literal, param (:name), and wildcard (*) segments,
// with literal > param > wildcard precedence at each level.
package radix

import (
	"strings"
	"sync"
)

var segmentsPool = sync.Pool{
	New: func() interface{} {
		return make([]string, 0, 16)
	},
}

func getSegments() []string {
	return segmentsPool.Get().([]string)
}

func releaseSegments(s []string) {
	s = s[:0]
	segmentsPool.Put(s)
}

// Kind is the kind of path segment a Node matches.
type Kind uint8

const (
	Static Kind = iota
	Param
	Wildcard
)

// Node is one segment of a registered route path.
type Node struct {
	Path      string
	Kind      Kind
	Children  []*Node
	Handlers  map[string]interface{}
	ParamName string
	IsEnd     bool
}

func newNode() *Node {
	return &Node{
		Children: make([]*Node, 0),
		Handlers: make(map[string]interface{}),
	}
}

// Tree is a per-method (or per-fallback) route trie.
type Tree struct {
	Root *Node
}

// NewTree creates an empty Tree.
func NewTree() *Tree {
	return &Tree{Root: newNode()}
}

// Insert adds path, registered under method, to the tree. A wildcard
// segment ("*" or "*name") must be the last segment of path.
func (t *Tree) Insert(path string, method string, handler interface{}) {
	if path == "" {
		return
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	segments := splitPath(path)
	defer releaseSegments(segments)

	if len(segments) == 0 {
		t.Root.IsEnd = true
		t.Root.Handlers[method] = handler
		return
	}

	current := t.Root
	for i, segment := range segments {
		if segment == "" {
			continue
		}

		var kind Kind
		var paramName string
		switch {
		case segment[0] == ':':
			kind = Param
			paramName = segment[1:]
		case segment[0] == '*':
			kind = Wildcard
			paramName = segment[1:]
		default:
			kind = Static
		}

		var matched *Node
		for _, child := range current.Children {
			if child.Kind != kind {
				continue
			}
			if kind == Static && child.Path != segment {
				continue
			}
			if kind != Static && child.ParamName != paramName {
				continue
			}
			matched = child
			break
		}

		if matched == nil {
			matched = &Node{
				Path:      segment,
				Kind:      kind,
				Children:  make([]*Node, 0),
				Handlers:  make(map[string]interface{}),
				ParamName: paramName,
			}
			current.Children = append(current.Children, matched)
		}

		current = matched
		if kind == Wildcard {
			current.IsEnd = true
			current.Handlers[method] = handler
			return
		}
		if i == len(segments)-1 {
			current.IsEnd = true
			current.Handlers[method] = handler
		}
	}
}

// Find looks up path and, on a match, fills params with any path captures.
func (t *Tree) Find(path string, params map[string]string) (map[string]interface{}, bool) {
	if path == "" {
		return nil, false
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	segments := splitPath(path)
	defer releaseSegments(segments)

	return findNode(t.Root, segments, 0, params)
}

// findNode walks the tree trying static children first, then param, then a
// terminal wildcard — the match-precedence invariant a router depends on.
func findNode(node *Node, segments []string, index int, params map[string]string) (map[string]interface{}, bool) {
	if index >= len(segments) {
		if node.IsEnd {
			return node.Handlers, true
		}
		return nil, false
	}

	segment := segments[index]
	if segment == "" {
		return findNode(node, segments, index+1, params)
	}

	for _, child := range node.Children {
		if child.Kind == Static && child.Path == segment {
			if handlers, ok := findNode(child, segments, index+1, params); ok {
				return handlers, true
			}
		}
	}
	for _, child := range node.Children {
		if child.Kind == Param {
			if params != nil {
				params[child.ParamName] = segment
			}
			if handlers, ok := findNode(child, segments, index+1, params); ok {
				return handlers, true
			}
		}
	}
	for _, child := range node.Children {
		if child.Kind == Wildcard {
			if params != nil {
				// A bare "*" (spec §4.4's grammar) carries no name, unlike
				// the "*name" extension; fall back to "*" itself as the
				// capture key so the remainder is still retrievable via
				// Param("*") instead of being silently dropped.
				key := child.ParamName
				if key == "" {
					key = "*"
				}
				params[key] = strings.Join(segments[index:], "/")
			}
			return child.Handlers, child.IsEnd
		}
	}

	return nil, false
}

// splitPath splits path on '/', dropping a trailing slash first so "/a/"
// and "/a" produce identical segment lists.
func splitPath(path string) []string {
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	segments := getSegments()
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}
