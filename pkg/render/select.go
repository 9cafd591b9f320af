package render

import (
	"fmt"
	"strings"
)

// Selector is a parsed compound selector.
type Selector struct {
	Tag     string
	ID      string
	Classes []string
}

// ParseSelector parses a compound selector such as "div.contest",
// "#content-slot" or ".timing-mark".
func ParseSelector(s string) (Selector, error) {
	var sel Selector
	s = strings.TrimSpace(s)
	if s == "" {
		return sel, fmt.Errorf("empty selector")
	}
	if strings.ContainsAny(s, " >+~,[]:") {
		return sel, fmt.Errorf("unsupported selector %q", s)
	}
	for s != "" {
		end := strings.IndexAny(s[1:], ".#") + 1
		if end == 0 {
			end = len(s)
		}
		tok := s[:end]
		s = s[end:]
		switch tok[0] {
		case '.':
			if len(tok) == 1 {
				return sel, fmt.Errorf("empty class in selector")
			}
			sel.Classes = append(sel.Classes, tok[1:])
		case '#':
			if len(tok) == 1 || sel.ID != "" {
				return sel, fmt.Errorf("invalid id in selector")
			}
			sel.ID = tok[1:]
		default:
			if sel.Tag != "" || sel.ID != "" || len(sel.Classes) > 0 {
				return sel, fmt.Errorf("tag must lead selector")
			}
			sel.Tag = tok
		}
	}
	return sel, nil
}

// Matches reports whether n satisfies the selector.
func (s Selector) Matches(n *Node) bool {
	if s.Tag != "" && n.Tag != s.Tag {
		return false
	}
	if s.ID != "" && n.ID != s.ID {
		return false
	}
	for _, c := range s.Classes {
		if !n.HasClass(c) {
			return false
		}
	}
	return true
}

// Select returns every node in the subtree matching selector, in document
// order.
func Select(root *Node, selector string) ([]*Node, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	var out []*Node
	root.Walk(func(n *Node) bool {
		if sel.Matches(n) {
			out = append(out, n)
		}
		return true
	})
	return out, nil
}

// Find returns the first node matching selector, or nil.
func Find(root *Node, selector string) *Node {
	nodes, err := Select(root, selector)
	if err != nil || len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}
