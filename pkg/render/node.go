package render

import (
	"maps"
	"slices"
	"strings"
)

// Unit conversions. Content trees are laid out in CSS pixels; PDF output is
// in points.
const (
	PixelsPerInch  = 96.0
	PointsPerInch  = 72.0
	PointsPerPixel = PointsPerInch / PixelsPerInch
)

// Inches converts inches to pixels.
func Inches(in float64) float64 { return in * PixelsPerInch }

// Node is an element of a content tree. A node with non-empty Text is a text
// leaf; its Children are ignored.
type Node struct {
	Tag      string            // Element kind, e.g. "div", "bubble"
	ID       string            // Unique id within the tree (optional)
	Classes  []string          // Class names used by selectors
	Data     map[string]string // Data attributes reported by measurement
	Style    Style             // Layout and paint properties
	Text     string            // Text content for leaves
	Children []*Node
}

// El creates a container node.
func El(tag string, style Style, children ...*Node) *Node {
	return &Node{Tag: tag, Style: style, Children: children}
}

// Text creates a text leaf.
func Text(text string, style Style) *Node {
	return &Node{Tag: "text", Style: style, Text: text}
}

// WithID sets the node id and returns the node.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// WithClass adds class names and returns the node.
func (n *Node) WithClass(classes ...string) *Node {
	n.Classes = append(n.Classes, classes...)
	return n
}

// WithData sets a data attribute and returns the node.
func (n *Node) WithData(key, value string) *Node {
	if n.Data == nil {
		n.Data = make(map[string]string)
	}
	n.Data[key] = value
	return n
}

// Append adds children, skipping nil entries, and returns the node.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// HasClass reports whether the node carries the class name.
func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.Classes, class)
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool {
	return n.Text != ""
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Classes = slices.Clone(n.Classes)
	c.Data = maps.Clone(n.Data)
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Walk visits the subtree in document order. Returning false from fn skips
// the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// TextContent concatenates all text in the subtree, separated by spaces.
func (n *Node) TextContent() string {
	var parts []string
	n.Walk(func(c *Node) bool {
		if c.IsText() {
			parts = append(parts, c.Text)
		}
		return true
	})
	return strings.Join(parts, " ")
}
