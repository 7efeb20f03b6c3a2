package hierarchy

import (
	"github.com/hazyhaar/domforge/analyze"
	"github.com/hazyhaar/domforge/recognize"
)

// Kind tags an IR node's structural role.
type Kind string

const (
	KindSection   Kind = "section"
	KindContainer Kind = "container"
	KindRow       Kind = "row"
	KindColumn    Kind = "column"
	KindWidget    Kind = "widget"
)

// Node is one node of the builder-neutral component hierarchy, the
// single owner of conversion-ready data. Target converters only read it.
type Node struct {
	Kind         Kind                    `json:"kind"`
	Type         recognize.ComponentType `json:"type"`
	Confidence   int                     `json:"confidence"`
	FallbackType recognize.ComponentType `json:"fallback_type,omitempty"`
	ManualReview bool                    `json:"manual_review,omitempty"`

	// Props carry the widget payload (text, href, src, level, items...).
	Props map[string]any `json:"props,omitempty"`

	Styles     analyze.Styles                        `json:"styles,omitempty"`
	Responsive map[analyze.Breakpoint]analyze.Styles `json:"responsive,omitempty"`
	States     map[analyze.State]analyze.Styles      `json:"states,omitempty"`

	// Size is the column width in percent; zero outside columns.
	Size float64 `json:"size,omitempty"`

	// Element is the source element (nil for synthetic layout nodes).
	Element *analyze.Element `json:"-"`

	Children []*Node `json:"children,omitempty"`
}

// Walk visits the node and all descendants pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree, self included.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) { total++ })
	return total
}

// Widgets returns all widget-kind nodes in document order.
func (n *Node) Widgets() []*Node {
	var out []*Node
	n.Walk(func(node *Node) {
		if node.Kind == KindWidget {
			out = append(out, node)
		}
	})
	return out
}
