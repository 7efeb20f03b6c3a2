// Package hierarchy folds recognized elements into the builder-neutral
// component tree (section → container → row → column → widget) every
// target converter consumes.
//
// Layout disambiguation is heuristic: column grouping is inferred from
// grid/width signals on siblings, and nodes the builder cannot partition
// confidently degrade to a single full-width column with a manual-review
// flag rather than failing.
package hierarchy

import (
	"errors"
	"log/slog"

	"github.com/hazyhaar/domforge/recognize"
)

// ErrNilTree is returned when Build receives no recognized tree.
var ErrNilTree = errors.New("hierarchy: nil recognized tree")

// Config configures the Builder.
type Config struct {
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Builder folds recognition results into the IR.
type Builder struct {
	logger *slog.Logger
}

// New creates a Builder.
func New(cfg Config) *Builder {
	cfg.defaults()
	return &Builder{logger: cfg.Logger}
}

// Build produces the IR root from a recognized tree. The root is always
// a section holding everything; top-level sections of the page map to
// its children.
func (b *Builder) Build(tree *recognize.Recognized) (*Node, error) {
	if tree == nil || tree.Element == nil {
		return nil, ErrNilTree
	}

	root := &Node{
		Kind: KindSection,
		Type: recognize.TypeSection,
	}

	// The recognized root is usually <body>; its children become the
	// page's top-level flow. Anything else is folded as a single child.
	if tree.Element.Tag == "body" {
		for _, c := range tree.Children {
			root.Children = append(root.Children, b.fold(c)...)
		}
	} else {
		root.Children = b.fold(tree)
	}

	b.logger.Debug("hierarchy: built", "nodes", root.Count())
	return root, nil
}

// fold converts one recognized node into IR nodes. Layout types recurse;
// widget types absorb their subtree into props.
func (b *Builder) fold(rc *recognize.Recognized) []*Node {
	res := rc.Result

	if res.Type.IsLayout() || (res.Type == recognize.TypeUnknown && len(rc.Children) > 0) {
		return []*Node{b.foldLayout(rc)}
	}

	return []*Node{b.widget(rc)}
}

// foldLayout produces a structural node, running column inference over
// the element children.
func (b *Builder) foldLayout(rc *recognize.Recognized) *Node {
	res := rc.Result
	node := &Node{
		Kind:         layoutKind(res.Type),
		Type:         res.Type,
		Confidence:   res.Confidence,
		FallbackType: res.FallbackType,
		ManualReview: res.ManualReview,
		Styles:       rc.Element.Styles,
		Responsive:   rc.Element.Responsive,
		States:       rc.Element.States,
		Element:      rc.Element,
		Props:        layoutProps(rc),
	}

	switch node.Kind {
	case KindRow:
		// Children of a row are columns by construction.
		for _, c := range rc.Children {
			node.Children = append(node.Children, b.asColumn(c))
		}
		sizeColumns(node.Children)
	case KindColumn:
		for _, c := range rc.Children {
			node.Children = append(node.Children, b.fold(c)...)
		}
		if len(node.Children) == 0 && rc.Element.Text != "" {
			node.Children = append(node.Children, syntheticText(rc.Element.Text))
		}
	default:
		node.Children = b.groupChildren(rc.Children)
	}
	return node
}

// groupChildren applies column inference to a section/container's
// children: column-like siblings are wrapped in a synthetic row, and
// ambiguous multi-block layouts degrade to a flat flow with a review
// flag on the parent handled by the caller.
func (b *Builder) groupChildren(children []*recognize.Recognized) []*Node {
	if len(children) == 0 {
		return nil
	}

	switch classifySiblings(children) {
	case siblingsColumns:
		row := &Node{Kind: KindRow, Type: recognize.TypeRow, Confidence: 75}
		for _, c := range children {
			row.Children = append(row.Children, b.asColumn(c))
		}
		sizeColumns(row.Children)
		return []*Node{row}

	case siblingsAmbiguous:
		// Partial width signals: cannot partition confidently. Default
		// to a single full-width column and flag for review.
		col := &Node{
			Kind:         KindColumn,
			Type:         recognize.TypeColumn,
			Size:         100,
			ManualReview: true,
		}
		for _, c := range children {
			col.Children = append(col.Children, b.fold(c)...)
		}
		return []*Node{col}

	default:
		var out []*Node
		for _, c := range children {
			out = append(out, b.fold(c)...)
		}
		return out
	}
}

// asColumn folds a recognized node into a column, wrapping non-column
// content in a synthetic column node.
func (b *Builder) asColumn(rc *recognize.Recognized) *Node {
	if rc.Result.Type == recognize.TypeColumn {
		col := &Node{
			Kind:       KindColumn,
			Type:       recognize.TypeColumn,
			Confidence: rc.Result.Confidence,
			Styles:     rc.Element.Styles,
			Responsive: rc.Element.Responsive,
			Element:    rc.Element,
			Size:       widthSignal(rc.Element),
		}
		for _, c := range rc.Children {
			col.Children = append(col.Children, b.fold(c)...)
		}
		if len(col.Children) == 0 && rc.Element.Text != "" {
			col.Children = append(col.Children, syntheticText(rc.Element.Text))
		}
		return col
	}

	col := &Node{
		Kind:    KindColumn,
		Type:    recognize.TypeColumn,
		Size:    widthSignal(rc.Element),
		Element: rc.Element,
	}
	col.Children = b.fold(rc)
	return col
}

// syntheticText wraps bare column text in a widget so it survives
// conversion. Carries no source element: the column owns it.
func syntheticText(text string) *Node {
	return &Node{
		Kind:       KindWidget,
		Type:       recognize.TypeText,
		Confidence: 100,
		Props:      map[string]any{"text": text, "html": text},
	}
}

func layoutKind(t recognize.ComponentType) Kind {
	switch t {
	case recognize.TypeSection, recognize.TypeHero:
		return KindSection
	case recognize.TypeRow:
		return KindRow
	case recognize.TypeColumn:
		return KindColumn
	default:
		return KindContainer
	}
}

// widget produces a leaf IR node, absorbing the element subtree into
// typed props.
func (b *Builder) widget(rc *recognize.Recognized) *Node {
	res := rc.Result
	return &Node{
		Kind:         KindWidget,
		Type:         res.Type,
		Confidence:   res.Confidence,
		FallbackType: res.FallbackType,
		ManualReview: res.ManualReview,
		Props:        widgetProps(rc),
		Styles:       rc.Element.Styles,
		Responsive:   rc.Element.Responsive,
		States:       rc.Element.States,
		Element:      rc.Element,
	}
}
