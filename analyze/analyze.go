// Package analyze walks a cloned page's DOM and produces the normalized
// element tree every later stage consumes.
//
// Two input paths exist. The production path is a Snapshot: the upstream
// cloner serializes the live DOM with per-node computed styles, geometry,
// responsive variants and interactive-state styles. The convenience path
// parses raw HTML with golang.org/x/net/html and reads inline style
// attributes only; it exists for tests and one-shot CLI runs.
//
// Usage:
//
//	a := analyze.New(analyze.Config{})
//	root, err := a.AnalyzeHTML(ctx, htmlBytes)
package analyze

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNilRoot is returned when the input document has no root node.
// This is the analyzer's only fatal condition.
var ErrNilRoot = errors.New("analyze: nil root node")

// Config configures the Analyzer.
type Config struct {
	// MaxDepth bounds DOM recursion. Default: 256.
	MaxDepth int

	// Logger for debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxDepth <= 0 {
		c.MaxDepth = 256
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Analyzer turns DOM trees into Element trees.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Analyzer with the given configuration.
func New(cfg Config) *Analyzer {
	cfg.defaults()
	return &Analyzer{cfg: cfg, logger: cfg.Logger}
}

// AnalyzeHTML parses raw HTML and analyzes its body subtree.
func (a *Analyzer) AnalyzeHTML(ctx context.Context, raw []byte) (*Element, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrNilRoot
	}
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("analyze: parse html: %w", err)
	}
	body := findBody(doc)
	if body == nil {
		return nil, ErrNilRoot
	}
	return a.AnalyzeNode(ctx, body)
}

// AnalyzeNode analyzes a parsed DOM subtree. The returned Element tree is
// immutable by convention: callers downstream only read it.
func (a *Analyzer) AnalyzeNode(ctx context.Context, root *html.Node) (*Element, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	el := a.walkNode(root, Context{}, 0)
	if el == nil {
		return nil, ErrNilRoot
	}
	a.logger.Debug("analyze: complete", "elements", el.Count())
	return el, nil
}

// walkNode converts one element node and recurses into children.
// Returns nil for nodes that carry no structure (script, style, head,
// comments, empty text).
func (a *Analyzer) walkNode(n *html.Node, parent Context, depth int) *Element {
	if depth > a.cfg.MaxDepth {
		return nil
	}
	if n.Type != html.ElementNode {
		return nil
	}
	if skipTag(n.DataAtom) {
		return nil
	}

	el := &Element{
		Tag:     strings.ToLower(n.Data),
		Attrs:   make(map[string]string, len(n.Attr)),
		Context: parent,
	}
	el.Context.Depth = depth

	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		el.Attrs[key] = attr.Val
		switch key {
		case "id":
			el.ID = attr.Val
		case "class":
			el.Classes = strings.Fields(attr.Val)
		case "style":
			el.Styles = normalizeStyles(parseDeclarations(attr.Val))
		}
	}

	childCtx := a.childContext(el)

	var texts []string
	var siblingTags []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				texts = append(texts, t)
			}
		case html.ElementNode:
			if child := a.walkNode(c, childCtx, depth+1); child != nil {
				el.Children = append(el.Children, child)
				siblingTags = append(siblingTags, child.Tag)
			}
		}
	}
	el.Text = strings.Join(texts, " ")
	for _, child := range el.Children {
		child.Context.SiblingTags = siblingTags
	}

	return el
}

// childContext derives the ancestry flags descendants inherit.
func (a *Analyzer) childContext(el *Element) Context {
	ctx := el.Context
	switch el.Tag {
	case "form":
		ctx.InsideForm = true
	case "nav":
		ctx.InsideNav = true
	case "header":
		ctx.InsideHeader = true
	case "footer":
		ctx.InsideFooter = true
	}
	if el.Attr("role") == "navigation" {
		ctx.InsideNav = true
	}
	if looksLikeHero(el) {
		ctx.InsideHero = true
	}
	return ctx
}

// looksLikeHero detects hero/banner wrappers from class keywords or a
// full-height background-image section near the top of the page.
func looksLikeHero(el *Element) bool {
	for _, kw := range []string{"hero", "banner", "jumbotron", "masthead"} {
		if el.ClassContains(kw) {
			return true
		}
	}
	if el.Tag == "section" && el.Styles.BackgroundImage != "" && el.Context.Depth <= 2 {
		return true
	}
	return false
}

func skipTag(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Head, atom.Meta, atom.Link, atom.Title, atom.Noscript, atom.Template:
		return true
	}
	return false
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return body
}
