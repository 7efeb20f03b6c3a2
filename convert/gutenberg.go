package convert

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/hazyhaar/domforge/hierarchy"
	"github.com/hazyhaar/domforge/recognize"
)

// GutenbergExport carries both the structured block tree and its
// serialized post-content form.
type GutenbergExport struct {
	Blocks     []*GutenbergBlock `json:"blocks"`
	Serialized string            `json:"serialized"`
}

// GutenbergBlock is one block in the tree. Name uses the full
// namespaced form ("core/heading").
type GutenbergBlock struct {
	Name        string            `json:"name"`
	Attrs       map[string]any    `json:"attrs,omitempty"`
	InnerHTML   string            `json:"inner_html,omitempty"`
	InnerBlocks []*GutenbergBlock `json:"inner_blocks,omitempty"`
}

func convertGutenberg(st *state, root *hierarchy.Node) (any, error) {
	var blocks []*GutenbergBlock
	for _, child := range root.Children {
		blocks = append(blocks, gutenbergNode(st, child))
	}
	return &GutenbergExport{
		Blocks:     blocks,
		Serialized: SerializeBlocks(blocks),
	}, nil
}

func gutenbergNode(st *state, n *hierarchy.Node) *GutenbergBlock {
	switch n.Kind {
	case hierarchy.KindSection, hierarchy.KindContainer:
		b := &GutenbergBlock{Name: "core/group", Attrs: map[string]any{}}
		if bg, ok := n.Props["background_image"].(string); ok && bg != "" {
			b.Attrs["style"] = map[string]any{
				"background": map[string]any{"backgroundImage": map[string]any{"url": bg}},
			}
		}
		for _, child := range n.Children {
			b.InnerBlocks = append(b.InnerBlocks, gutenbergNode(st, child))
		}
		return b
	case hierarchy.KindRow:
		b := &GutenbergBlock{Name: "core/columns"}
		for _, child := range n.Children {
			b.InnerBlocks = append(b.InnerBlocks, gutenbergNode(st, child))
		}
		return b
	case hierarchy.KindColumn:
		b := &GutenbergBlock{Name: "core/column"}
		if n.Size > 0 && n.Size < 100 {
			b.Attrs = map[string]any{"width": fmt.Sprintf("%g%%", n.Size)}
		}
		for _, child := range n.Children {
			b.InnerBlocks = append(b.InnerBlocks, gutenbergNode(st, child))
		}
		return b
	default:
		return gutenbergWidget(st, n)
	}
}

func gutenbergWidget(st *state, n *hierarchy.Node) *GutenbergBlock {
	if st.needsFallback(n) {
		return &GutenbergBlock{
			Name:      "core/html",
			InnerHTML: st.fb.htmlWidget(n, fallbackReason(n, st.opts.MinConfidence)),
		}
	}

	p := n.Props
	switch n.Type {
	case recognize.TypeHeading:
		level := orAny(p["level"], 2)
		text, _ := p["text"].(string)
		return &GutenbergBlock{
			Name:      "core/heading",
			Attrs:     map[string]any{"level": level},
			InnerHTML: fmt.Sprintf("<h%v class=\"wp-block-heading\">%s</h%v>", level, html.EscapeString(text), level),
		}
	case recognize.TypeText:
		h, _ := p["html"].(string)
		return &GutenbergBlock{Name: "core/paragraph", InnerHTML: "<p>" + h + "</p>"}
	case recognize.TypeButton:
		text, _ := p["text"].(string)
		href, _ := p["href"].(string)
		inner := fmt.Sprintf("<div class=\"wp-block-button\"><a class=\"wp-block-button__link\" href=%q>%s</a></div>",
			href, html.EscapeString(text))
		return &GutenbergBlock{
			Name:        "core/buttons",
			InnerBlocks: []*GutenbergBlock{{Name: "core/button", InnerHTML: inner}},
		}
	case recognize.TypeImage:
		src, _ := p["src"].(string)
		alt, _ := p["alt"].(string)
		inner := fmt.Sprintf("<figure class=\"wp-block-image\"><img src=%q alt=%q/></figure>", src, alt)
		return &GutenbergBlock{Name: "core/image", InnerHTML: inner}
	case recognize.TypeVideo, recognize.TypeMap, recognize.TypeEmbed:
		src, _ := p["src"].(string)
		return &GutenbergBlock{
			Name:      "core/embed",
			Attrs:     map[string]any{"url": src},
			InnerHTML: fmt.Sprintf("<figure class=\"wp-block-embed\"><div class=\"wp-block-embed__wrapper\">%s</div></figure>", html.EscapeString(src)),
		}
	case recognize.TypeList:
		items, _ := p["items"].([]string)
		ordered, _ := p["ordered"].(bool)
		tag := "ul"
		if ordered {
			tag = "ol"
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "<%s>", tag)
		for _, it := range items {
			fmt.Fprintf(&sb, "<li>%s</li>", html.EscapeString(it))
		}
		fmt.Fprintf(&sb, "</%s>", tag)
		return &GutenbergBlock{
			Name:      "core/list",
			Attrs:     map[string]any{"ordered": ordered},
			InnerHTML: sb.String(),
		}
	case recognize.TypeQuote:
		h, _ := p["html"].(string)
		return &GutenbergBlock{Name: "core/quote", InnerHTML: "<blockquote class=\"wp-block-quote\">" + h + "</blockquote>"}
	case recognize.TypeCode:
		code, _ := p["code"].(string)
		return &GutenbergBlock{Name: "core/code", InnerHTML: "<pre class=\"wp-block-code\"><code>" + html.EscapeString(code) + "</code></pre>"}
	case recognize.TypeTable:
		h, _ := p["html"].(string)
		return &GutenbergBlock{Name: "core/table", InnerHTML: "<figure class=\"wp-block-table\">" + h + "</figure>"}
	case recognize.TypeSeparator:
		return &GutenbergBlock{Name: "core/separator", InnerHTML: "<hr class=\"wp-block-separator\"/>"}
	case recognize.TypeSpacer:
		height := orAny(p["height"], 20)
		return &GutenbergBlock{
			Name:      "core/spacer",
			Attrs:     map[string]any{"height": fmt.Sprintf("%vpx", height)},
			InnerHTML: fmt.Sprintf("<div style=\"height:%vpx\" class=\"wp-block-spacer\"></div>", height),
		}
	default:
		// Gutenberg has no stock block for this type.
		return &GutenbergBlock{
			Name:      "core/html",
			InnerHTML: st.fb.htmlWidget(n, fmt.Sprintf("no gutenberg block for %s", n.Type)),
		}
	}
}

// SerializeBlocks renders blocks to WordPress post content. Core block
// names drop their namespace in the comment delimiters, matching what
// the editor itself writes.
func SerializeBlocks(blocks []*GutenbergBlock) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		serializeBlock(&sb, b)
	}
	return sb.String()
}

func serializeBlock(sb *strings.Builder, b *GutenbergBlock) {
	name := strings.TrimPrefix(b.Name, "core/")
	sb.WriteString("<!-- wp:" + name)
	if len(b.Attrs) > 0 {
		raw, err := json.Marshal(b.Attrs)
		if err == nil {
			sb.WriteString(" " + string(raw))
		}
	}
	sb.WriteString(" -->\n")
	if b.InnerHTML != "" {
		sb.WriteString(b.InnerHTML + "\n")
	}
	for _, inner := range b.InnerBlocks {
		serializeBlock(sb, inner)
	}
	sb.WriteString("<!-- /wp:" + name + " -->\n")
}

// ParseBlocks re-parses serialized post content back into a block
// tree. It understands the comment delimiters SerializeBlocks writes
// and is used to verify round-trip stability.
func ParseBlocks(content string) ([]*GutenbergBlock, error) {
	p := &blockParser{input: content}
	blocks, err := p.parseUntil("")
	if err != nil {
		return nil, fmt.Errorf("convert: parse blocks: %w", err)
	}
	return blocks, nil
}

type blockParser struct {
	input string
	pos   int
}

// parseUntil consumes blocks until the closing delimiter for the given
// name, or end of input when name is empty.
func (p *blockParser) parseUntil(name string) ([]*GutenbergBlock, error) {
	var blocks []*GutenbergBlock
	for {
		open := strings.Index(p.input[p.pos:], "<!-- ")
		if open < 0 {
			if name != "" {
				return nil, fmt.Errorf("unterminated block %q", name)
			}
			return blocks, nil
		}
		start := p.pos + open
		end := strings.Index(p.input[start:], " -->")
		if end < 0 {
			return nil, fmt.Errorf("malformed delimiter at %d", start)
		}
		comment := p.input[start+5 : start+end]
		p.pos = start + end + len(" -->")

		if strings.HasPrefix(comment, "/wp:") {
			got := strings.TrimPrefix(comment, "/wp:")
			if name == "" || got != name {
				return nil, fmt.Errorf("unexpected closer %q", got)
			}
			return blocks, nil
		}
		if !strings.HasPrefix(comment, "wp:") {
			continue
		}

		head := strings.TrimPrefix(comment, "wp:")
		blockName, attrJSON, _ := strings.Cut(head, " ")
		b := &GutenbergBlock{Name: "core/" + blockName}
		if attrJSON = strings.TrimSpace(attrJSON); attrJSON != "" {
			if err := json.Unmarshal([]byte(attrJSON), &b.Attrs); err != nil {
				return nil, fmt.Errorf("block %q attrs: %w", blockName, err)
			}
		}

		bodyStart := p.pos
		inner, err := p.parseUntil(blockName)
		if err != nil {
			return nil, err
		}
		b.InnerBlocks = inner
		if len(inner) == 0 {
			// Leaf block: everything between delimiters is its HTML.
			closer := strings.Index(p.input[bodyStart:], "<!-- /wp:"+blockName)
			if closer >= 0 {
				b.InnerHTML = strings.TrimSpace(p.input[bodyStart : bodyStart+closer])
			}
		}
		blocks = append(blocks, b)
	}
}
