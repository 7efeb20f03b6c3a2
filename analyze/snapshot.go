package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Snapshot is a serialized DOM photo with resolved computed styles,
// produced by the upstream cloning stage. The raw computed values are
// the immutable input; the analyzer normalizes them into Element records.
type Snapshot struct {
	PageURL    string        `json:"page_url"`
	CapturedAt int64         `json:"captured_at"` // epoch milliseconds
	Root       *SnapshotNode `json:"root"`
}

// SnapshotNode is one DOM node in a Snapshot.
type SnapshotNode struct {
	Tag        string                       `json:"tag"`
	Attrs      map[string]string            `json:"attrs,omitempty"`
	Text       string                       `json:"text,omitempty"`
	Computed   map[string]string            `json:"computed,omitempty"`
	Responsive map[string]map[string]string `json:"responsive,omitempty"`
	States     map[string]map[string]string `json:"states,omitempty"`
	Rect       Rect                         `json:"rect"`
	Children   []*SnapshotNode              `json:"children,omitempty"`
}

// ParseSnapshot decodes a Snapshot from JSON.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("analyze: decode snapshot: %w", err)
	}
	return &snap, nil
}

// AnalyzeSnapshot converts a Snapshot into the Element tree.
func (a *Analyzer) AnalyzeSnapshot(ctx context.Context, snap *Snapshot) (*Element, error) {
	if snap == nil || snap.Root == nil {
		return nil, ErrNilRoot
	}
	el := a.walkSnapshot(snap.Root, Context{}, 0)
	if el == nil {
		return nil, ErrNilRoot
	}
	a.logger.Debug("analyze: snapshot complete", "url", snap.PageURL, "elements", el.Count())
	return el, nil
}

func (a *Analyzer) walkSnapshot(n *SnapshotNode, parent Context, depth int) *Element {
	if n == nil || depth > a.cfg.MaxDepth {
		return nil
	}
	tag := strings.ToLower(n.Tag)
	if tag == "script" || tag == "style" || tag == "head" || tag == "noscript" {
		return nil
	}

	el := &Element{
		Tag:     tag,
		Attrs:   n.Attrs,
		Text:    strings.TrimSpace(n.Text),
		Styles:  normalizeStyles(n.Computed),
		Rect:    n.Rect,
		Context: parent,
	}
	el.Context.Depth = depth
	if el.Attrs == nil {
		el.Attrs = map[string]string{}
	}
	el.ID = el.Attrs["id"]
	el.Classes = strings.Fields(el.Attrs["class"])

	if len(n.Responsive) > 0 {
		el.Responsive = make(map[Breakpoint]Styles, len(n.Responsive))
		for bp, props := range n.Responsive {
			el.Responsive[Breakpoint(bp)] = normalizeStyles(props)
		}
	}
	if len(n.States) > 0 {
		el.States = make(map[State]Styles, len(n.States))
		for st, props := range n.States {
			el.States[State(st)] = normalizeStyles(props)
		}
	}

	childCtx := a.childContext(el)
	var siblingTags []string
	for _, c := range n.Children {
		if child := a.walkSnapshot(c, childCtx, depth+1); child != nil {
			el.Children = append(el.Children, child)
			siblingTags = append(siblingTags, child.Tag)
		}
	}
	for _, child := range el.Children {
		child.Context.SiblingTags = siblingTags
	}

	return el
}
