// Package recognize classifies analyzed DOM elements into builder-neutral
// component types.
//
// Classification runs a static, priority-ordered rule table: the first
// pattern whose declared predicates all hold wins and its confidence is
// returned verbatim. Elements nothing matches degrade to TypeUnknown with
// a manual-review flag instead of failing — every element always produces
// exactly one Result.
//
// Usage:
//
//	r := recognize.New(recognize.Config{})
//	res := r.Recognize(el, 70)
package recognize

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/hazyhaar/domforge/analyze"
)

// Config configures the Recognizer.
type Config struct {
	// Rules overrides the shipped pattern table. Default: DefaultRuleset().
	Rules []Pattern

	// Logger for debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Rules == nil {
		c.Rules = DefaultRuleset()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Recognizer classifies elements against a fixed ruleset.
type Recognizer struct {
	rules  []Pattern
	logger *slog.Logger
}

// New creates a Recognizer. The rule table is sorted by descending
// priority once here; ties keep declaration order (stable sort), which
// makes recognition fully deterministic.
func New(cfg Config) *Recognizer {
	cfg.defaults()
	rules := make([]Pattern, len(cfg.Rules))
	copy(rules, cfg.Rules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority > rules[j].Priority })
	return &Recognizer{rules: rules, logger: cfg.Logger}
}

// Recognize classifies one element. minConfidence comes from the caller's
// conversion options: a winning pattern below it keeps its nominal type
// but gets FallbackType set so converters can take the safe path.
// Pure function of the element and the static rules; never errors.
func (r *Recognizer) Recognize(el *analyze.Element, minConfidence int) Result {
	for i := range r.rules {
		p := &r.rules[i]
		if !p.Matches(el) {
			continue
		}
		res := Result{
			Type:            p.Type,
			Confidence:      p.Confidence,
			MatchedPatterns: []string{p.ID},
			Reason:          fmt.Sprintf("matched pattern %s (priority %d)", p.ID, p.Priority),
		}
		if p.Confidence < minConfidence {
			res.FallbackType = TypeUnknown
			res.Reason += fmt.Sprintf("; confidence %d below threshold %d", p.Confidence, minConfidence)
		}
		return res
	}
	return Result{
		Type:         TypeUnknown,
		Confidence:   0,
		ManualReview: true,
		Reason:       fmt.Sprintf("no pattern matched <%s>", el.Tag),
	}
}

// Recognized pairs an element with its recognition result, preserving
// the DOM nesting for the hierarchy builder.
type Recognized struct {
	Element  *analyze.Element `json:"-"`
	Result   Result           `json:"result"`
	Children []*Recognized    `json:"children,omitempty"`
}

// Walk visits the recognized node and all descendants in document order.
func (rc *Recognized) Walk(fn func(*Recognized)) {
	fn(rc)
	for _, c := range rc.Children {
		c.Walk(fn)
	}
}

// RecognizeTree classifies a whole analyzed tree, one Result per element.
func (r *Recognizer) RecognizeTree(root *analyze.Element, minConfidence int) *Recognized {
	if root == nil {
		return nil
	}
	node := &Recognized{
		Element: root,
		Result:  r.Recognize(root, minConfidence),
	}
	for _, c := range root.Children {
		node.Children = append(node.Children, r.RecognizeTree(c, minConfidence))
	}
	return node
}
