// Package convert translates the builder-neutral component hierarchy
// into the native schema of a target page builder.
//
// Supported targets:
//   - elementor — nested section/column/widget JSON with responsive
//     suffixes and global-token references
//   - gutenberg — HTML-comment-delimited block markup
//   - beaver    — flat node map keyed by id plus a nodeOrder list
//   - divi      — shortcode tree
//   - bricks    — flat id/parent node list
//   - oxygen    — nested ct_ component JSON
//
// Conversion is pure and idempotent: no I/O, no shared mutable state,
// deterministic output for a fixed id sequence. Nodes that cannot be
// represented natively degrade to an HTML passthrough widget and are
// recorded as fallback strategies — no node is ever dropped.
//
// Usage:
//
//	eng := convert.New(convert.Config{})
//	res, err := eng.Convert(ctx, root, typo, convert.Options{Target: convert.TargetGutenberg})
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/domforge/hierarchy"
	"github.com/hazyhaar/domforge/idgen"
	"github.com/hazyhaar/domforge/recognize"
	"github.com/hazyhaar/domforge/typography"
	"github.com/hazyhaar/domforge/validate"
)

// Target identifies a page-builder output schema.
type Target string

const (
	TargetElementor Target = "elementor"
	TargetGutenberg Target = "gutenberg"
	TargetBeaver    Target = "beaver"
	TargetDivi      Target = "divi"
	TargetBricks    Target = "bricks"
	TargetOxygen    Target = "oxygen"
)

// Targets returns all supported target tags.
func Targets() []Target {
	return []Target{
		TargetElementor, TargetGutenberg, TargetBeaver,
		TargetDivi, TargetBricks, TargetOxygen,
	}
}

// Options control one conversion run.
type Options struct {
	Target            Target `json:"target" yaml:"target"`
	PreserveCustomCSS bool   `json:"preserve_custom_css" yaml:"preserve_custom_css"`
	IncludeResponsive bool   `json:"include_responsive" yaml:"include_responsive"`
	IncludeAnimations bool   `json:"include_animations" yaml:"include_animations"`
	OptimizeAssets    bool   `json:"optimize_assets" yaml:"optimize_assets"`
	MinConfidence     int    `json:"min_confidence" yaml:"min_confidence"` // 0-100
	FallbackToHTML    bool   `json:"fallback_to_html" yaml:"fallback_to_html"`
}

// Stats summarize a conversion run.
type Stats struct {
	TotalNodes    int           `json:"total_nodes"`
	NativeWidgets int           `json:"native_widgets"`
	HTMLFallbacks int           `json:"html_fallbacks"`
	ManualReview  int           `json:"manual_review"`
	AvgConfidence float64       `json:"avg_confidence"`
	Duration      time.Duration `json:"duration_ns"`
}

// Component summarizes one converted widget for the caller.
type Component struct {
	Type         recognize.ComponentType `json:"type"`
	Confidence   int                     `json:"confidence"`
	ManualReview bool                    `json:"manual_review,omitempty"`
}

// Result is the immutable outcome of one (page, target) conversion.
type Result struct {
	Target     Target             `json:"target"`
	ExportData any                `json:"export_data"`
	Components []Component        `json:"components"`
	Hierarchy  *hierarchy.Node    `json:"hierarchy"`
	Fallbacks  []Fallback         `json:"fallbacks,omitempty"`
	Validation *validate.Result   `json:"validation,omitempty"`
	Stats      Stats              `json:"stats"`
}

// Config configures the Engine.
type Config struct {
	// NewID produces node ids. Default: a fresh sequential generator
	// per conversion, which keeps output deterministic.
	NewID func() func() string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NewID == nil {
		c.NewID = func() func() string { return idgen.Sequential("node") }
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Engine converts hierarchies into target schemas.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	cfg.defaults()
	return &Engine{cfg: cfg, logger: cfg.Logger}
}

// Convert walks the hierarchy pre-order and emits the target's native
// schema. Every hierarchy node lands in exactly one native node or one
// fallback entry.
func (e *Engine) Convert(ctx context.Context, root *hierarchy.Node, typo *typography.System, opts Options) (*Result, error) {
	if root == nil {
		return nil, fmt.Errorf("convert: nil hierarchy root")
	}
	if typo == nil {
		typo = &typography.System{}
	}

	start := time.Now()
	fb := newFallbackRecorder(opts)
	st := state{
		typo:   typo,
		opts:   opts,
		fb:     fb,
		nextID: e.cfg.NewID(),
	}

	var export any
	var err error
	switch opts.Target {
	case TargetElementor:
		export, err = convertElementor(&st, root)
	case TargetGutenberg:
		export, err = convertGutenberg(&st, root)
	case TargetBeaver:
		export, err = convertBeaver(&st, root)
	case TargetDivi:
		export, err = convertDivi(&st, root)
	case TargetBricks:
		export, err = convertBricks(&st, root)
	case TargetOxygen:
		export, err = convertOxygen(&st, root)
	default:
		return nil, fmt.Errorf("convert: unsupported target: %q", opts.Target)
	}
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", opts.Target, err)
	}

	if opts.PreserveCustomCSS {
		st.customCSS(root)
	}

	res := &Result{
		Target:     opts.Target,
		ExportData: export,
		Hierarchy:  root,
		Fallbacks:  fb.entries,
	}
	res.Components, res.Stats = summarize(root, fb)
	res.Stats.Duration = time.Since(start)

	e.logger.Debug("convert: complete",
		"target", opts.Target,
		"nodes", res.Stats.TotalNodes,
		"native", res.Stats.NativeWidgets,
		"fallbacks", res.Stats.HTMLFallbacks)

	return res, nil
}

// state carries the per-conversion context handed to target walkers.
type state struct {
	typo   *typography.System
	opts   Options
	fb     *fallbackRecorder
	nextID func() string
}

// needsFallback implements the shared degradation rule: unknown types,
// below-threshold recognitions, and recognizer-flagged fallbacks all
// take the HTML passthrough path.
func (st *state) needsFallback(n *hierarchy.Node) bool {
	if n.Kind != hierarchy.KindWidget {
		return false
	}
	return n.Type == recognize.TypeUnknown ||
		n.FallbackType == recognize.TypeUnknown ||
		n.Confidence < st.opts.MinConfidence
}

func summarize(root *hierarchy.Node, fb *fallbackRecorder) ([]Component, Stats) {
	var comps []Component
	var st Stats
	var confSum int

	root.Walk(func(n *hierarchy.Node) {
		st.TotalNodes++
		if n.ManualReview {
			st.ManualReview++
		}
		if n.Kind == hierarchy.KindWidget {
			comps = append(comps, Component{
				Type:         n.Type,
				Confidence:   n.Confidence,
				ManualReview: n.ManualReview,
			})
			confSum += n.Confidence
		}
	})

	st.HTMLFallbacks = fb.degradedCount()
	st.NativeWidgets = len(comps) - st.HTMLFallbacks
	if len(comps) > 0 {
		st.AvgConfidence = float64(confSum) / float64(len(comps))
	}
	return comps, st
}
