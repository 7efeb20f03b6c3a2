package convert

import (
	"context"
	"fmt"

	"github.com/hazyhaar/domforge/analyze"
	"github.com/hazyhaar/domforge/hierarchy"
	"github.com/hazyhaar/domforge/recognize"
	"github.com/hazyhaar/domforge/typography"
)

// Pipeline wires the full conversion chain: analyze, recognize, build
// the hierarchy, extract typography, convert. One Pipeline is safe for
// concurrent use.
type Pipeline struct {
	analyzer   *analyze.Analyzer
	recognizer *recognize.Recognizer
	builder    *hierarchy.Builder
	engine     *Engine
}

// NewPipeline builds a Pipeline from the engine config, using default
// analyzer, recognizer, and builder configurations.
func NewPipeline(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		analyzer:   analyze.New(analyze.Config{Logger: cfg.Logger}),
		recognizer: recognize.New(recognize.Config{Logger: cfg.Logger}),
		builder:    hierarchy.New(hierarchy.Config{Logger: cfg.Logger}),
		engine:     New(cfg),
	}
}

// ConvertHTML runs the full chain on raw HTML.
func (p *Pipeline) ConvertHTML(ctx context.Context, raw []byte, opts Options) (*Result, error) {
	root, err := p.analyzer.AnalyzeHTML(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("convert: analyze: %w", err)
	}
	return p.convertElement(ctx, root, opts)
}

// ConvertSnapshot runs the chain on a captured page snapshot, which
// carries computed styles and geometry the raw-HTML path lacks.
func (p *Pipeline) ConvertSnapshot(ctx context.Context, raw []byte, opts Options) (*Result, error) {
	snap, err := analyze.ParseSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("convert: snapshot: %w", err)
	}
	root, err := p.analyzer.AnalyzeSnapshot(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("convert: analyze snapshot: %w", err)
	}
	return p.convertElement(ctx, root, opts)
}

func (p *Pipeline) convertElement(ctx context.Context, root *analyze.Element, opts Options) (*Result, error) {
	rec := p.recognizer.RecognizeTree(root, opts.MinConfidence)
	tree, err := p.builder.Build(rec)
	if err != nil {
		return nil, fmt.Errorf("convert: hierarchy: %w", err)
	}
	typo := typography.Extract(root)
	return p.engine.Convert(ctx, tree, typo, opts)
}

// Recognize classifies raw HTML without converting, for inspection.
func (p *Pipeline) Recognize(ctx context.Context, raw []byte, minConfidence int) (*recognize.Recognized, error) {
	root, err := p.analyzer.AnalyzeHTML(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("convert: analyze: %w", err)
	}
	return p.recognizer.RecognizeTree(root, minConfidence), nil
}
