package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Config configures a Validator.
type Config struct {
	// Renderer captures pages. Required for the pixel comparison pass;
	// without one, Validate still runs the DOM and code passes.
	Renderer Renderer

	// Workers bounds concurrent viewport renders. Default 3.
	Workers int

	// AssetTimeout is the per-request budget of the reachability pass.
	// Default 5s.
	AssetTimeout time.Duration

	// HTTPClient for asset checks. Default: http.DefaultClient.
	HTTPClient *http.Client

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = 3
	}
	if c.AssetTimeout <= 0 {
		c.AssetTimeout = 5 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Validator runs conversion validation passes.
type Validator struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Validator.
func New(cfg Config) *Validator {
	cfg.defaults()
	return &Validator{cfg: cfg, logger: cfg.Logger}
}

// Validate compares the original page against its converted rendition.
// A timeout in any pass degrades to a warning with RequiresOverride
// set; only a nil input is fatal.
func (v *Validator) Validate(ctx context.Context, original, converted string, opts Options) (*Result, error) {
	if original == "" || converted == "" {
		return nil, fmt.Errorf("validate: both original and converted documents are required")
	}
	if len(opts.Viewports) == 0 {
		opts.Viewports = DefaultViewports()
	}

	res := &Result{State: StateValidating}

	if v.cfg.Renderer != nil {
		res.Viewports = v.compareViewports(ctx, original, converted, opts.Viewports)
		for _, vr := range res.Viewports {
			if vr.Error != "" {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", vr.Viewport.Name, vr.Error))
				res.RequiresOverride = true
			}
		}
	}

	origDoc, err := goquery.NewDocumentFromReader(strings.NewReader(original))
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("validate: parse original: %w", err)
	}
	convDoc, err := goquery.NewDocumentFromReader(strings.NewReader(converted))
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("validate: parse converted: %w", err)
	}

	res.Selectors = selectorDiff(origDoc, convDoc)
	res.StyleIssues = styleDiff(origDoc, convDoc)

	if opts.ScanCode {
		res.Incompatibles = scanCustomCode(origDoc)
	}
	if opts.CheckAssets {
		res.Assets = v.checkAssets(ctx, origDoc)
		if ctx.Err() != nil {
			res.Warnings = append(res.Warnings, "asset check interrupted: "+ctx.Err().Error())
			res.RequiresOverride = true
		}
	}

	res.CanExport = canExport(res)
	res.State = StateDone

	v.logger.Debug("validate: complete",
		"viewports", len(res.Viewports),
		"missing", len(res.Selectors.Missing),
		"style_issues", len(res.StyleIssues),
		"can_export", res.CanExport)

	return res, nil
}

// canExport holds when nothing blocking remains: no blocking custom
// code and no major style discrepancy.
func canExport(res *Result) bool {
	for _, inc := range res.Incompatibles {
		if inc.Level == CompatBlocking {
			return false
		}
	}
	for _, si := range res.StyleIssues {
		if si.Severity == SeverityMajor {
			return false
		}
	}
	return true
}

// compareViewports renders both documents at every viewport with a
// bounded worker pool and joins all comparisons before returning.
func (v *Validator) compareViewports(ctx context.Context, original, converted string, vps []Viewport) []ViewportResult {
	results := make([]ViewportResult, len(vps))
	sem := make(chan struct{}, v.cfg.Workers)
	var wg sync.WaitGroup

	for i, vp := range vps {
		wg.Add(1)
		go func(i int, vp Viewport) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = v.compareOne(ctx, original, converted, vp)
		}(i, vp)
	}
	wg.Wait()
	return results
}

func (v *Validator) compareOne(ctx context.Context, original, converted string, vp Viewport) ViewportResult {
	out := ViewportResult{Viewport: vp}

	origCap, err := v.cfg.Renderer.Render(ctx, original, vp)
	if err != nil {
		out.Error = renderError("original", err)
		return out
	}
	convCap, err := v.cfg.Renderer.Render(ctx, converted, vp)
	if err != nil {
		out.Error = renderError("converted", err)
		return out
	}

	sim, diff, err := comparePNG(origCap.PNG, convCap.PNG)
	if err != nil {
		out.Error = "compare: " + err.Error()
		return out
	}
	out.Similarity = sim
	out.DiffPct = diff
	return out
}

func renderError(side string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return side + " render timed out"
	}
	return side + " render: " + err.Error()
}

// structural selectors worth diffing; class soup is deliberately not
// compared element by element.
var diffSelectors = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "img", "a", "button", "ul", "ol", "table",
	"form", "input", "textarea", "select",
	"video", "iframe", "blockquote", "nav",
}

func selectorDiff(orig, conv *goquery.Document) SelectorDiff {
	var d SelectorDiff
	for _, sel := range diffSelectors {
		o := orig.Find(sel).Length()
		c := conv.Find(sel).Length()
		switch {
		case o > c:
			d.Missing = append(d.Missing, fmt.Sprintf("%s (%d of %d)", sel, c, o))
		case c > o:
			d.Extra = append(d.Extra, fmt.Sprintf("%s (+%d)", sel, c-o))
		}
	}
	return d
}

// styleProperties ranks inline style properties by how visible their
// loss is.
var styleSeverity = map[string]Severity{
	"display":          SeverityMajor,
	"position":         SeverityMajor,
	"background-image": SeverityMajor,
	"color":            SeverityModerate,
	"background-color": SeverityModerate,
	"font-size":        SeverityModerate,
	"font-family":      SeverityModerate,
	"text-align":       SeverityModerate,
	"margin":           SeverityMinor,
	"padding":          SeverityMinor,
	"border-radius":    SeverityMinor,
	"line-height":      SeverityMinor,
}

// styleDiff compares inline styles on shared id-addressable elements.
func styleDiff(orig, conv *goquery.Document) []StyleDiscrepancy {
	var issues []StyleDiscrepancy

	orig.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if id == "" {
			return
		}
		counterpart := conv.Find("#" + id)
		if counterpart.Length() == 0 {
			return
		}

		origStyles := parseInlineStyle(s.AttrOr("style", ""))
		convStyles := parseInlineStyle(counterpart.AttrOr("style", ""))
		props := make([]string, 0, len(origStyles))
		for prop := range origStyles {
			props = append(props, prop)
		}
		sort.Strings(props)
		for _, prop := range props {
			ov := origStyles[prop]
			cv := convStyles[prop]
			if ov == cv {
				continue
			}
			sev, ok := styleSeverity[prop]
			if !ok {
				sev = SeverityMinor
			}
			issues = append(issues, StyleDiscrepancy{
				Selector:  "#" + id,
				Property:  prop,
				Original:  ov,
				Converted: cv,
				Severity:  sev,
			})
		}
	})
	return issues
}

func parseInlineStyle(style string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop != "" {
			out[prop] = strings.TrimSpace(val)
		}
	}
	return out
}
