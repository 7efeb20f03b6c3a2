package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/domforge/validate"
)

// Renderer captures pages through a Manager's browser. It implements
// validate.Renderer: URLs get a stealth page so origin sites behave as
// they would for a human visitor; inline HTML gets a plain page since
// there is nothing to hide from.
type Renderer struct {
	mgr *Manager
}

// NewRenderer wraps a started Manager.
func NewRenderer(mgr *Manager) *Renderer {
	return &Renderer{mgr: mgr}
}

var _ validate.Renderer = (*Renderer)(nil)

// Render navigates to src (URL or inline HTML document), applies the
// viewport, and returns a screenshot plus the serialized DOM.
func (r *Renderer) Render(ctx context.Context, src string, vp validate.Viewport) (validate.Capture, error) {
	b := r.mgr.Browser()
	if b == nil {
		return validate.Capture{}, fmt.Errorf("render: no active browser")
	}

	page, err := r.openPage(b, src)
	if err != nil {
		return validate.Capture{}, err
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, r.mgr.cfg.NavigateTimeout)
	defer cancel()
	page = page.Context(navCtx)

	if err := setViewport(page, vp); err != nil {
		return validate.Capture{}, fmt.Errorf("render: viewport: %w", err)
	}
	if err := loadContent(page, src); err != nil {
		return validate.Capture{}, err
	}
	if err := page.WaitLoad(); err != nil {
		r.mgr.cfg.Logger.Warn("render: wait load timeout", "viewport", vp.Name, "error", err)
	}

	png, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return validate.Capture{}, fmt.Errorf("render: screenshot: %w", err)
	}

	res, err := page.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return validate.Capture{}, fmt.Errorf("render: serialize DOM: %w", err)
	}

	return validate.Capture{PNG: png, DOM: res.Value.Str()}, nil
}

func (r *Renderer) openPage(b *rod.Browser, src string) (*rod.Page, error) {
	if isURL(src) {
		page, err := stealth.Page(b)
		if err != nil {
			return nil, fmt.Errorf("render: stealth page: %w", err)
		}
		return page, nil
	}
	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("render: create page: %w", err)
	}
	return page, nil
}

func loadContent(page *rod.Page, src string) error {
	if isURL(src) {
		if err := page.Navigate(src); err != nil {
			return fmt.Errorf("render: navigate %s: %w", src, err)
		}
		return nil
	}
	if err := (proto.PageSetDocumentContent{
		FrameID: page.FrameID,
		HTML:    src,
	}).Call(page); err != nil {
		return fmt.Errorf("render: set content: %w", err)
	}
	return nil
}

func setViewport(page *rod.Page, vp validate.Viewport) error {
	return page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
		Mobile:            vp.Width < 600,
	})
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
