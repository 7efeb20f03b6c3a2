package validate

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

type assetRef struct {
	url string
	typ string
}

// checkAssets probes every absolute asset reference in the document.
// Relative URLs cannot be resolved without a base and are reported as
// missing. Concurrency is bounded by the worker setting; each request
// carries its own timeout so one dead host cannot stall the pass.
func (v *Validator) checkAssets(ctx context.Context, doc *goquery.Document) []AssetCheck {
	refs := collectAssets(doc)
	if len(refs) == 0 {
		return nil
	}

	out := make([]AssetCheck, len(refs))
	sem := make(chan struct{}, v.cfg.Workers)
	var wg sync.WaitGroup

	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref assetRef) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			out[i] = AssetCheck{
				URL:    ref.url,
				Type:   ref.typ,
				Status: v.probe(ctx, ref.url),
			}
		}(i, ref)
	}
	wg.Wait()
	return out
}

func (v *Validator) probe(ctx context.Context, url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "missing"
	}

	reqCtx, cancel := context.WithTimeout(ctx, v.cfg.AssetTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, url, nil)
	if err != nil {
		return "broken"
	}
	resp, err := v.cfg.HTTPClient.Do(req)
	if err != nil {
		return "broken"
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return "ok"
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "missing"
	default:
		return "broken"
	}
}

func collectAssets(doc *goquery.Document) []assetRef {
	var refs []assetRef
	seen := map[string]bool{}
	add := func(url, typ string) {
		if url == "" || strings.HasPrefix(url, "data:") || seen[url] {
			return
		}
		seen[url] = true
		refs = append(refs, assetRef{url: url, typ: typ})
	}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("src", ""), "image")
	})
	doc.Find("link[rel='stylesheet'][href]").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("href", ""), "stylesheet")
	})
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("src", ""), "script")
	})
	doc.Find("video[src], source[src], audio[src]").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("src", ""), "media")
	})
	doc.Find("link[rel='preload'][as='font'][href]").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("href", ""), "font")
	})
	return refs
}
