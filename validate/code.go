package validate

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockingMarkers break a static page-builder export outright.
var blockingMarkers = []string{
	"document.write",
	"window.location",
	"xmlhttprequest",
	"fetch(",
	"websocket",
}

// degradedMarkers keep rendering but lose behavior.
var degradedMarkers = []string{
	"addeventlistener",
	"queryselector",
	"jquery",
	"$(",
	"settimeout",
	"setinterval",
}

// scanCustomCode classifies scripts and inline handlers in the original
// document by how a converted, script-free export degrades without them.
func scanCustomCode(doc *goquery.Document) []Incompatibility {
	var out []Incompatibility

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			out = append(out, Incompatibility{
				Level:  classifyScriptSrc(src),
				Detail: "external script " + src,
			})
			return
		}
		body := strings.ToLower(s.Text())
		if strings.TrimSpace(body) == "" {
			return
		}
		out = append(out, Incompatibility{
			Level:   classifyScriptBody(body),
			Detail:  "inline script",
			Snippet: snippet(s.Text()),
		})
	})

	handlerAttrs := []string{"onclick", "onload", "onsubmit", "onchange", "onmouseover"}
	for _, attr := range handlerAttrs {
		doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			val, _ := s.Attr(attr)
			out = append(out, Incompatibility{
				Level:   CompatDegraded,
				Detail:  "inline " + attr + " handler",
				Snippet: snippet(val),
			})
		})
	}

	return out
}

func classifyScriptSrc(src string) Compat {
	lower := strings.ToLower(src)
	// Analytics and tag managers disappear without visual impact.
	for _, known := range []string{"analytics", "gtag", "gtm.js", "pixel", "hotjar", "segment"} {
		if strings.Contains(lower, known) {
			return CompatMinimal
		}
	}
	return CompatDegraded
}

func classifyScriptBody(lower string) Compat {
	for _, marker := range blockingMarkers {
		if strings.Contains(lower, marker) {
			return CompatBlocking
		}
	}
	for _, marker := range degradedMarkers {
		if strings.Contains(lower, marker) {
			return CompatDegraded
		}
	}
	return CompatMinimal
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:120] + "…"
	}
	return s
}
