package shield

import (
	"net/http"
	"strings"
)

// MaxJSONBody returns middleware that limits the request body size for
// JSON and form-encoded POST requests. Conversion payloads carry full
// page HTML, so the limit should leave headroom (4 MiB by default in
// DefaultAPIStack). Other content types are passed through.
func MaxJSONBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ct := r.Header.Get("Content-Type")
			if strings.HasPrefix(ct, "application/json") || ct == "application/x-www-form-urlencoded" {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
