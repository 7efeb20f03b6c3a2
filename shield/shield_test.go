package shield

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Init(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy not set")
	}
}

func TestTraceID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetLogger(r.Context()) == nil {
			t.Error("no logger in context")
		}
		seen = w.Header().Get("X-Trace-ID")
	})
	rec := httptest.NewRecorder()
	TraceID(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/convert", nil))

	if seen == "" {
		t.Fatal("X-Trace-ID header not set")
	}
	if len(seen) != 8 {
		t.Errorf("trace id %q, want 8 hex chars", seen)
	}
}

func TestHeadToGet(t *testing.T) {
	var method string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	})
	rec := httptest.NewRecorder()
	HeadToGet(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/healthz", nil))

	if method != http.MethodGet {
		t.Errorf("method = %q, want GET", method)
	}
}

func TestMaxJSONBody(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		if _, err := r.Body.Read(buf); err != nil && !strings.Contains(err.Error(), "EOF") {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	h := MaxJSONBody(16)(inner)

	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(strings.Repeat("x", 64)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized JSON body: status %d, want 413", rec.Code)
	}

	// Non-JSON bodies pass through untouched.
	req = httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(strings.Repeat("x", 64)))
	req.Header.Set("Content-Type", "text/html")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("html body: status %d, want 200", rec.Code)
	}
}

func TestRateLimiter_Blocks(t *testing.T) {
	db := setupDB(t)
	if _, err := db.Exec(`INSERT INTO rate_limits (endpoint, max_requests, window_seconds, enabled) VALUES ('POST /convert', 2, 60, 1)`); err != nil {
		t.Fatal(err)
	}

	rl := NewRateLimiter(db)
	h := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/convert", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/convert", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After not set on blocked request")
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	db := setupDB(t)
	if _, err := db.Exec(`INSERT INTO rate_limits (endpoint, max_requests, window_seconds, enabled) VALUES ('POST /convert', 1, 60, 1)`); err != nil {
		t.Fatal(err)
	}

	rl := NewRateLimiter(db)
	h := rl.Middleware(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/convert", nil)
		req.RemoteAddr = addr
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("ip %s first request: status %d, want 200", addr, rec.Code)
		}
	}
}

func TestRateLimiter_ExcludedPrefix(t *testing.T) {
	db := setupDB(t)
	if _, err := db.Exec(`INSERT INTO rate_limits (endpoint, max_requests, window_seconds, enabled) VALUES ('GET /healthz', 1, 60, 1)`); err != nil {
		t.Fatal(err)
	}

	rl := NewRateLimiter(db, "/healthz")
	h := rl.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:1"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("excluded path blocked on request %d", i+1)
		}
	}
}

func TestRateLimiter_DisabledRule(t *testing.T) {
	db := setupDB(t)
	if _, err := db.Exec(`INSERT INTO rate_limits (endpoint, max_requests, window_seconds, enabled) VALUES ('POST /convert', 1, 60, 0)`); err != nil {
		t.Fatal(err)
	}

	rl := NewRateLimiter(db)
	h := rl.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/convert", nil)
		req.RemoteAddr = "10.0.0.1:1"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled rule blocked on request %d", i+1)
		}
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name string
		xff  string
		addr string
		want string
	}{
		{"remote addr", "", "192.168.1.5:9000", "192.168.1.5"},
		{"single forwarded", "203.0.113.7", "10.0.0.1:80", "203.0.113.7"},
		{"forwarded chain", "203.0.113.7, 70.41.3.18", "10.0.0.1:80", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.addr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := ExtractIP(req); got != tt.want {
				t.Errorf("ExtractIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultAPIStack(t *testing.T) {
	stack, rl := DefaultAPIStack(nil)
	if rl != nil {
		t.Error("rate limiter created without a database")
	}
	if len(stack) != 4 {
		t.Errorf("stack size = %d, want 4", len(stack))
	}

	stack, rl = DefaultAPIStack(setupDB(t))
	if rl == nil {
		t.Error("rate limiter missing with a database")
	}
	if len(stack) != 5 {
		t.Errorf("stack size = %d, want 5", len(stack))
	}
}
