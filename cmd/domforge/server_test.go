package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/domforge/convert"
)

func testServer(t *testing.T) *server {
	t.Helper()
	cfg := &fileConfig{}
	cfg.applyDefaults()
	return &server{
		pipeline: convert.NewPipeline(convert.Config{}),
		defaults: cfg.options(),
	}
}

func TestHandleConvert(t *testing.T) {
	s := testServer(t)

	body := `{"html": "<html><body><h1>Title</h1><p>Body text.</p></body></html>", "target": "gutenberg"}`
	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleConvert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Target string `json:"target"`
		Stats  struct {
			TotalNodes int `json:"total_nodes"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Target != "gutenberg" {
		t.Errorf("target = %q, want gutenberg", res.Target)
	}
	if res.Stats.TotalNodes == 0 {
		t.Error("stats report zero nodes")
	}
}

func TestHandleConvert_BadRequests(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{"html": `, http.StatusBadRequest},
		{"missing html", `{"target": "divi"}`, http.StatusBadRequest},
		{"unsupported target", `{"html": "<p>x</p>", "target": "wix"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.handleConvert(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleRuns_NoStore(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()
	s.handleRuns(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestHandleHealthz(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q, want application/json", ct)
	}
}

func TestIsSnapshot(t *testing.T) {
	tests := []struct {
		name string
		path string
		raw  string
		want bool
	}{
		{"json extension", "page.json", "<html>", true},
		{"json body", "page.dat", `  {"url": "x"}`, true},
		{"html", "page.html", "<html></html>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSnapshot(tt.path, []byte(tt.raw)); got != tt.want {
				t.Errorf("isSnapshot() = %v, want %v", got, tt.want)
			}
		})
	}
}
