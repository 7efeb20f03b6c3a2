package render

import (
	"context"
	"testing"

	"github.com/hazyhaar/domforge/validate"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/page", true},
		{"<html><body></body></html>", false},
		{"file:///tmp/x.html", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isURL(tt.src); got != tt.want {
			t.Errorf("isURL(%q): got %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestRender_NoBrowser(t *testing.T) {
	r := NewRenderer(NewManager(Config{}))
	_, err := r.Render(context.Background(), "<html></html>", validate.Viewport{Name: "desktop", Width: 1440, Height: 900})
	if err == nil {
		t.Fatal("expected error without a started browser")
	}
}

func TestManager_CloseBeforeStart(t *testing.T) {
	m := NewManager(Config{})
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := m.Start(context.Background()); err == nil {
		t.Fatal("start after close should fail")
	}
}
