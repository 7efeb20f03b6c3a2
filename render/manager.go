// Package render captures screenshots and DOM snapshots of pages with
// a managed headless Chrome, implementing the renderer the validation
// layer expects.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// RecycleInterval is the maximum lifetime of a Chrome process
	// before it is restarted. Default: 4h.
	RecycleInterval time.Duration

	// NavigateTimeout bounds page navigation. Default: 30s.
	NavigateTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.RecycleInterval <= 0 {
		c.RecycleInterval = 4 * time.Hour
	}
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager owns the Chrome process behind a Renderer.
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	startAt time.Time
	closed  bool
}

// NewManager creates a Manager. Call Start before rendering.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Start launches Chrome, or connects to the configured remote
// instance, and begins the recycle monitor.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("render: manager is closed")
	}

	b, err := m.launch()
	if err != nil {
		return err
	}
	m.browser = b
	m.startAt = time.Now()

	go m.monitorLoop(ctx)
	return nil
}

// Browser returns the current Rod handle. Thread-safe.
func (m *Manager) Browser() *rod.Browser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser
}

// Close shuts down Chrome.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.cleanup()
}

func (m *Manager) launch() (*rod.Browser, error) {
	log := m.cfg.Logger
	var wsURL string

	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("render: connecting to remote chrome", "url", wsURL)
	} else {
		l := launcher.New().Headless(true)
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("render: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("render: launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("render: connect: %w", err)
	}
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("render: ignore cert errors failed", "error", err)
	}
	return b, nil
}

func (m *Manager) cleanup() error {
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return nil
}

func (m *Manager) monitorLoop(ctx context.Context) {
	log := m.cfg.Logger
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.RLock()
			closed, startAt := m.closed, m.startAt
			m.mu.RUnlock()
			if closed {
				return
			}
			if time.Since(startAt) < m.cfg.RecycleInterval {
				continue
			}

			log.Info("render: recycle interval reached", "uptime", time.Since(startAt))
			m.mu.Lock()
			if m.closed {
				m.mu.Unlock()
				return
			}
			if err := m.cleanup(); err != nil {
				log.Warn("render: cleanup during recycle", "error", err)
			}
			b, err := m.launch()
			if err != nil {
				m.mu.Unlock()
				log.Error("render: relaunch failed", "error", err)
				return
			}
			m.browser = b
			m.startAt = time.Now()
			m.mu.Unlock()
		}
	}
}
