package browser

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Options configures the browser Manager.
type Options struct {
	// Headless runs Chrome without a visible window.
	Headless bool

	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty means launch a local Chrome via the launcher.
	RemoteURL string

	// BlockResources lists resource types to block on every tab
	// (image, media, font).
	BlockResources []string

	// Logger receives browser lifecycle messages. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Manager owns one Chrome process and hands out tabs.
//
// Design decision: We share a single browser across all crawl workers and
// give each worker its own tab because:
//  1. A Chrome process is expensive; tabs are cheap
//  2. Tabs are isolated enough for independent page visits
//  3. One process means one thing to clean up on shutdown
type Manager struct {
	opts Options

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// NewManager creates a browser Manager. Call Start to launch Chrome.
func NewManager(opts Options) *Manager {
	opts.defaults()
	return &Manager{opts: opts}
}

// Start launches Chrome (or connects to a remote instance) and connects
// the rod client.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("browser: manager is closed")
	}
	if m.browser != nil {
		return nil
	}

	wsURL := m.opts.RemoteURL
	if wsURL == "" {
		l := launcher.New().Headless(m.opts.Headless)

		// Anti-detection flags.
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		m.opts.Logger.Debug("browser: launched local chrome", "control_url", wsURL)
	} else {
		m.opts.Logger.Debug("browser: connecting to remote", "control_url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("browser: connect: %w", err)
	}

	if err := b.IgnoreCertErrors(true); err != nil {
		m.opts.Logger.Warn("browser: ignore cert errors failed", "error", err)
	}

	m.browser = b
	return nil
}

// Browser returns the rod browser handle, or nil before Start.
func (m *Manager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser
}

// Close shuts down Chrome and releases launcher resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			m.opts.Logger.Warn("browser: close failed", "error", err)
		}
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return nil
}
