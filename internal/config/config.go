package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen for a quick, bounded exploration of a typical
// single-page or small multi-page site.
const (
	// DefaultMaxDepth of 1 means the seed plus the pages it links to.
	// UI-state discovery is the focus, not deep site crawling, so a
	// shallow default keeps runs short. Larger sites can raise it via
	// the --depth CLI flag.
	DefaultMaxDepth = 1

	// DefaultMaxPages caps the total visited pages per run.
	// This prevents runaway crawling on large or infinitely-generating
	// sites. Users can override this via the --max-pages CLI flag.
	DefaultMaxPages = 50

	// DefaultConcurrency of 3 concurrent browser tabs balances throughput
	// with browser resource usage. Each tab costs a renderer process, so
	// high values degrade the whole browser rather than just the crawl.
	DefaultConcurrency = 3

	// MaxConcurrency is the hard upper bound on concurrent tabs.
	MaxConcurrency = 10

	// DefaultTransitionsPerPage caps how many candidate triggers are
	// probed on each page. Probing is the expensive part of a visit
	// (each trigger costs a click plus a settle wait), so the cap bounds
	// per-page time directly.
	DefaultTransitionsPerPage = 12

	// MaxTransitionsPerPage is the hard upper bound on probed triggers.
	MaxTransitionsPerPage = 50

	// DefaultNavTimeout bounds a single page navigation. Modern sites
	// with heavy scripts can take a while to reach load; 20 seconds
	// covers most of them without stalling the crawl on dead links.
	DefaultNavTimeout = 20 * time.Second

	// DefaultQuietWindow is how long the DOM must stay mutation-free
	// after an interaction before the probe reads the result. 300ms
	// absorbs CSS transitions and staggered menu rendering.
	DefaultQuietWindow = 300 * time.Millisecond

	// DefaultCrawlDelay is the pause between page-visit layers.
	// This is a politeness setting to avoid hammering the target site.
	DefaultCrawlDelay = 500 * time.Millisecond

	// AppName is the application name used for XDG directory paths.
	AppName = "uiatlas"
)

// Config holds all configuration options for a crawl run.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., BrowserConfig, ProbeConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Seeds is the list of start URLs. Must contain at least one
	// absolute http or https URL.
	Seeds []string

	// MaxDepth is the maximum BFS distance from a seed. Depth 0 means
	// only the seeds themselves are visited.
	MaxDepth int

	// MaxPages is the total page budget across all seeds and depths.
	MaxPages int

	// Concurrency is the number of pages visited in parallel, each in
	// its own browser tab. Clamped to [1, MaxConcurrency].
	Concurrency int

	// TransitionsPerPage caps the number of triggers probed on each
	// page. Clamped to [0, MaxTransitionsPerPage]; zero disables
	// transition probing entirely.
	TransitionsPerPage int

	// NavTimeout bounds a single navigation. A page that exceeds it is
	// still recorded with whatever was extracted before the deadline.
	NavTimeout time.Duration

	// QuietWindow is the mutation-free interval the probe waits for
	// after an interaction before diffing labels.
	QuietWindow time.Duration

	// CrawlDelay is the pause inserted between BFS layers.
	CrawlDelay time.Duration

	// Headless runs the browser without a visible window. Disable for
	// debugging a crawl interactively.
	Headless bool

	// BlockResources skips image, media, and font requests to speed up
	// page loads. Label extraction only needs the DOM.
	BlockResources bool

	// Screenshots enables a full-page screenshot per visited page,
	// written under OutputDir.
	Screenshots bool

	// OutputDir is where exports (JSONL, DOT, screenshots, summary)
	// are written. Defaults to the current directory.
	OutputDir string

	// MarkdownSummary enables a human-readable crawl summary next to
	// the machine-readable exports.
	MarkdownSummary bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .uiatlas in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. Populated by LoadConfigFile and consulted per origin.
	SiteConfigs *File

	// DBDir is the directory path for storing the SQLite crawl database.
	// When empty, the XDG data directory is used. Persistence failures
	// are logged and never abort a crawl.
	DBDir string

	// SaveToDB indicates whether to persist crawl results.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts, caps).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxDepth:           DefaultMaxDepth,
		MaxPages:           DefaultMaxPages,
		Concurrency:        DefaultConcurrency,
		TransitionsPerPage: DefaultTransitionsPerPage,
		NavTimeout:         DefaultNavTimeout,
		QuietWindow:        DefaultQuietWindow,
		CrawlDelay:         DefaultCrawlDelay,
		Headless:           true,
		BlockResources:     true,
		OutputDir:          ".",
	}
}

// XDGDataDir returns the XDG data directory for the crawler.
// On Linux: ~/.local/share/uiatlas
// On macOS: ~/Library/Application Support/uiatlas
// On Windows: %LOCALAPPDATA%\uiatlas
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the crawler.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for the crawler.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before the browser is launched.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	if c.MaxDepth < 0 {
		return ErrInvalidDepth
	}

	// MaxPages must be positive; zero would mean no crawling at all
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	// NavTimeout must be positive; zero timeout would fail every visit
	if c.NavTimeout <= 0 {
		return ErrInvalidNavTimeout
	}

	if c.QuietWindow <= 0 {
		return ErrInvalidQuietWindow
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	return nil
}

// Clamp forces the bounded options into their allowed ranges.
// Unlike Validate, out-of-range values here are corrected rather than
// rejected: a too-high concurrency is a tuning mistake, not an error.
func (c *Config) Clamp() {
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Concurrency > MaxConcurrency {
		c.Concurrency = MaxConcurrency
	}
	if c.TransitionsPerPage < 0 {
		c.TransitionsPerPage = 0
	}
	if c.TransitionsPerPage > MaxTransitionsPerPage {
		c.TransitionsPerPage = MaxTransitionsPerPage
	}
}
