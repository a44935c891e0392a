package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSeed is returned when no seed URL is specified.
	ErrNoSeed = errors.New("no seed specified: provide at least one start URL")

	// ErrInvalidSeed is returned when a seed is not an absolute http or
	// https URL.
	ErrInvalidSeed = errors.New("invalid seed: must be an absolute http or https URL")

	// ErrInvalidDepth is returned when the crawl depth is negative.
	// Use 0 to visit only the seeds themselves.
	ErrInvalidDepth = errors.New("invalid depth: must be non-negative")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A budget of zero would mean no crawling at all.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidNavTimeout is returned when the navigation timeout is not
	// positive. A zero timeout would fail every page visit immediately.
	ErrInvalidNavTimeout = errors.New("invalid navigation timeout: must be positive")

	// ErrInvalidQuietWindow is returned when the mutation quiet window is
	// not positive. The probe needs a real interval to detect settling.
	ErrInvalidQuietWindow = errors.New("invalid quiet window: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// A negative delay is invalid; use 0 for no delay between layers.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")
)
