package model

// Page is one visited, canonicalized URL and what was found on it.
//
// A Page is created exactly once per canonical URL: the first successful
// visit claims the URL and later visits that resolve to the same canonical
// URL (through redirects) are dropped by the scheduler.
type Page struct {
	// URL is the canonical URL of the page after redirects: fragment
	// stripped, trailing slash normalized. This is the page's identity.
	URL string `json:"url"`

	// Title is the document title. May be empty when navigation timed out
	// before the title arrived.
	Title string `json:"title"`

	// Depth is the BFS distance from the seed that discovered this page.
	Depth int `json:"depth"`

	// StatusCode is the HTTP status of the main document, or nil when the
	// navigation failed or the response was never observed.
	StatusCode *int `json:"status_code,omitempty"`

	// ScreenshotPath is where the page screenshot was written, when
	// capture was enabled and succeeded.
	ScreenshotPath string `json:"screenshot_path,omitempty"`

	// Actions is the raw extraction result for this page.
	Actions []Action `json:"actions,omitempty"`
}
