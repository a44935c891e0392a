// Package browser manages the headless Chrome lifecycle and per-page tabs.
// It launches Chrome via rod, opens stealth tabs with optional resource
// blocking, and exposes the small set of page operations the crawler needs:
// navigation with status capture, script evaluation, element interaction,
// and screenshots.
package browser
