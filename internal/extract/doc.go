// Package extract harvests interactive elements from a rendered page.
//
// The primary path runs injected JavaScript in the page to collect visible
// links, buttons, and toggle-like controls with their labels and locators.
// A hover pass over disclosure elements catches menu items that only render
// on pointer-over. When script evaluation fails, a static HTML fallback
// recovers at least the anchor links.
package extract
