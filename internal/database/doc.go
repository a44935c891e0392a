// Package database provides SQLite-based persistence for crawl runs.
// Each run stores its visited pages and graph edges, enabling historical
// comparison between crawls of the same site. Persistence is optional:
// failures here are logged by callers and never abort a crawl.
package database
