// Package export renders the crawl graph into output formats: JSONL for
// machine consumption, DOT for visualization, and a Markdown summary for
// humans. Exporters run once after the crawl completes and read the graph
// through its deterministic accessors, so identical crawls produce
// byte-identical output.
package export
