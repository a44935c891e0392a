// Package main provides the entry point for the uiatlas CLI.
//
// uiatlas maps websites as action graphs. It drives a headless browser
// through a site, follows links, probes clickable elements for transient
// UI states (menus, modals, dropdowns), and exports the resulting graph
// as JSONL and Graphviz DOT.
//
// Usage:
//
//	uiatlas crawl <url>
//	uiatlas render <pages.jsonl> <edges.jsonl>
//
// See --help for all available options.
package main

// main is the entry point for uiatlas.
func main() {
	Execute()
}
