// Package crawler implements breadth-first exploration of a site.
//
// The Crawler owns the frontier, the visited set, and the result graph.
// Page visits run concurrently through a Visitor, but all mutable crawl
// state is merged by the scheduling goroutine after each layer, so the
// graph needs no locking.
package crawler
