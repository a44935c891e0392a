// Package graph assembles the crawl result into a typed action graph.
//
// Nodes are page URLs plus synthetic transition and option nodes; edges
// carry the interaction type that produced them. The graph is built by a
// single goroutine (the crawl scheduler) and read by exporters after the
// crawl completes, so it carries no internal locking.
package graph
