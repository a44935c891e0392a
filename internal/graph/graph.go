package graph

import (
	"sort"

	"github.com/uiatlas/uiatlas/internal/model"
)

// EdgeType classifies how the crawler got from one node to another.
type EdgeType string

// Edge types. Navigate edges follow an href; click and toggle edges are
// in-place interactions; transition edges connect pages to their synthetic
// transition and option nodes.
const (
	EdgeNavigate   EdgeType = "navigate"
	EdgeClick      EdgeType = "click"
	EdgeToggle     EdgeType = "toggle"
	EdgeTransition EdgeType = "transition"
)

// Edge is one directed connection out of a node.
type Edge struct {
	// To is the destination node.
	To model.NodeID

	// Label is the normalized label of the element that produced the edge.
	Label string

	// Type records the interaction kind.
	Type EdgeType

	// Options carries the option labels exposed by a transition edge.
	// Empty for other edge types.
	Options []string
}

// Graph is the crawl's typed action graph together with a plain
// page-to-page navigation view.
//
// Design decision: We keep two adjacency maps rather than deriving the
// navigation view on demand because:
//  1. The navigation view is the hot path for exporters and summaries
//  2. Filtering synthetic nodes out of every traversal invites bugs
//  3. Both maps are written once by the scheduler, so they cannot drift
type Graph struct {
	pages map[string]model.Page
	nav   map[string][]string
	adj   map[model.NodeID][]Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		pages: make(map[string]model.Page),
		nav:   make(map[string][]string),
		adj:   make(map[model.NodeID][]Edge),
	}
}

// AddPage records a visited page. The page's canonical URL becomes a page
// node even when the page has no outgoing edges.
func (g *Graph) AddPage(p model.Page) {
	g.pages[p.URL] = p
	g.ensureNode(model.PageNode(p.URL))
}

// HasPage reports whether the canonical URL was recorded as a visited page.
func (g *Graph) HasPage(url string) bool {
	_, ok := g.pages[url]
	return ok
}

// Page returns the recorded page for the canonical URL.
func (g *Graph) Page(url string) (model.Page, bool) {
	p, ok := g.pages[url]
	return p, ok
}

// AddEdge records a directed edge. Both endpoints become graph nodes.
// Navigate edges between two page nodes are mirrored into the navigation
// view. Duplicate edges (same endpoints, label, and type) are dropped.
func (g *Graph) AddEdge(from model.NodeID, e Edge) {
	g.ensureNode(from)
	g.ensureNode(e.To)

	for _, have := range g.adj[from] {
		if have.To == e.To && have.Label == e.Label && have.Type == e.Type {
			return
		}
	}
	g.adj[from] = append(g.adj[from], e)

	if e.Type == EdgeNavigate && from.IsPage() && e.To.IsPage() {
		g.nav[from.URL] = append(g.nav[from.URL], e.To.URL)
	}
}

func (g *Graph) ensureNode(n model.NodeID) {
	if _, ok := g.adj[n]; !ok {
		g.adj[n] = nil
	}
}

// Pages returns all visited pages ordered by canonical URL.
func (g *Graph) Pages() []model.Page {
	urls := make([]string, 0, len(g.pages))
	for u := range g.pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	pages := make([]model.Page, 0, len(urls))
	for _, u := range urls {
		pages = append(pages, g.pages[u])
	}
	return pages
}

// Nodes returns every node in deterministic order: all page nodes sorted
// by URL, then synthetic nodes sorted by their encoded form.
func (g *Graph) Nodes() []model.NodeID {
	nodes := make([]model.NodeID, 0, len(g.adj))
	for n := range g.adj {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if pi, pj := nodes[i].IsPage(), nodes[j].IsPage(); pi != pj {
			return pi
		}
		return nodes[i].Encode() < nodes[j].Encode()
	})
	return nodes
}

// Edges returns the outgoing edges of a node ordered by destination,
// then label.
func (g *Graph) Edges(n model.NodeID) []Edge {
	edges := make([]Edge, len(g.adj[n]))
	copy(edges, g.adj[n])
	sort.Slice(edges, func(i, j int) bool {
		if a, b := edges[i].To.Encode(), edges[j].To.Encode(); a != b {
			return a < b
		}
		return edges[i].Label < edges[j].Label
	})
	return edges
}

// NavTargets returns the sorted, de-duplicated page URLs reachable from
// the given page by navigation edges.
func (g *Graph) NavTargets(url string) []string {
	targets := g.nav[url]
	if len(targets) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(targets))
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Stats summarizes the graph for logs and the run report.
type Stats struct {
	Pages       int
	Transitions int
	Options     int
	Edges       int
}

// Stats counts nodes by kind and total edges.
func (g *Graph) Stats() Stats {
	var s Stats
	for n, edges := range g.adj {
		switch n.Kind {
		case model.KindPage:
			s.Pages++
		case model.KindTransition:
			s.Transitions++
		case model.KindOption:
			s.Options++
		}
		s.Edges += len(edges)
	}
	return s
}
