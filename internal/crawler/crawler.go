package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/uiatlas/uiatlas/internal/graph"
	"github.com/uiatlas/uiatlas/internal/model"
)

// Visitor performs a single page visit: navigate, extract, probe.
//
// Design decision: We crawl through an interface rather than calling the
// browser directly because:
//  1. The scheduler's BFS logic is testable with fake visitors
//  2. The browser stack stays out of this package entirely
//  3. A degraded (static HTML) visitor can slot in without changes here
type Visitor interface {
	Visit(ctx context.Context, pageURL string, depth int) (*VisitResult, error)
}

// VisitResult is everything one page visit produced.
type VisitResult struct {
	// Page is the visited page. Page.URL may differ from the requested
	// URL when the navigation redirected.
	Page model.Page

	// FinalURL is the raw post-redirect URL reported by the browser.
	FinalURL string

	// Transitions are the UI-state changes observed on this page.
	Transitions []model.Transition
}

// Options configures a Crawler.
type Options struct {
	// MaxDepth is the maximum BFS distance from a seed.
	MaxDepth int

	// MaxPages is the total page budget.
	MaxPages int

	// Concurrency is the number of visits in flight at once.
	Concurrency int

	// CrawlDelay is the pause between BFS layers.
	CrawlDelay time.Duration

	// IgnorePatterns are URL path substrings to skip.
	IgnorePatterns []string

	// Logger receives progress output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Crawler runs a breadth-first crawl and assembles the action graph.
type Crawler struct {
	visitor Visitor
	opts    Options
	logger  *slog.Logger
}

// New creates a Crawler.
func New(visitor Visitor, opts Options) *Crawler {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.MaxPages < 1 {
		opts.MaxPages = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Crawler{visitor: visitor, opts: opts, logger: opts.Logger}
}

// entry is one frontier item. It carries the origin of the seed chain
// that discovered it, so same-origin filtering follows the seed rather
// than whatever page linked here.
type entry struct {
	url    string
	depth  int
	origin string
}

// Run crawls from the seeds until the frontier empties or the page budget
// is spent, and returns the assembled graph. Context cancellation stops
// the crawl at the next layer boundary; everything merged so far is
// returned alongside the context error.
func (c *Crawler) Run(ctx context.Context, seeds []string) (*graph.Graph, error) {
	g := graph.New()
	visited := make(map[string]bool)

	frontier := make([]entry, 0, len(seeds))
	for _, seed := range seeds {
		canonical, err := Canonicalize(seed)
		if err != nil {
			return g, fmt.Errorf("crawler: seed: %w", err)
		}
		if visited[canonical] {
			continue
		}
		visited[canonical] = true
		frontier = append(frontier, entry{url: canonical, depth: 0, origin: canonical})
	}

	budget := c.opts.MaxPages

	for len(frontier) > 0 && budget > 0 {
		if err := ctx.Err(); err != nil {
			return g, err
		}

		layer := frontier
		if len(layer) > budget {
			layer = layer[:budget]
		}
		frontier = nil

		c.logger.Info("crawler: visiting layer",
			"depth", layer[0].depth, "pages", len(layer), "budget", budget)

		results := c.visitLayer(ctx, layer)

		for i, res := range results {
			if res == nil {
				// Leave the URL unclaimed so a later link can retry it.
				delete(visited, layer[i].url)
				continue
			}
			added, next := c.merge(g, visited, layer[i], res)
			if added {
				budget--
			}
			for _, e := range next {
				if e.depth <= c.opts.MaxDepth && !visited[e.url] {
					visited[e.url] = true
					frontier = append(frontier, e)
				}
			}
		}

		if c.opts.CrawlDelay > 0 && len(frontier) > 0 {
			select {
			case <-ctx.Done():
				return g, ctx.Err()
			case <-time.After(c.opts.CrawlDelay):
			}
		}
	}

	stats := g.Stats()
	c.logger.Info("crawler: finished",
		"pages", stats.Pages, "transitions", stats.Transitions,
		"options", stats.Options, "edges", stats.Edges)

	return g, nil
}

// visitLayer runs one frontier layer through the visitor with bounded
// concurrency. Failed visits produce nil results; a layer never aborts
// because one page broke.
func (c *Crawler) visitLayer(ctx context.Context, layer []entry) []*VisitResult {
	results := make([]*VisitResult, len(layer))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.opts.Concurrency)

	for i, e := range layer {
		eg.Go(func() error {
			res, err := c.visitor.Visit(egCtx, e.url, e.depth)
			if err != nil {
				c.logger.Warn("crawler: visit failed", "url", e.url, "error", err)
				return nil
			}
			results[i] = res
			return nil
		})
	}

	// Workers never return errors; Wait only propagates context
	// cancellation, which the caller checks at the layer boundary.
	_ = eg.Wait()

	return results
}

// merge folds one visit result into the graph and returns the follow-up
// frontier entries. Runs on the scheduling goroutine only.
func (c *Crawler) merge(g *graph.Graph, visited map[string]bool, e entry, res *VisitResult) (bool, []entry) {
	final := e.url
	if res.FinalURL != "" {
		if canonical, err := Canonicalize(res.FinalURL); err == nil {
			final = canonical
		}
	}

	// A redirect can land on a page another worker already claimed.
	// First claim wins; the duplicate result is dropped.
	if final != e.url {
		if visited[final] && g.HasPage(final) {
			c.logger.Debug("crawler: redirect target already visited",
				"requested", e.url, "final", final)
			return false, nil
		}
		visited[final] = true
	}

	page := res.Page
	page.URL = final
	page.Depth = e.depth
	g.AddPage(page)

	pageNode := model.PageNode(final)
	var next []entry

	// Trigger labels that produced a transition get their edge from the
	// transition record, not a plain self-loop.
	transTriggers := make(map[string]bool, len(res.Transitions))
	for _, tr := range res.Transitions {
		transTriggers[tr.TriggerLabel] = true
	}

	for _, a := range page.Actions {
		switch a.Type {
		case model.ActionNavigate:
			target, err := Resolve(final, a.Href)
			if err != nil {
				continue
			}
			if target == final {
				// Fragment-only and self links add nothing.
				continue
			}
			g.AddEdge(pageNode, graph.Edge{
				To:    model.PageNode(target),
				Label: a.Label,
				Type:  graph.EdgeNavigate,
			})
			if SameOrigin(e.origin, target) && !c.ignored(target) {
				next = append(next, entry{url: target, depth: e.depth + 1, origin: e.origin})
			}
		case model.ActionClick, model.ActionToggle:
			if transTriggers[a.Label] {
				continue
			}
			edgeType := graph.EdgeClick
			if a.Type == model.ActionToggle {
				edgeType = graph.EdgeToggle
			}
			g.AddEdge(pageNode, graph.Edge{
				To:      pageNode,
				Label:   a.Label,
				Type:    edgeType,
				Options: a.Options,
			})
		}
	}

	// Navigation labels on this page, for resolving options to targets.
	navByLabel := make(map[string]string)
	for _, a := range page.Actions {
		if a.Type != model.ActionNavigate || a.Label == "" {
			continue
		}
		if target, err := Resolve(final, a.Href); err == nil {
			navByLabel[strings.ToLower(a.Label)] = target
		}
	}

	for _, tr := range res.Transitions {
		transNode := model.TransitionNode(final, tr.TriggerLabel)
		g.AddEdge(pageNode, graph.Edge{
			To:      transNode,
			Label:   tr.TriggerLabel,
			Type:    graph.EdgeTransition,
			Options: tr.OptionLabels(),
		})

		for _, option := range tr.OptionLabels() {
			optNode := model.OptionNode(final, tr.TriggerLabel, option)
			g.AddEdge(transNode, graph.Edge{
				To:    optNode,
				Label: option,
				Type:  graph.EdgeTransition,
			})

			// An option whose label matches a known link resolves to
			// that link's target; anything else folds back to the page.
			if target, ok := navByLabel[strings.ToLower(option)]; ok {
				g.AddEdge(optNode, graph.Edge{
					To:    model.PageNode(target),
					Label: option,
					Type:  graph.EdgeNavigate,
				})
			} else {
				g.AddEdge(optNode, graph.Edge{
					To:   pageNode,
					Type: graph.EdgeTransition,
				})
			}
		}
	}

	return true, next
}

// ignored reports whether the URL path matches an ignore pattern.
func (c *Crawler) ignored(target string) bool {
	for _, pattern := range c.opts.IgnorePatterns {
		if pattern != "" && strings.Contains(target, pattern) {
			return true
		}
	}
	return false
}
