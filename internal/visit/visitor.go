// Package visit implements the browser-backed page visitor.
// It ties one tab per visit to extraction, transition probing, and
// optional screenshot capture.
package visit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/uiatlas/uiatlas/internal/browser"
	"github.com/uiatlas/uiatlas/internal/crawler"
	"github.com/uiatlas/uiatlas/internal/extract"
	"github.com/uiatlas/uiatlas/internal/model"
	"github.com/uiatlas/uiatlas/internal/probe"
)

// Options configures a BrowserVisitor.
type Options struct {
	// NavTimeout bounds each navigation.
	NavTimeout time.Duration

	// QuietWindow is passed through to the prober.
	QuietWindow time.Duration

	// TransitionsPerPage caps probed triggers. Zero disables probing.
	TransitionsPerPage int

	// Screenshots enables per-page full-page screenshots.
	Screenshots bool

	// ScreenshotDir is where screenshots are written.
	ScreenshotDir string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// BrowserVisitor visits pages in browser tabs.
//
// Each Visit opens a fresh tab and closes it before returning, so
// concurrent visits never share page state.
type BrowserVisitor struct {
	manager   *browser.Manager
	extractor *extract.Extractor
	prober    *probe.Prober
	opts      Options
	logger    *slog.Logger
}

// NewBrowserVisitor creates a visitor on top of a started browser Manager.
func NewBrowserVisitor(manager *browser.Manager, opts Options) *BrowserVisitor {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 20 * time.Second
	}
	return &BrowserVisitor{
		manager:   manager,
		extractor: extract.NewExtractor(opts.Logger),
		prober:    probe.NewProber(probe.Options{QuietWindow: opts.QuietWindow, Logger: opts.Logger}),
		opts:      opts,
		logger:    opts.Logger,
	}
}

// Visit navigates to the URL, extracts actions, probes triggers, and
// optionally captures a screenshot. Partial results are the norm: a
// navigation timeout or a failed probe still yields whatever was
// collected before the failure.
func (v *BrowserVisitor) Visit(ctx context.Context, pageURL string, depth int) (*crawler.VisitResult, error) {
	tab, err := v.manager.OpenTab()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := tab.Close(); err != nil {
			v.logger.Debug("visit: tab close failed", "url", pageURL, "error", err)
		}
	}()

	nav, err := tab.Goto(ctx, pageURL, v.opts.NavTimeout)
	if err != nil {
		return nil, err
	}
	if nav.TimedOut {
		v.logger.Warn("visit: navigation timed out, extracting partial page", "url", pageURL)
	}

	res := &crawler.VisitResult{
		FinalURL: nav.FinalURL,
		Page: model.Page{
			URL:        pageURL,
			Depth:      depth,
			StatusCode: nav.StatusCode,
		},
	}

	if title, err := tab.Title(ctx); err == nil {
		res.Page.Title = title
	} else {
		v.logger.Debug("visit: title failed", "url", pageURL, "error", err)
	}

	actions, err := v.extractor.Extract(ctx, tab)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Script evaluation broke; salvage links from the raw DOM.
		v.logger.Warn("visit: extraction failed, using static fallback", "url", pageURL, "error", err)
		if content, herr := tab.HTML(ctx); herr == nil {
			actions = extract.StaticLinks(content)
		}
	}
	res.Page.Actions = actions

	if triggers := v.selectTriggers(actions); len(triggers) > 0 {
		transitions, err := v.prober.Probe(ctx, tab, pageURL, triggers, v.opts.NavTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			v.logger.Warn("visit: probing aborted", "url", pageURL, "error", err)
		}
		res.Transitions = transitions
	}

	if v.opts.Screenshots {
		if path, err := v.screenshot(ctx, tab, nav.FinalURL); err == nil {
			res.Page.ScreenshotPath = path
		} else {
			v.logger.Debug("visit: screenshot failed", "url", pageURL, "error", err)
		}
	}

	return res, nil
}

// selectTriggers picks the probe-worthy actions: labeled click and toggle
// elements with locators, toggles first, capped at TransitionsPerPage.
func (v *BrowserVisitor) selectTriggers(actions []model.Action) []model.Action {
	if v.opts.TransitionsPerPage <= 0 {
		return nil
	}

	var toggles, clicks []model.Action
	for _, a := range actions {
		if a.Selector == "" || a.Label == "" {
			continue
		}
		switch a.Type {
		case model.ActionToggle:
			toggles = append(toggles, a)
		case model.ActionClick:
			clicks = append(clicks, a)
		}
	}

	triggers := append(toggles, clicks...)
	if len(triggers) > v.opts.TransitionsPerPage {
		triggers = triggers[:v.opts.TransitionsPerPage]
	}
	return triggers
}

// screenshot writes a full-page capture named by the URL's hash, so
// re-crawls overwrite rather than accumulate.
func (v *BrowserVisitor) screenshot(ctx context.Context, tab *browser.Tab, pageURL string) (string, error) {
	data, err := tab.Screenshot(ctx, true)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(v.opts.ScreenshotDir, 0o750); err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(pageURL))
	name := hex.EncodeToString(sum[:6]) + ".png"
	path := filepath.Join(v.opts.ScreenshotDir, name)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}
