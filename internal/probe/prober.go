package probe

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/uiatlas/uiatlas/internal/browser"
	"github.com/uiatlas/uiatlas/internal/model"
)

const (
	// pollInterval is how often the mutation counter is sampled while
	// waiting for the DOM to settle.
	pollInterval = 100 * time.Millisecond

	// maxSettle bounds the whole settle wait per trigger. Pages that
	// mutate forever (animations driven through the DOM) would otherwise
	// stall the probe.
	maxSettle = 2 * time.Second

	// resetSettle is the pause after Escape before the next probe.
	resetSettle = 200 * time.Millisecond
)

// Options tunes the Prober.
type Options struct {
	// QuietWindow is the mutation-free interval that counts as settled.
	QuietWindow time.Duration

	// Logger receives per-trigger debug output. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// scopeSnapshot is the JSON shape produced by snapshotJS: the visible
// labels in the trigger's scope plus the typed actions among them.
type scopeSnapshot struct {
	Labels  []string      `json:"labels"`
	Actions []scopeAction `json:"actions"`
}

// scopeAction is one interactive element observed inside the scope.
type scopeAction struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Href     string `json:"href"`
	Selector string `json:"selector"`
}

// Prober activates trigger elements and records the resulting label deltas.
type Prober struct {
	quietWindow time.Duration
	logger      *slog.Logger
}

// NewProber creates a Prober.
func NewProber(opts Options) *Prober {
	if opts.QuietWindow <= 0 {
		opts.QuietWindow = 300 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Prober{quietWindow: opts.QuietWindow, logger: opts.Logger}
}

// Probe activates each trigger in order and returns the transitions that
// produced an observable change. Triggers are probed sequentially on the
// same tab; the page is reset with Escape between probes.
//
// A trigger that navigates away is not a transition. The probe detects
// the URL change, reloads the original page, and moves on.
func (p *Prober) Probe(ctx context.Context, tab *browser.Tab, pageURL string, triggers []model.Action, navTimeout time.Duration) ([]model.Transition, error) {
	var transitions []model.Transition

	for _, trigger := range triggers {
		select {
		case <-ctx.Done():
			return transitions, ctx.Err()
		default:
		}

		if trigger.Selector == "" {
			continue
		}

		tr, navigated, err := p.probeOne(ctx, tab, trigger)
		if err != nil {
			if ctx.Err() != nil {
				return transitions, ctx.Err()
			}
			p.logger.Debug("probe: trigger failed",
				"label", trigger.Label, "selector", trigger.Selector, "error", err)
			continue
		}

		if navigated {
			p.logger.Debug("probe: trigger navigated away, restoring",
				"label", trigger.Label, "url", pageURL)
			if _, err := tab.Goto(ctx, pageURL, navTimeout); err != nil {
				return transitions, err
			}
			continue
		}

		if tr.HasChange() {
			transitions = append(transitions, tr)
		}

		if err := p.reset(ctx, tab); err != nil {
			return transitions, err
		}
	}

	return transitions, nil
}

// probeOne activates a single trigger and diffs the scoped labels around
// the interaction.
func (p *Prober) probeOne(ctx context.Context, tab *browser.Tab, trigger model.Action) (model.Transition, bool, error) {
	tr := model.Transition{
		TriggerLabel:    trigger.Label,
		TriggerSelector: trigger.Selector,
	}

	before, err := tab.URL(ctx)
	if err != nil {
		return tr, false, err
	}

	pre, err := p.snapshot(ctx, tab, trigger.Selector)
	if err != nil {
		return tr, false, err
	}

	if _, err := tab.Eval(ctx, installObserverJS); err != nil {
		return tr, false, err
	}

	// Hover first: CSS-hover menus need the pointer over the trigger for
	// the revealed content to stay visible through the click.
	if err := tab.Hover(ctx, trigger.Selector); err != nil {
		p.logger.Debug("probe: hover failed", "selector", trigger.Selector, "error", err)
	}
	if err := tab.Click(ctx, trigger.Selector); err != nil {
		return tr, false, err
	}

	if err := p.waitQuiet(ctx, tab); err != nil {
		return tr, false, err
	}

	after, err := tab.URL(ctx)
	if err != nil {
		return tr, false, err
	}
	if after != before {
		return tr, true, nil
	}

	post, err := p.snapshot(ctx, tab, trigger.Selector)
	if err != nil {
		return tr, false, err
	}

	tr.Added, tr.Removed = diffLabels(pre.Labels, post.Labels)
	tr.Actions = convertScopeActions(post.Actions)
	return tr, false, nil
}

// snapshot reads the visible labels and actions in the trigger's scope.
func (p *Prober) snapshot(ctx context.Context, tab *browser.Tab, selector string) (scopeSnapshot, error) {
	var snap scopeSnapshot

	raw, err := tab.Eval(ctx, snapshotJS, selector)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, err
	}

	normalized := make([]string, 0, len(snap.Labels))
	for _, l := range snap.Labels {
		if n := model.NormalizeLabel(l); n != "" {
			normalized = append(normalized, n)
		}
	}
	snap.Labels = normalized
	return snap, nil
}

// convertScopeActions turns in-scope elements into model actions.
// Unlabeled entries are dropped; a navigation without an href demotes
// to a click because nothing could be followed from it.
func convertScopeActions(raws []scopeAction) []model.Action {
	out := make([]model.Action, 0, len(raws))
	for _, r := range raws {
		a := model.Action{
			Label:    model.NormalizeLabel(r.Label),
			Href:     r.Href,
			Selector: r.Selector,
		}
		if a.Label == "" {
			continue
		}

		switch r.Type {
		case string(model.ActionNavigate):
			a.Type = model.ActionNavigate
			if a.Href == "" {
				a.Type = model.ActionClick
			}
		case string(model.ActionToggle):
			a.Type = model.ActionToggle
		default:
			a.Type = model.ActionClick
		}

		out = append(out, a)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// waitQuiet waits for the first of: an open dialog, a mutation-free
// quiet window, or the settle bound. A dialog resolves the wait early
// because the interesting state is already on screen. Timing out is not
// an error: the snapshot just reads whatever state the page is in.
func (p *Prober) waitQuiet(ctx context.Context, tab *browser.Tab) error {
	deadline := time.Now().Add(maxSettle)
	var lastCount int64
	quietSince := time.Now()

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}

		open, err := p.dialogPresent(ctx, tab)
		if err != nil {
			return err
		}
		if open {
			return nil
		}

		raw, err := tab.Eval(ctx, mutationCountJS)
		if err != nil {
			return err
		}
		var count int64
		if err := json.Unmarshal(raw, &count); err != nil {
			return err
		}

		if count != lastCount {
			lastCount = count
			quietSince = time.Now()
			continue
		}
		if time.Since(quietSince) >= p.quietWindow {
			return nil
		}
	}
	return nil
}

// dialogPresent reports whether an open dialog is visible on the page.
func (p *Prober) dialogPresent(ctx context.Context, tab *browser.Tab) (bool, error) {
	raw, err := tab.Eval(ctx, dialogPresentJS)
	if err != nil {
		return false, err
	}
	var open bool
	if err := json.Unmarshal(raw, &open); err != nil {
		return false, err
	}
	return open, nil
}

// reset dismisses whatever the probe opened and lets the page settle.
func (p *Prober) reset(ctx context.Context, tab *browser.Tab) error {
	if err := tab.PressEscape(ctx); err != nil {
		p.logger.Debug("probe: escape failed", "error", err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(resetSettle):
	}
	return nil
}

// diffLabels computes the set difference between two label snapshots.
// Added preserves post order, removed preserves pre order.
func diffLabels(pre, post []string) (added, removed []string) {
	preSet := make(map[string]struct{}, len(pre))
	for _, l := range pre {
		preSet[l] = struct{}{}
	}
	postSet := make(map[string]struct{}, len(post))
	for _, l := range post {
		postSet[l] = struct{}{}
	}

	for _, l := range post {
		if _, ok := preSet[l]; !ok {
			added = append(added, l)
		}
	}
	for _, l := range pre {
		if _, ok := postSet[l]; !ok {
			removed = append(removed, l)
		}
	}
	return added, removed
}
