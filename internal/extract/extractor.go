package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/uiatlas/uiatlas/internal/browser"
	"github.com/uiatlas/uiatlas/internal/model"
)

// maxHoverProbes caps the hover pass. Hovering is cheap but each probe
// still costs a settle wait, so an unbounded pass would dominate visit
// time on menu-heavy sites.
const maxHoverProbes = 8

// hoverSettle is how long revealed content gets to render after a hover.
const hoverSettle = 150 * time.Millisecond

// rawAction is the JSON shape produced by harvestJS.
type rawAction struct {
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Href     string   `json:"href"`
	Selector string   `json:"selector"`
	Options  []string `json:"options"`
}

// Extractor harvests interactive elements from a live tab.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor. If logger is nil, slog.Default()
// is used.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract collects the page's interactive elements.
//
// It runs two passes: a direct harvest of everything currently visible,
// then a bounded hover pass over disclosure elements followed by a
// re-harvest, so hover-only menu items are captured too. Results are
// de-duplicated across passes.
func (e *Extractor) Extract(ctx context.Context, tab *browser.Tab) ([]model.Action, error) {
	actions, err := e.harvest(ctx, tab)
	if err != nil {
		return nil, fmt.Errorf("extract: initial harvest: %w", err)
	}

	merged := make(map[string]model.Action, len(actions))
	order := make([]string, 0, len(actions))
	for _, a := range actions {
		if _, ok := merged[a.Key()]; !ok {
			merged[a.Key()] = a
			order = append(order, a.Key())
		}
	}

	for _, sel := range e.disclosureSelectors(ctx, tab) {
		if err := tab.Hover(ctx, sel); err != nil {
			e.logger.Debug("extract: hover failed", "selector", sel, "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(hoverSettle):
		}

		revealed, err := e.harvest(ctx, tab)
		if err != nil {
			e.logger.Debug("extract: hover harvest failed", "selector", sel, "error", err)
			continue
		}
		for _, a := range revealed {
			if _, ok := merged[a.Key()]; !ok {
				merged[a.Key()] = a
				order = append(order, a.Key())
			}
		}
	}

	out := make([]model.Action, 0, len(order))
	for _, k := range order {
		out = append(out, merged[k])
	}
	return out, nil
}

// harvest runs harvestJS once and converts the result.
func (e *Extractor) harvest(ctx context.Context, tab *browser.Tab) ([]model.Action, error) {
	raw, err := tab.Eval(ctx, harvestJS)
	if err != nil {
		return nil, err
	}

	var raws []rawAction
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, fmt.Errorf("decode harvest result: %w", err)
	}

	return convert(raws), nil
}

// disclosureSelectors returns the bounded list of hover candidates.
// Failures degrade to an empty list; the hover pass is best effort.
func (e *Extractor) disclosureSelectors(ctx context.Context, tab *browser.Tab) []string {
	raw, err := tab.Eval(ctx, disclosureJS)
	if err != nil {
		e.logger.Debug("extract: disclosure scan failed", "error", err)
		return nil
	}

	var selectors []string
	if err := json.Unmarshal(raw, &selectors); err != nil {
		e.logger.Debug("extract: decode disclosure result failed", "error", err)
		return nil
	}

	if len(selectors) > maxHoverProbes {
		selectors = selectors[:maxHoverProbes]
	}
	return selectors
}

// convert normalizes raw harvest output into model actions.
// Unlabeled click and toggle actions are dropped: without a label they
// can neither be probed deterministically nor named in the graph.
// Unlabeled navigate actions survive because the href is their identity.
func convert(raws []rawAction) []model.Action {
	out := make([]model.Action, 0, len(raws))
	for _, r := range raws {
		a := model.Action{
			Label:    model.NormalizeLabel(r.Label),
			Href:     r.Href,
			Selector: r.Selector,
		}

		switch r.Type {
		case string(model.ActionNavigate):
			a.Type = model.ActionNavigate
			if a.Href == "" {
				continue
			}
		case string(model.ActionToggle):
			a.Type = model.ActionToggle
		default:
			a.Type = model.ActionClick
		}

		if a.Type != model.ActionNavigate && a.Label == "" {
			continue
		}

		for _, o := range r.Options {
			if n := model.NormalizeLabel(o); n != "" {
				a.Options = append(a.Options, n)
			}
		}

		out = append(out, a)
	}
	return out
}
