package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ActionType classifies an interactive affordance found on a page.
type ActionType string

// Action types. Navigate actions carry an href; click and toggle actions
// act in place on the page.
const (
	ActionNavigate ActionType = "navigate"
	ActionClick    ActionType = "click"
	ActionToggle   ActionType = "toggle"
)

// MaxLabelRunes caps action labels. Long labels come from elements whose
// visible text is a paragraph, not a name; anything beyond this length
// stops being useful as an identifier.
const MaxLabelRunes = 80

// Action is an interactive affordance found on a page: a link, a button,
// or a toggle-like control.
//
// Actions are created fresh on every extraction pass and never mutated.
// They are not persisted beyond the enclosing page-visit result; the graph
// keeps only the edges derived from them.
type Action struct {
	// Type is one of navigate, click, or toggle.
	Type ActionType `json:"type"`

	// Label is the best-effort human-readable name of the element.
	// Preference order: accessible name, title, placeholder, alt text,
	// trimmed visible text. Normalized via NormalizeLabel.
	Label string `json:"label"`

	// Href is the raw href attribute value. Only set for navigate actions;
	// resolution to an absolute URL happens in the crawler.
	Href string `json:"href,omitempty"`

	// Selector is a best-effort CSS locator (id, else tag plus up to two
	// classes). It is an identification hint, not guaranteed unique.
	Selector string `json:"selector,omitempty"`

	// Options are sibling action labels found in the nearest enclosing
	// container. Used to associate a transition with its option set.
	Options []string `json:"options,omitempty"`
}

// Key returns the identity used to de-duplicate actions across extraction
// passes: two actions with the same type, label, href, and selector are
// considered the same affordance.
func (a Action) Key() string {
	return string(a.Type) + "\x00" + a.Label + "\x00" + a.Href + "\x00" + a.Selector
}

// NormalizeLabel canonicalizes a raw label harvested from the DOM.
// It applies Unicode NFC normalization, collapses internal whitespace
// runs to single spaces, trims, and caps the result at MaxLabelRunes.
//
// Design decision: We normalize before using labels as identifiers because:
//  1. The same visible text can arrive in different Unicode forms
//  2. DOM text commonly contains newlines and indentation runs
//  3. Option-to-navigation matching compares labels case-insensitively,
//     which only works on a canonical form
func NormalizeLabel(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > MaxLabelRunes {
		s = string(runes[:MaxLabelRunes])
	}
	return s
}

// LabelsEqualFold reports whether two normalized labels match
// case-insensitively. Used to resolve an option node to a known
// navigation target.
func LabelsEqualFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
