package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/uiatlas/uiatlas/internal/model"
)

func TestConvert(t *testing.T) {
	t.Parallel()

	t.Run("classifies and normalizes", func(t *testing.T) {
		t.Parallel()

		raws := []rawAction{
			{Type: "navigate", Label: "  Docs\n ", Href: "/docs", Selector: "a.docs"},
			{Type: "toggle", Label: "Menu", Selector: "#menu", Options: []string{" Profile ", ""}},
			{Type: "click", Label: "Submit", Selector: "button.go"},
		}

		got := convert(raws)
		if len(got) != 3 {
			t.Fatalf("expected 3 actions, got %d", len(got))
		}
		if got[0].Type != model.ActionNavigate || got[0].Label != "Docs" {
			t.Errorf("unexpected navigate action: %+v", got[0])
		}
		if got[1].Type != model.ActionToggle || !reflect.DeepEqual(got[1].Options, []string{"Profile"}) {
			t.Errorf("unexpected toggle action: %+v", got[1])
		}
		if got[2].Type != model.ActionClick {
			t.Errorf("unexpected click action: %+v", got[2])
		}
	})

	t.Run("drops unlabeled non-navigate actions", func(t *testing.T) {
		t.Parallel()

		raws := []rawAction{
			{Type: "click", Label: "  ", Selector: "div.x"},
			{Type: "toggle", Label: "", Selector: "div.y"},
			{Type: "navigate", Label: "", Href: "/bare"},
		}

		got := convert(raws)
		if len(got) != 1 {
			t.Fatalf("expected 1 action, got %d: %+v", len(got), got)
		}
		if got[0].Href != "/bare" {
			t.Errorf("expected bare navigate to survive, got %+v", got[0])
		}
	})

	t.Run("drops navigate without href", func(t *testing.T) {
		t.Parallel()

		got := convert([]rawAction{{Type: "navigate", Label: "Ghost"}})
		if len(got) != 0 {
			t.Errorf("expected no actions, got %+v", got)
		}
	})

	t.Run("unknown type becomes click", func(t *testing.T) {
		t.Parallel()

		got := convert([]rawAction{{Type: "weird", Label: "Thing"}})
		if len(got) != 1 || got[0].Type != model.ActionClick {
			t.Errorf("expected click fallback, got %+v", got)
		}
	})
}

// TestHarvestScriptGates pins the collection gates of the embedded
// harvest script. The script runs only inside a live browser, so the
// test guards the gate expressions themselves: every element must pass
// the enabled and scope checks before it is collected.
func TestHarvestScriptGates(t *testing.T) {
	t.Parallel()

	gates := map[string]string{
		"disabled filter":          `el.getAttribute('aria-disabled') === 'true'`,
		"landmark preference":      `main, [role="main"], #main, #content`,
		"chrome exclusion":         `[role="banner"]`,
		"sticky bar threshold":     `CHROME_BAR_MAX`,
		"open overlay scopes":      `dialog[open]`,
		"gates applied at collect": `!enabled(el) || !inScope(el)`,
		"central region fallback":  `window.innerWidth / 2`,
	}

	for name, expr := range gates {
		if !strings.Contains(harvestJS, expr) {
			t.Errorf("harvest script lost its %s gate (%q)", name, expr)
		}
	}
}

func TestStaticLinks(t *testing.T) {
	t.Parallel()

	t.Run("extracts labeled anchors", func(t *testing.T) {
		t.Parallel()

		content := `<html><body>
			<a href="/docs">Read the <b>docs</b></a>
			<a href="https://other.test/page">Other</a>
			<a href="javascript:void(0)">JS</a>
			<a href="mailto:x@example.com">Mail</a>
			<a href="#">Top</a>
		</body></html>`

		got := StaticLinks(content)
		if len(got) != 2 {
			t.Fatalf("expected 2 actions, got %d: %+v", len(got), got)
		}
		if got[0].Href != "/docs" || got[0].Label != "Read the docs" {
			t.Errorf("unexpected first link: %+v", got[0])
		}
		if got[1].Href != "https://other.test/page" {
			t.Errorf("unexpected second link: %+v", got[1])
		}
	})

	t.Run("de-duplicates identical anchors", func(t *testing.T) {
		t.Parallel()

		content := `<a href="/a">Home</a><a href="/a">Home</a>`
		if got := StaticLinks(content); len(got) != 1 {
			t.Errorf("expected 1 action, got %+v", got)
		}
	})

	t.Run("survives malformed html", func(t *testing.T) {
		t.Parallel()

		content := `<a href="/x">Unclosed<div><a href="/y">Nested`
		got := StaticLinks(content)
		if len(got) != 2 {
			t.Errorf("expected 2 actions from malformed input, got %+v", got)
		}
	})
}
