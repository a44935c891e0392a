package visit

import (
	"testing"

	"github.com/uiatlas/uiatlas/internal/model"
)

func TestSelectTriggers(t *testing.T) {
	t.Parallel()

	actions := []model.Action{
		{Type: model.ActionNavigate, Label: "Docs", Href: "/docs", Selector: "a.docs"},
		{Type: model.ActionClick, Label: "Submit", Selector: "button.go"},
		{Type: model.ActionToggle, Label: "Menu", Selector: "#menu"},
		{Type: model.ActionClick, Label: "", Selector: "div.x"},
		{Type: model.ActionToggle, Label: "Ghost", Selector: ""},
	}

	t.Run("toggles come first, unusable dropped", func(t *testing.T) {
		t.Parallel()

		v := &BrowserVisitor{opts: Options{TransitionsPerPage: 10}}
		got := v.selectTriggers(actions)

		if len(got) != 2 {
			t.Fatalf("expected 2 triggers, got %d: %+v", len(got), got)
		}
		if got[0].Label != "Menu" {
			t.Errorf("expected toggle first, got %+v", got[0])
		}
		if got[1].Label != "Submit" {
			t.Errorf("expected click second, got %+v", got[1])
		}
	})

	t.Run("cap applies", func(t *testing.T) {
		t.Parallel()

		v := &BrowserVisitor{opts: Options{TransitionsPerPage: 1}}
		got := v.selectTriggers(actions)
		if len(got) != 1 || got[0].Label != "Menu" {
			t.Errorf("expected only the toggle within cap, got %+v", got)
		}
	})

	t.Run("zero cap disables probing", func(t *testing.T) {
		t.Parallel()

		v := &BrowserVisitor{opts: Options{TransitionsPerPage: 0}}
		if got := v.selectTriggers(actions); got != nil {
			t.Errorf("expected no triggers, got %+v", got)
		}
	})
}
