package model

import (
	"strings"
	"testing"
)

// TestNormalizeLabel tests label canonicalization.
func TestNormalizeLabel(t *testing.T) {
	t.Parallel()

	t.Run("collapses whitespace", func(t *testing.T) {
		t.Parallel()

		got := NormalizeLabel("  Open \n\t the   menu ")
		if got != "Open the menu" {
			t.Errorf("expected %q, got %q", "Open the menu", got)
		}
	})

	t.Run("caps length", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 500)
		got := NormalizeLabel(long)
		if len([]rune(got)) != MaxLabelRunes {
			t.Errorf("expected %d runes, got %d", MaxLabelRunes, len([]rune(got)))
		}
	})

	t.Run("empty stays empty", func(t *testing.T) {
		t.Parallel()

		if got := NormalizeLabel("   "); got != "" {
			t.Errorf("expected empty label, got %q", got)
		}
	})
}

// TestNodeIDEncodeDecode tests the round trip through the string form.
func TestNodeIDEncodeDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node NodeID
		want string
	}{
		{
			name: "page node",
			node: PageNode("https://example.com/a"),
			want: "https://example.com/a",
		},
		{
			name: "transition node",
			node: TransitionNode("https://example.com/a", "Menu"),
			want: "https://example.com/a::TRANS::Menu",
		},
		{
			name: "option node",
			node: OptionNode("https://example.com/a", "Menu", "Profile"),
			want: "https://example.com/a::TRANS::Menu::OPT::Profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			encoded := tt.node.Encode()
			if encoded != tt.want {
				t.Errorf("Encode() = %q, want %q", encoded, tt.want)
			}

			decoded := DecodeNodeID(encoded)
			if decoded != tt.node {
				t.Errorf("DecodeNodeID(%q) = %+v, want %+v", encoded, decoded, tt.node)
			}
		})
	}
}

// TestTransitionOptionLabels tests the added/removed fallback rule.
func TestTransitionOptionLabels(t *testing.T) {
	t.Parallel()

	t.Run("prefers added", func(t *testing.T) {
		t.Parallel()

		tr := Transition{Added: []string{"Profile"}, Removed: []string{"Old"}}
		got := tr.OptionLabels()
		if len(got) != 1 || got[0] != "Profile" {
			t.Errorf("expected added labels, got %v", got)
		}
	})

	t.Run("falls back to removed on toggle close", func(t *testing.T) {
		t.Parallel()

		tr := Transition{Removed: []string{"Profile", "Logout"}}
		got := tr.OptionLabels()
		if len(got) != 2 {
			t.Errorf("expected removed labels, got %v", got)
		}
	})

	t.Run("no change means no node", func(t *testing.T) {
		t.Parallel()

		if (Transition{}).HasChange() {
			t.Error("empty transition should not report a change")
		}
	})
}

// TestActionKey tests de-duplication identity.
func TestActionKey(t *testing.T) {
	t.Parallel()

	a := Action{Type: ActionNavigate, Label: "Docs", Href: "/docs", Selector: "a.nav"}
	b := Action{Type: ActionNavigate, Label: "Docs", Href: "/docs", Selector: "a.nav"}
	c := Action{Type: ActionClick, Label: "Docs", Href: "/docs", Selector: "a.nav"}

	if a.Key() != b.Key() {
		t.Error("identical actions should share a key")
	}
	if a.Key() == c.Key() {
		t.Error("actions of different types should not share a key")
	}
}
