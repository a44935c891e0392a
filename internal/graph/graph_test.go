package graph

import (
	"reflect"
	"testing"

	"github.com/uiatlas/uiatlas/internal/model"
)

func TestGraphAddEdge(t *testing.T) {
	t.Parallel()

	t.Run("navigate edges feed the navigation view", func(t *testing.T) {
		t.Parallel()

		g := New()
		g.AddPage(model.Page{URL: "https://a.test/"})
		g.AddPage(model.Page{URL: "https://a.test/docs"})
		g.AddEdge(model.PageNode("https://a.test/"), Edge{
			To:    model.PageNode("https://a.test/docs"),
			Label: "Docs",
			Type:  EdgeNavigate,
		})

		got := g.NavTargets("https://a.test/")
		want := []string{"https://a.test/docs"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("NavTargets() = %v, want %v", got, want)
		}
	})

	t.Run("duplicate edges collapse", func(t *testing.T) {
		t.Parallel()

		g := New()
		from := model.PageNode("https://a.test/")
		e := Edge{To: model.PageNode("https://a.test/docs"), Label: "Docs", Type: EdgeNavigate}
		g.AddEdge(from, e)
		g.AddEdge(from, e)

		if n := len(g.Edges(from)); n != 1 {
			t.Errorf("expected 1 edge, got %d", n)
		}
	})

	t.Run("synthetic edges stay out of the navigation view", func(t *testing.T) {
		t.Parallel()

		g := New()
		page := model.PageNode("https://a.test/")
		trans := model.TransitionNode("https://a.test/", "Menu")
		g.AddPage(model.Page{URL: "https://a.test/"})
		g.AddEdge(page, Edge{To: trans, Label: "Menu", Type: EdgeTransition, Options: []string{"Profile"}})
		g.AddEdge(trans, Edge{To: model.OptionNode("https://a.test/", "Menu", "Profile"), Label: "Profile", Type: EdgeTransition})

		if got := g.NavTargets("https://a.test/"); got != nil {
			t.Errorf("expected no navigation targets, got %v", got)
		}

		s := g.Stats()
		if s.Pages != 1 || s.Transitions != 1 || s.Options != 1 || s.Edges != 2 {
			t.Errorf("unexpected stats: %+v", s)
		}
	})
}

func TestGraphDeterministicOrder(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddPage(model.Page{URL: "https://a.test/z"})
	g.AddPage(model.Page{URL: "https://a.test/a"})
	g.AddEdge(model.PageNode("https://a.test/a"), Edge{
		To:   model.TransitionNode("https://a.test/a", "Menu"),
		Type: EdgeTransition,
	})

	nodes := g.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if !nodes[0].IsPage() || nodes[0].URL != "https://a.test/a" {
		t.Errorf("expected first node to be page a, got %+v", nodes[0])
	}
	if !nodes[1].IsPage() || nodes[1].URL != "https://a.test/z" {
		t.Errorf("expected second node to be page z, got %+v", nodes[1])
	}
	if nodes[2].Kind != model.KindTransition {
		t.Errorf("expected synthetic node last, got %+v", nodes[2])
	}

	pages := g.Pages()
	if len(pages) != 2 || pages[0].URL != "https://a.test/a" {
		t.Errorf("unexpected page order: %+v", pages)
	}
}
