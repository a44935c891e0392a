package database

import (
	"context"
	"errors"
	"testing"

	"github.com/uiatlas/uiatlas/internal/graph"
	"github.com/uiatlas/uiatlas/internal/model"
)

func testGraph() *graph.Graph {
	g := graph.New()

	status := 200
	g.AddPage(model.Page{URL: "https://a.test/", Title: "Home", StatusCode: &status})
	g.AddPage(model.Page{URL: "https://a.test/docs", Title: "Docs", Depth: 1})

	page := model.PageNode("https://a.test/")
	trans := model.TransitionNode("https://a.test/", "Menu")

	g.AddEdge(page, graph.Edge{To: model.PageNode("https://a.test/docs"), Label: "Docs", Type: graph.EdgeNavigate})
	g.AddEdge(page, graph.Edge{To: trans, Label: "Menu", Type: graph.EdgeTransition, Options: []string{"Docs"}})

	return g
}

func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cdb, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cdb.Close()
}

func TestOpenRequiresExisting(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cdb.Close()

	runID, err := cdb.CreateRun(ctx, []string{"https://a.test/"})
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	g := testGraph()
	if err := cdb.SaveGraph(ctx, runID, g); err != nil {
		t.Fatalf("SaveGraph() error = %v", err)
	}

	// Saving twice must not error or duplicate.
	if err := cdb.SaveGraph(ctx, runID, g); err != nil {
		t.Fatalf("second SaveGraph() error = %v", err)
	}

	loaded, err := cdb.LoadRunGraph(ctx, runID)
	if err != nil {
		t.Fatalf("LoadRunGraph() error = %v", err)
	}

	if loaded.Stats() != g.Stats() {
		t.Errorf("stats after reload = %+v, want %+v", loaded.Stats(), g.Stats())
	}

	p, ok := loaded.Page("https://a.test/")
	if !ok {
		t.Fatal("page lost in persistence")
	}
	if p.Title != "Home" || p.StatusCode == nil || *p.StatusCode != 200 {
		t.Errorf("page fields lost: %+v", p)
	}

	runs, err := cdb.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Pages != 2 || runs[0].Transitions != 1 {
		t.Errorf("run stats = %+v", runs[0])
	}
	if len(runs[0].Seeds) != 1 || runs[0].Seeds[0] != "https://a.test/" {
		t.Errorf("run seeds = %v", runs[0].Seeds)
	}
}

func TestLoadRunGraphUnknownRun(t *testing.T) {
	t.Parallel()

	cdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cdb.Close()

	_, err = cdb.LoadRunGraph(context.Background(), 9999)
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestGetLatestRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cdb.Close()

	latest, err := cdb.GetLatestRun(ctx)
	if err != nil {
		t.Fatalf("GetLatestRun() error = %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil for empty database, got %+v", latest)
	}

	first, err := cdb.CreateRun(ctx, []string{"https://a.test/"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := cdb.CreateRun(ctx, []string{"https://b.test/"})
	if err != nil {
		t.Fatal(err)
	}
	_ = first

	latest, err = cdb.GetLatestRun(ctx)
	if err != nil {
		t.Fatalf("GetLatestRun() error = %v", err)
	}
	if latest == nil || latest.ID != second {
		t.Errorf("expected latest run %d, got %+v", second, latest)
	}
}
