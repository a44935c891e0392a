package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/uiatlas/uiatlas/internal/graph"
	"github.com/uiatlas/uiatlas/internal/model"
)

// Record kinds and edge type names on the JSONL wire.
const (
	recordPage = "page"
	recordEdge = "edge"

	edgeNav        = "nav"
	edgeClick      = "click"
	edgeTransition = "transition"
)

// Record is one JSONL line: a page node or an edge.
//
// Design decision: We use one tagged record type for both line shapes
// rather than separate page and edge types because:
//  1. The kind tag makes line-by-line dispatch trivial
//  2. Consumers can concatenate pages.jsonl and edges.jsonl freely
//  3. Standard library JSON is enough; the format has no nesting to fight
type Record struct {
	Kind string `json:"kind"`

	// Page fields.
	ID         string `json:"id,omitempty"`
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
	Depth      int    `json:"depth,omitempty"`
	StatusCode *int   `json:"status_code,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`

	// Edge fields. Trigger and option provenance is recovered from the
	// encoded endpoint ids so consumers don't have to parse them.
	From    string   `json:"from,omitempty"`
	To      string   `json:"to,omitempty"`
	Label   string   `json:"label,omitempty"`
	Type    string   `json:"type,omitempty"`
	Trigger string   `json:"trigger,omitempty"`
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
}

// JSONLWriter outputs the graph as newline-delimited JSON: all page
// records first (sorted by URL), then all edges in deterministic order.
// The standalone PagesJSONLWriter and EdgesJSONLWriter emit the two halves
// separately for the pages.jsonl/edges.jsonl file pair.
type JSONLWriter struct {
	baseWriter
}

// NewJSONLWriter creates a JSONLWriter that outputs to the given writer.
func NewJSONLWriter(output io.Writer) *JSONLWriter {
	return &JSONLWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the graph as JSONL.
func (w *JSONLWriter) Write(g *graph.Graph) (int, error) {
	return writeJSONL(w.output, g, true, true)
}

// PagesJSONLWriter outputs only the page records (pages.jsonl).
type PagesJSONLWriter struct {
	baseWriter
}

// NewPagesJSONLWriter creates a PagesJSONLWriter that outputs to the given
// writer.
func NewPagesJSONLWriter(output io.Writer) *PagesJSONLWriter {
	return &PagesJSONLWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the graph's page records as JSONL.
func (w *PagesJSONLWriter) Write(g *graph.Graph) (int, error) {
	return writeJSONL(w.output, g, true, false)
}

// EdgesJSONLWriter outputs only the edge records (edges.jsonl).
type EdgesJSONLWriter struct {
	baseWriter
}

// NewEdgesJSONLWriter creates an EdgesJSONLWriter that outputs to the given
// writer.
func NewEdgesJSONLWriter(output io.Writer) *EdgesJSONLWriter {
	return &EdgesJSONLWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the graph's edge records as JSONL.
func (w *EdgesJSONLWriter) Write(g *graph.Graph) (int, error) {
	return writeJSONL(w.output, g, false, true)
}

func writeJSONL(output io.Writer, g *graph.Graph, pages, edges bool) (int, error) {
	bw := bufio.NewWriter(output)
	var total int

	write := func(r Record) error {
		line, err := json.Marshal(r)
		if err != nil {
			return err
		}
		n, err := bw.Write(append(line, '\n'))
		total += n
		return err
	}

	if pages {
		for _, p := range g.Pages() {
			rec := Record{
				Kind:       recordPage,
				ID:         model.PageNode(p.URL).Encode(),
				URL:        p.URL,
				Title:      p.Title,
				Depth:      p.Depth,
				StatusCode: p.StatusCode,
				Screenshot: p.ScreenshotPath,
			}
			if err := write(rec); err != nil {
				return total, fmt.Errorf("export: jsonl page: %w", err)
			}
		}
	}

	if edges {
		for _, n := range g.Nodes() {
			for _, e := range g.Edges(n) {
				rec := Record{
					Kind:    recordEdge,
					From:    n.Encode(),
					To:      e.To.Encode(),
					Label:   e.Label,
					Type:    edgeTypeName(e.Type),
					Options: e.Options,
				}
				// Provenance from the synthetic endpoint, if any.
				switch {
				case e.To.Kind == model.KindOption:
					rec.Trigger = e.To.Trigger
					rec.Option = e.To.Option
				case e.To.Kind == model.KindTransition:
					rec.Trigger = e.To.Trigger
				case n.Kind == model.KindOption:
					rec.Trigger = n.Trigger
					rec.Option = n.Option
				}
				if err := write(rec); err != nil {
					return total, fmt.Errorf("export: jsonl edge: %w", err)
				}
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return total, fmt.Errorf("export: jsonl flush: %w", err)
	}
	return total, nil
}

// edgeTypeName maps graph edge types onto the three wire names.
// Click and toggle both act in place, so the wire does not distinguish
// them.
func edgeTypeName(t graph.EdgeType) string {
	switch t {
	case graph.EdgeNavigate:
		return edgeNav
	case graph.EdgeTransition:
		return edgeTransition
	default:
		return edgeClick
	}
}

// LoadGraph reconstructs a graph from a JSONL stream produced by the
// JSONL writers. Records carry a kind tag, so pages.jsonl and edges.jsonl
// can be concatenated into one stream. Used by the render command to
// regenerate DOT output without re-crawling.
func LoadGraph(r io.Reader) (*graph.Graph, error) {
	g := graph.New()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("export: jsonl line %d: %w", lineNo, err)
		}

		switch rec.Kind {
		case recordPage:
			g.AddPage(model.Page{
				URL:            rec.URL,
				Title:          rec.Title,
				Depth:          rec.Depth,
				StatusCode:     rec.StatusCode,
				ScreenshotPath: rec.Screenshot,
			})
		case recordEdge:
			g.AddEdge(model.DecodeNodeID(rec.From), graph.Edge{
				To:      model.DecodeNodeID(rec.To),
				Label:   rec.Label,
				Type:    edgeTypeFromName(rec.Type),
				Options: rec.Options,
			})
		default:
			return nil, fmt.Errorf("export: jsonl line %d: unknown kind %q", lineNo, rec.Kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("export: jsonl read: %w", err)
	}

	return g, nil
}

func edgeTypeFromName(name string) graph.EdgeType {
	switch name {
	case edgeNav:
		return graph.EdgeNavigate
	case edgeTransition:
		return graph.EdgeTransition
	default:
		return graph.EdgeClick
	}
}
