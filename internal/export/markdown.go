package export

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/uiatlas/uiatlas/internal/graph"
	"github.com/uiatlas/uiatlas/internal/model"
)

// MarkdownWriter outputs a human-readable crawl summary.
// This format is designed for documentation and sharing; the JSONL and
// DOT exports remain the machine-readable sources of truth.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// Now supplies the report timestamp; overridable in tests.
	Now func() time.Time
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		Now:        time.Now,
	}
}

// Write outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) Write(g *graph.Graph) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, g)
	w.writePages(md, g)
	w.writeTransitions(md, g)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, g *graph.Graph) {
	stats := g.Stats()

	md.H1("Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Date", w.Now().Format("2006-01-02 15:04:05 MST")},
			{"Pages", strconv.Itoa(stats.Pages)},
			{"Transitions", strconv.Itoa(stats.Transitions)},
			{"Options", strconv.Itoa(stats.Options)},
			{"Edges", strconv.Itoa(stats.Edges)},
		},
	})
	md.PlainText("")
}

// writePages writes one row per visited page.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, g *graph.Graph) {
	md.H2("Pages")
	md.PlainText("")

	rows := make([][]string, 0)
	for _, p := range g.Pages() {
		status := "-"
		if p.StatusCode != nil {
			status = strconv.Itoa(*p.StatusCode)
		}
		rows = append(rows, []string{
			"`" + p.URL + "`",
			p.Title,
			strconv.Itoa(p.Depth),
			status,
			strconv.Itoa(len(g.NavTargets(p.URL))),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Depth", "Status", "Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTransitions lists the detected UI states per page.
func (w *MarkdownWriter) writeTransitions(md *markdown.Markdown, g *graph.Graph) {
	md.H2("UI States")
	md.PlainText("")

	found := false
	for _, n := range g.Nodes() {
		if n.Kind != model.KindTransition {
			continue
		}
		found = true

		options := make([]string, 0)
		for _, e := range g.Edges(n) {
			if e.To.Kind == model.KindOption {
				options = append(options, e.To.Option)
			}
		}

		md.H3("`" + n.Trigger + "` on `" + n.URL + "`")
		if len(options) > 0 {
			md.BulletList(options...)
		}
		md.PlainText("")
	}

	if !found {
		md.PlainText("No UI-state transitions were detected.")
		md.PlainText("")
	}
}
