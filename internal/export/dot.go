package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/uiatlas/uiatlas/internal/graph"
	"github.com/uiatlas/uiatlas/internal/model"
)

// maxDotLabel caps node and edge labels in DOT output. Graphviz renders
// long labels as unreadable smears; the encoded id in the tooltip keeps
// the full identity available.
const maxDotLabel = 40

// DOTWriter outputs the graph in Graphviz DOT format.
//
// Node styling distinguishes the three node kinds: pages are solid boxes,
// transitions are dotted blue ellipses, options are dashed gray ellipses.
//
// Design decision: We emit DOT with plain string building rather than a
// graph library because:
//  1. DOT is a line-oriented text format with trivial structure
//  2. Full control over deterministic ordering and styling
//  3. One fewer dependency for a write-only format
type DOTWriter struct {
	baseWriter
}

// NewDOTWriter creates a DOTWriter that outputs to the given writer.
func NewDOTWriter(output io.Writer) *DOTWriter {
	return &DOTWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the graph as DOT.
func (w *DOTWriter) Write(g *graph.Graph) (int, error) {
	bw := bufio.NewWriter(w.output)
	var total int

	emit := func(format string, args ...any) error {
		n, err := fmt.Fprintf(bw, format, args...)
		total += n
		return err
	}

	if err := emit("digraph uiatlas {\n"); err != nil {
		return total, err
	}
	if err := emit("  rankdir=LR;\n  node [fontsize=10];\n  edge [fontsize=9];\n\n"); err != nil {
		return total, err
	}

	for _, n := range g.Nodes() {
		if err := emit("  %s [%s];\n", quote(n.Encode()), nodeAttrs(n)); err != nil {
			return total, err
		}
	}

	if err := emit("\n"); err != nil {
		return total, err
	}

	for _, n := range g.Nodes() {
		for _, e := range g.Edges(n) {
			if err := emit("  %s -> %s [%s];\n",
				quote(n.Encode()), quote(e.To.Encode()), edgeAttrs(n, e)); err != nil {
				return total, err
			}
		}
	}

	if err := emit("}\n"); err != nil {
		return total, err
	}
	if err := bw.Flush(); err != nil {
		return total, fmt.Errorf("export: dot flush: %w", err)
	}
	return total, nil
}

// nodeAttrs styles a node by kind. The tooltip carries the full encoded
// id so truncated labels stay resolvable in interactive viewers.
func nodeAttrs(n model.NodeID) string {
	var label, style string
	switch n.Kind {
	case model.KindTransition:
		label = n.Trigger
		style = `shape=ellipse, style=dotted, color=blue`
	case model.KindOption:
		label = n.Option
		style = `shape=ellipse, style=dashed, color=gray`
	default:
		label = n.URL
		style = `shape=box`
	}
	return fmt.Sprintf("label=%s, tooltip=%s, %s",
		quote(truncate(label)), quote(n.Encode()), style)
}

// edgeAttrs styles an edge by type and endpoints. Edges touching an
// option node take the option styling so a transition's fan-out reads as
// one visual unit; a navigation resolved from an option stays solid like
// any other navigation.
func edgeAttrs(from model.NodeID, e graph.Edge) string {
	attrs := []string{fmt.Sprintf("label=%s", quote(truncate(e.Label)))}
	switch {
	case e.Type == graph.EdgeNavigate:
	case e.To.Kind == model.KindOption || from.Kind == model.KindOption:
		attrs = append(attrs, "style=dashed, color=gray")
	case e.Type == graph.EdgeTransition:
		attrs = append(attrs, "style=dotted, color=blue")
	case e.Type == graph.EdgeClick || e.Type == graph.EdgeToggle:
		attrs = append(attrs, "style=dashed")
	}
	return strings.Join(attrs, ", ")
}

// quote escapes a string into a DOT double-quoted literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// truncate caps a label for display, marking the cut with an ellipsis.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDotLabel {
		return s
	}
	return string(runes[:maxDotLabel-1]) + "…"
}
