package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/uiatlas/uiatlas/internal/export"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [jsonl-file]...",
		Short: "Render a saved crawl graph as Graphviz DOT",
		Long: `Render reads the pages.jsonl and edges.jsonl files produced by the crawl
command and writes the equivalent Graphviz DOT document, without
re-crawling. Records carry a kind tag, so any combination of the two
files (or a single concatenated file) works.

Examples:
  # Render a full crawl to stdout
  uiatlas render pages.jsonl edges.jsonl

  # Render to a file
  uiatlas render -o site.dot pages.jsonl edges.jsonl

  # Pipe straight into Graphviz
  uiatlas render pages.jsonl edges.jsonl | dot -Tsvg -o site.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRenderCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Write DOT output to the given file instead of stdout")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	readers := make([]io.Reader, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path) //nolint:gosec // User-provided graph path is intentional
		if err != nil {
			return fmt.Errorf("failed to open graph file: %w", err)
		}
		defer f.Close()
		readers = append(readers, f)
	}

	g, err := export.LoadGraph(io.MultiReader(readers...))
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		dir := filepath.Dir(outputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		of, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer of.Close()
		out = of
	}

	if _, err := export.NewDOTWriter(out).Write(g); err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}
	return nil
}
