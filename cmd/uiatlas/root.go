// Package main provides the entry point for the uiatlas CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for uiatlas.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uiatlas",
		Short: "Map websites as action graphs of pages and UI states",
		Long: `uiatlas maps websites as action graphs. It drives a headless browser
through a site, follows same-origin links, probes clickable elements for
transient UI states (menus, modals, dropdowns), and assembles pages,
transitions, and options into a typed graph.

The graph is exported as JSONL for machine consumption and as Graphviz
DOT for visualization.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
