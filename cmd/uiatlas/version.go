package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time via ldflags. Fields left empty fall back to the
// build info the Go toolchain embeds in the binary.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildFields resolves the version, short commit hash, and build date.
func buildFields() (v, rev, when string) {
	v, rev, when = version, commit, date

	info, ok := debug.ReadBuildInfo()
	if !ok {
		info = &debug.BuildInfo{}
	}
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if v == "" {
		v = info.Main.Version
	}
	if v == "" {
		v = "(devel)"
	}

	if rev == "" {
		rev = settings["vcs.revision"]
		if len(rev) > 7 {
			rev = rev[:7]
		}
	}
	if rev == "" {
		rev = "unknown"
	}

	if when == "" {
		when = settings["vcs.time"]
	}
	if when == "" {
		when = "unknown"
	}
	return v, rev, when
}

// getVersion returns just the version field, for cobra's --version.
func getVersion() string {
	v, _, _ := buildFields()
	return v
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of uiatlas.`,
		Run: func(cmd *cobra.Command, _ []string) {
			v, rev, when := buildFields()
			fmt.Fprintf(cmd.OutOrStdout(), "uiatlas version %s\n", v)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", rev)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", when)
		},
	}
}
