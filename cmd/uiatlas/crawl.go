package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/uiatlas/uiatlas/internal/browser"
	"github.com/uiatlas/uiatlas/internal/config"
	"github.com/uiatlas/uiatlas/internal/crawler"
	"github.com/uiatlas/uiatlas/internal/database"
	"github.com/uiatlas/uiatlas/internal/export"
	"github.com/uiatlas/uiatlas/internal/graph"
	"github.com/uiatlas/uiatlas/internal/log"
	"github.com/uiatlas/uiatlas/internal/visit"
)

// Export file names inside the output directory.
const (
	pagesJSONLFile = "pages.jsonl"
	edgesJSONLFile = "edges.jsonl"
	graphDOTFile   = "graph.dot"
	summaryFile    = "report.md"
	screenshotDir  = "screenshots"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]...",
		Short: "Crawl a site and map its pages and UI states",
		Long: `Crawl drives a headless browser through a site, starting from the given
seed URLs. It follows same-origin links breadth-first, probes clickable
elements for menus, modals, and other transient UI states, and assembles
everything into a typed action graph.

Outputs written to the output directory:
- pages.jsonl  one record per visited page
- edges.jsonl  one record per graph edge
- graph.dot    Graphviz rendering of the full graph
- report.md    human-readable summary (with --markdown)

Examples:
  # Map a site one level deep
  uiatlas crawl https://example.com

  # Deeper crawl with more probing per page
  uiatlas crawl --depth 2 --transitions 20 https://example.com

  # Watch the browser work
  uiatlas crawl --headless=false https://example.com

  # Keep the run in the local database for later inspection
  uiatlas crawl --save https://example.com

Configuration file (.uiatlas) example:
  sites:
    example.com:
      depth: 2
      ignorePatterns:
        - /logout`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link distance from a seed URL")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to visit")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of pages visited in parallel")
	cmd.Flags().Int("transitions", config.DefaultTransitionsPerPage,
		"Maximum triggers probed per page (0 disables probing)")
	cmd.Flags().DurationP("nav-timeout", "t", config.DefaultNavTimeout,
		"Timeout for a single page navigation")
	cmd.Flags().Duration("quiet-window", config.DefaultQuietWindow,
		"DOM quiet interval required after an interaction")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Pause between crawl layers")

	// Browser flags
	cmd.Flags().Bool("headless", true,
		"Run the browser without a visible window")
	cmd.Flags().Bool("block-resources", true,
		"Skip image, media, and font requests for faster loads")
	cmd.Flags().Bool("screenshots", false,
		"Capture a full-page screenshot of every visited page")

	// Output flags
	cmd.Flags().StringP("output", "o", ".",
		"Directory for exports (created if needed)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Also write a Markdown crawl summary")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .uiatlas in the current or home directory, or config.yaml in the XDG config directory)")

	// Persistence flags
	cmd.Flags().Bool("save", false,
		"Save the crawl run to the local SQLite database")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.Clamp()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with redaction
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCrawlConfig creates a Config from cobra command flags.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.TransitionsPerPage, err = cmd.Flags().GetInt("transitions")
	if err != nil {
		return nil, err
	}

	cfg.NavTimeout, err = cmd.Flags().GetDuration("nav-timeout")
	if err != nil {
		return nil, err
	}

	cfg.QuietWindow, err = cmd.Flags().GetDuration("quiet-window")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Headless, err = cmd.Flags().GetBool("headless")
	if err != nil {
		return nil, err
	}

	cfg.BlockResources, err = cmd.Flags().GetBool("block-resources")
	if err != nil {
		return nil, err
	}

	cfg.Screenshots, err = cmd.Flags().GetBool("screenshots")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	// Positional arguments are the seed URLs
	cfg.Seeds = args

	return cfg, nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	site := siteSettings(cfg)

	blockResources := cfg.BlockResources
	if site.BlockResources != nil {
		blockResources = *site.BlockResources
	}
	var blocked []string
	if blockResources {
		blocked = []string{"image", "media", "font"}
	}

	manager := browser.NewManager(browser.Options{
		Headless:       cfg.Headless,
		BlockResources: blocked,
		Logger:         logger,
	})
	if err := manager.Start(); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if err := manager.Close(); err != nil {
			logger.Warn("browser shutdown failed", "error", err)
		}
	}()

	depth := cfg.MaxDepth
	if site.Depth > 0 {
		depth = site.Depth
	}
	transitions := cfg.TransitionsPerPage
	if site.TransitionsPerPage > 0 {
		transitions = site.TransitionsPerPage
	}
	if site.DisableTransitions {
		transitions = 0
	}

	visitor := visit.NewBrowserVisitor(manager, visit.Options{
		NavTimeout:         cfg.NavTimeout,
		QuietWindow:        cfg.QuietWindow,
		TransitionsPerPage: transitions,
		Screenshots:        cfg.Screenshots,
		ScreenshotDir:      filepath.Join(cfg.OutputDir, screenshotDir),
		Logger:             logger,
	})

	c := crawler.New(visitor, crawler.Options{
		MaxDepth:       depth,
		MaxPages:       cfg.MaxPages,
		Concurrency:    cfg.Concurrency,
		CrawlDelay:     cfg.CrawlDelay,
		IgnorePatterns: site.IgnorePatterns,
		Logger:         logger,
	})

	fmt.Printf("Crawling %s...\n", strings.Join(cfg.Seeds, ", "))
	startTime := time.Now()

	g, err := c.Run(ctx, cfg.Seeds)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("crawl interrupted, exporting partial results")
	}

	elapsed := time.Since(startTime)
	stats := g.Stats()
	fmt.Printf("Crawl completed in %s: %d pages, %d transitions, %d edges\n\n",
		elapsed.Round(time.Millisecond), stats.Pages, stats.Transitions, stats.Edges)

	writeOutputs(cfg, g, logger)

	// Persistence runs on a fresh context so an interrupted crawl can
	// still save its partial graph. Failures are logged, never fatal.
	if cfg.SaveToDB {
		if err := saveRun(context.Background(), cfg, g, logger); err != nil {
			logger.Error("failed to save crawl run", "error", err)
		}
	}

	return nil
}

// siteSettings returns the merged site configuration for the first seed's
// host. A run normally targets a single origin; additional seeds share
// the first seed's overrides.
func siteSettings(cfg *config.Config) config.SiteConfig {
	if cfg.SiteConfigs == nil || len(cfg.Seeds) == 0 {
		return config.SiteConfig{}
	}
	u, err := url.Parse(cfg.Seeds[0])
	if err != nil {
		return cfg.SiteConfigs.Defaults
	}
	return cfg.SiteConfigs.GetSiteConfig(u.Hostname())
}

// writeOutputs writes the JSONL and DOT exports, plus the optional
// Markdown summary, into the output directory. A failed export is
// logged and skipped; the crawl result is never discarded over one
// unwritable file, and every remaining export still gets written.
func writeOutputs(cfg *config.Config, g *graph.Graph, logger *slog.Logger) {
	if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
		logger.Error("failed to create output directory",
			"dir", cfg.OutputDir, "error", err)
		return
	}

	type exportSpec struct {
		file      string
		newWriter func(io.Writer) export.Writer
	}
	specs := []exportSpec{
		{pagesJSONLFile, func(w io.Writer) export.Writer { return export.NewPagesJSONLWriter(w) }},
		{edgesJSONLFile, func(w io.Writer) export.Writer { return export.NewEdgesJSONLWriter(w) }},
		{graphDOTFile, func(w io.Writer) export.Writer { return export.NewDOTWriter(w) }},
	}
	if cfg.MarkdownSummary {
		specs = append(specs, exportSpec{
			summaryFile,
			func(w io.Writer) export.Writer { return export.NewMarkdownWriter(w) },
		})
	}

	for _, s := range specs {
		path := filepath.Join(cfg.OutputDir, s.file)
		if err := exportTo(path, g, s.newWriter); err != nil {
			logger.Error("export failed", "path", path, "error", err)
		}
	}

	fmt.Printf("Results written to %s\n", cfg.OutputDir)
}

// exportTo writes one export file with owner-only permissions.
func exportTo(path string, g *graph.Graph, newWriter func(io.Writer) export.Writer) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Path is under the user's output directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := newWriter(f).Write(g); err != nil {
		f.Close() //nolint:errcheck,gosec // Write error takes precedence
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}

// saveRun persists the graph as a new run in the crawl database.
func saveRun(ctx context.Context, cfg *config.Config, g *graph.Graph, logger *slog.Logger) error {
	dir := cfg.DBDir
	if dir == "" {
		dir = config.XDGDataDir()
	}

	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runID, err := db.CreateRun(ctx, cfg.Seeds)
	if err != nil {
		return err
	}
	if err := db.SaveGraph(ctx, runID, g); err != nil {
		return err
	}

	logger.Info("crawl run saved", "runID", runID, "dir", dir)
	return nil
}
