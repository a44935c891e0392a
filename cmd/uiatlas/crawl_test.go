package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/uiatlas/uiatlas/internal/config"
)

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl [url]..." {
			t.Errorf("expected use 'crawl [url]...', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"depth", "max-pages", "concurrency", "transitions",
			"nav-timeout", "quiet-window", "delay",
			"headless", "block-resources", "screenshots",
			"output", "markdown", "config", "save", "db-dir",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})

	t.Run("flag defaults match config defaults", func(t *testing.T) {
		t.Parallel()
		if got := cmd.Flags().Lookup("depth").DefValue; got != "1" {
			t.Errorf("depth default = %q, want %q", got, "1")
		}
		if got := cmd.Flags().Lookup("max-pages").DefValue; got != "50" {
			t.Errorf("max-pages default = %q, want %q", got, "50")
		}
		if got := cmd.Flags().Lookup("headless").DefValue; got != "true" {
			t.Errorf("headless default = %q, want %q", got, "true")
		}
	})
}

// TestBuildCrawlConfig tests config construction from flags.
func TestBuildCrawlConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildCrawlConfig() error = %v", err)
		}

		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "https://example.com" {
			t.Errorf("seeds = %v", cfg.Seeds)
		}
		if cfg.MaxDepth != config.DefaultMaxDepth {
			t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, config.DefaultMaxDepth)
		}
		if cfg.NavTimeout != config.DefaultNavTimeout {
			t.Errorf("NavTimeout = %v, want %v", cfg.NavTimeout, config.DefaultNavTimeout)
		}
		if !cfg.Headless {
			t.Error("expected Headless default true")
		}
		if cfg.SiteConfigs == nil {
			t.Error("expected non-nil SiteConfigs")
		}
	})

	t.Run("flag overrides", func(t *testing.T) {
		cmd := NewCrawlCmd()
		err := cmd.ParseFlags([]string{
			"--depth", "3",
			"--max-pages", "200",
			"--transitions", "5",
			"--nav-timeout", "5s",
			"--headless=false",
			"--markdown",
			"--save",
		})
		if err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildCrawlConfig() error = %v", err)
		}

		if cfg.MaxDepth != 3 {
			t.Errorf("MaxDepth = %d, want 3", cfg.MaxDepth)
		}
		if cfg.MaxPages != 200 {
			t.Errorf("MaxPages = %d, want 200", cfg.MaxPages)
		}
		if cfg.TransitionsPerPage != 5 {
			t.Errorf("TransitionsPerPage = %d, want 5", cfg.TransitionsPerPage)
		}
		if cfg.NavTimeout != 5*time.Second {
			t.Errorf("NavTimeout = %v, want 5s", cfg.NavTimeout)
		}
		if cfg.Headless {
			t.Error("expected Headless false")
		}
		if !cfg.MarkdownSummary {
			t.Error("expected MarkdownSummary true")
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB true")
		}
	})

	t.Run("explicit missing config file errors", func(t *testing.T) {
		cmd := NewCrawlCmd()
		missing := filepath.Join(t.TempDir(), "nope.yaml")
		if err := cmd.ParseFlags([]string{"--config", missing}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		_, err := buildCrawlConfig(cmd, []string{"https://example.com"})
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("loads explicit config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "site.yaml")
		content := "sites:\n  example.com:\n    depth: 4\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildCrawlConfig() error = %v", err)
		}

		site := cfg.SiteConfigs.GetSiteConfig("example.com")
		if site.Depth != 4 {
			t.Errorf("site depth = %d, want 4", site.Depth)
		}
	})
}

// TestSiteSettings tests per-host override resolution.
func TestSiteSettings(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Seeds = []string{"https://example.com/start"}
	cfg.SiteConfigs = &config.File{
		Defaults: config.SiteConfig{TransitionsPerPage: 7},
		Sites: map[string]config.SiteConfig{
			"example.com": {Depth: 2, IgnorePatterns: []string{"/logout"}},
		},
	}

	site := siteSettings(cfg)
	if site.Depth != 2 {
		t.Errorf("Depth = %d, want 2", site.Depth)
	}
	if site.TransitionsPerPage != 7 {
		t.Errorf("TransitionsPerPage = %d, want 7 from defaults", site.TransitionsPerPage)
	}
	if len(site.IgnorePatterns) != 1 || site.IgnorePatterns[0] != "/logout" {
		t.Errorf("IgnorePatterns = %v", site.IgnorePatterns)
	}

	t.Run("no site configs", func(t *testing.T) {
		t.Parallel()
		bare := config.NewConfig()
		bare.Seeds = []string{"https://example.com"}
		if got := siteSettings(bare); got.Depth != 0 {
			t.Errorf("expected zero config, got %+v", got)
		}
	})
}

// TestWriteOutputs tests export file creation.
func TestWriteOutputs(t *testing.T) {
	t.Parallel()

	t.Run("writes all exports", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.OutputDir = filepath.Join(t.TempDir(), "out")
		cfg.MarkdownSummary = true

		writeOutputs(cfg, sampleRenderGraph(), slog.New(slog.NewTextHandler(io.Discard, nil)))

		for _, name := range []string{pagesJSONLFile, edgesJSONLFile, graphDOTFile, summaryFile} {
			path := filepath.Join(cfg.OutputDir, name)
			info, err := os.Stat(path)
			if err != nil {
				t.Errorf("missing export %s: %v", name, err)
				continue
			}
			if info.Size() == 0 {
				t.Errorf("export %s is empty", name)
			}
		}
	})

	t.Run("one failed export does not stop the rest", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.OutputDir = t.TempDir()

		// A directory squatting on the pages file makes that export fail.
		if err := os.Mkdir(filepath.Join(cfg.OutputDir, pagesJSONLFile), 0750); err != nil {
			t.Fatal(err)
		}

		var logs bytes.Buffer
		writeOutputs(cfg, sampleRenderGraph(), slog.New(slog.NewTextHandler(&logs, nil)))

		if !strings.Contains(logs.String(), "export failed") {
			t.Errorf("expected a logged export failure, got:\n%s", logs.String())
		}
		for _, name := range []string{edgesJSONLFile, graphDOTFile} {
			info, err := os.Stat(filepath.Join(cfg.OutputDir, name))
			if err != nil {
				t.Errorf("export %s should still be written: %v", name, err)
				continue
			}
			if info.Size() == 0 {
				t.Errorf("export %s is empty", name)
			}
		}
	})
}
