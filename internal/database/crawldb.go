package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/uiatlas/uiatlas/internal/graph"
	"github.com/uiatlas/uiatlas/internal/model"
)

// CrawlDB provides SQLite-based storage for crawl runs.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all runs rather
// than one file per site. This simplifies cross-run queries and
// backup/restore operations.
type CrawlDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "uiatlas.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Runs store one row per crawl invocation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		seeds TEXT NOT NULL,
		pages INTEGER DEFAULT 0,
		transitions INTEGER DEFAULT 0,
		options INTEGER DEFAULT 0,
		edges INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Pages store individual page visits per run
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		title TEXT,
		depth INTEGER DEFAULT 0,
		status_code INTEGER,
		screenshot TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);

	-- Edges store the graph connections per run, endpoints in encoded form
	CREATE TABLE IF NOT EXISTS edges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		label TEXT,
		type TEXT NOT NULL,
		options TEXT,
		UNIQUE(run_id, from_id, to_id, label, type)
	);

	CREATE INDEX IF NOT EXISTS idx_edges_run ON edges(run_id);
	CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// CreateRun inserts a new run row and returns its id.
func (cdb *CrawlDB) CreateRun(ctx context.Context, seeds []string) (int64, error) {
	seedsJSON, err := json.Marshal(seeds)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize seeds: %w", err)
	}

	result, err := cdb.db.ExecContext(ctx,
		`INSERT INTO runs (seeds) VALUES (?)`, string(seedsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}
	return result.LastInsertId()
}

// SaveGraph persists all pages and edges of a finished crawl under the
// given run. Re-saving the same run upserts pages and ignores duplicate
// edges, so retries are safe.
func (cdb *CrawlDB) SaveGraph(ctx context.Context, runID int64, g *graph.Graph) error {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	pageQuery := `
	INSERT INTO pages (run_id, url, title, depth, status_code, screenshot)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, url) DO UPDATE SET
		title = excluded.title,
		depth = excluded.depth,
		status_code = excluded.status_code,
		screenshot = excluded.screenshot,
		timestamp = CURRENT_TIMESTAMP
	`
	for _, p := range g.Pages() {
		var status any
		if p.StatusCode != nil {
			status = *p.StatusCode
		}
		if _, err := tx.ExecContext(ctx, pageQuery,
			runID, p.URL, p.Title, p.Depth, status, p.ScreenshotPath); err != nil {
			return fmt.Errorf("failed to insert page %s: %w", p.URL, err)
		}
	}

	edgeQuery := `
	INSERT INTO edges (run_id, from_id, to_id, label, type, options)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, from_id, to_id, label, type) DO NOTHING
	`
	for _, n := range g.Nodes() {
		for _, e := range g.Edges(n) {
			var optionsJSON string
			if len(e.Options) > 0 {
				raw, err := json.Marshal(e.Options)
				if err != nil {
					return fmt.Errorf("failed to serialize options: %w", err)
				}
				optionsJSON = string(raw)
			}
			if _, err := tx.ExecContext(ctx, edgeQuery,
				runID, n.Encode(), e.To.Encode(), e.Label, string(e.Type), optionsJSON); err != nil {
				return fmt.Errorf("failed to insert edge: %w", err)
			}
		}
	}

	stats := g.Stats()
	if _, err := tx.ExecContext(ctx,
		`UPDATE runs SET pages = ?, transitions = ?, options = ?, edges = ? WHERE id = ?`,
		stats.Pages, stats.Transitions, stats.Options, stats.Edges, runID); err != nil {
		return fmt.Errorf("failed to update run stats: %w", err)
	}

	return tx.Commit()
}

// RunMetadata summarizes one stored crawl run.
type RunMetadata struct {
	// ID is the run's database id.
	ID int64

	// StartedAt is when the run began.
	StartedAt time.Time

	// Seeds are the start URLs of the run.
	Seeds []string

	// Pages, Transitions, Options, and Edges are the run's graph counts.
	Pages       int
	Transitions int
	Options     int
	Edges       int
}

// ListRuns returns all stored runs, most recent first.
func (cdb *CrawlDB) ListRuns(ctx context.Context) ([]RunMetadata, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT id, started_at, seeds, pages, transitions, options, edges
	FROM runs ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var startedAt, seedsJSON string

		if err := rows.Scan(&meta.ID, &startedAt, &seedsJSON,
			&meta.Pages, &meta.Transitions, &meta.Options, &meta.Edges); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.StartedAt = parseTimestamp(startedAt)
		if seedsJSON != "" {
			if err := json.Unmarshal([]byte(seedsJSON), &meta.Seeds); err != nil {
				meta.Seeds = nil
			}
		}
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRunPages returns the pages stored for a run, sorted by URL.
func (cdb *CrawlDB) GetRunPages(ctx context.Context, runID int64) ([]model.Page, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT url, title, depth, status_code, screenshot
	FROM pages WHERE run_id = ? ORDER BY url`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run pages: %w", err)
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		var p model.Page
		var status sql.NullInt64

		if err := rows.Scan(&p.URL, &p.Title, &p.Depth, &status, &p.ScreenshotPath); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		if status.Valid {
			code := int(status.Int64)
			p.StatusCode = &code
		}
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

// LoadRunGraph reconstructs the full graph of a stored run.
// Returns ErrRunNotFound for an unknown run id.
func (cdb *CrawlDB) LoadRunGraph(ctx context.Context, runID int64) (*graph.Graph, error) {
	var exists int
	err := cdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}

	g := graph.New()

	pages, err := cdb.GetRunPages(ctx, runID)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		g.AddPage(p)
	}

	rows, err := cdb.db.QueryContext(ctx, `
	SELECT from_id, to_id, label, type, options
	FROM edges WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fromID, toID, label, edgeType string
		var optionsJSON sql.NullString

		if err := rows.Scan(&fromID, &toID, &label, &edgeType, &optionsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}

		var options []string
		if optionsJSON.Valid && optionsJSON.String != "" {
			if err := json.Unmarshal([]byte(optionsJSON.String), &options); err != nil {
				options = nil
			}
		}

		g.AddEdge(model.DecodeNodeID(fromID), graph.Edge{
			To:      model.DecodeNodeID(toID),
			Label:   label,
			Type:    graph.EdgeType(edgeType),
			Options: options,
		})
	}

	return g, rows.Err()
}

// GetLatestRun returns the most recent run, or nil when none exist.
func (cdb *CrawlDB) GetLatestRun(ctx context.Context) (*RunMetadata, error) {
	runs, err := cdb.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
