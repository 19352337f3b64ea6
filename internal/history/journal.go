package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/portalwatch/portalwatch/internal/watcher"
)

// journalFile is the database file name inside the journal directory.
const journalFile = "portalwatch.db"

// Journal provides SQLite-based storage for cycle outcomes.
// It implements watcher.Recorder.
type Journal struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Journal behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended: the watch loop
	// appends while the history command may be reading.
	EnableWAL bool
}

// DefaultOptions returns the default journal options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Entry is one recorded cycle.
type Entry struct {
	// ID is the row identifier, ascending with insertion order.
	ID int64

	// Timestamp is when the cycle started.
	Timestamp time.Time

	// Outcome is the cycle outcome name (see watcher.Outcome).
	Outcome string

	// CanaryURL is the canary probed that cycle.
	CanaryURL string

	// PortalURL is the detected portal URL, if any.
	PortalURL string

	// Handler is the handler identity that ran, if any.
	Handler string

	// Reason is the login failure reason, if the login failed.
	Reason string

	// Detail is the failure detail, if any.
	Detail string
}

// Open opens or creates a Journal in the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; otherwise a missing database is an error (the history command
// with nothing recorded yet).
func Open(dbDir string, opts Options) (*Journal, error) {
	dbPath := filepath.Join(dbDir, journalFile)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("journal not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check journal path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files,
	// mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite supports a single writer; the watch loop is the only one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the path of the database file.
func (j *Journal) Path() string {
	return j.dbPath
}

// createTables creates the journal schema if it doesn't exist.
func (j *Journal) createTables() error {
	schema := `
	-- One row per completed check cycle
	CREATE TABLE IF NOT EXISTS cycles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		outcome TEXT NOT NULL,
		canary_url TEXT NOT NULL,
		portal_url TEXT,
		handler TEXT,
		reason TEXT,
		detail TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_cycles_timestamp ON cycles(timestamp);
	CREATE INDEX IF NOT EXISTS idx_cycles_outcome ON cycles(outcome);
	`

	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}

// Record appends a cycle result to the journal.
// It implements watcher.Recorder. Only classification data is stored;
// the failure detail goes through the error's message, never credentials.
func (j *Journal) Record(ctx context.Context, result watcher.CycleResult) error {
	var reason, detail string
	if result.Outcome == watcher.OutcomeLoginFailed {
		reason = result.Reason.String()
	}
	if result.Err != nil {
		detail = result.Err.Error()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO cycles (timestamp, outcome, canary_url, portal_url, handler, reason, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.Timestamp.UTC().Format(time.RFC3339Nano),
		result.Outcome.String(),
		result.CanaryURL,
		result.PortalURL,
		string(result.Handler),
		reason,
		detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record cycle: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first, up to limit.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, timestamp, outcome, canary_url, portal_url, handler, reason, detail
		FROM cycles
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Outcome, &e.CanaryURL, &e.PortalURL, &e.Handler, &e.Reason, &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = parsed
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal rows: %w", err)
	}

	return entries, nil
}

// CountByOutcome returns how many recorded cycles ended in each outcome.
func (j *Journal) CountByOutcome(ctx context.Context) (map[string]int, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*) FROM cycles GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}
