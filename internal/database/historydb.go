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

	"github.com/seclog/seclog/internal/model"
)

// DBFileName is the SQLite database file name inside the data directory.
const DBFileName = "seclog.db"

// HistoryDB provides SQLite-based storage for inspection history.
//
// Design decision: We store one row per inspection rather than only the
// latest state per path. History is the point: drift detection needs at
// least the previous digest, and keeping every row makes the audit trail
// append-only.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
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

// Open opens or creates a HistoryDB inside the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

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

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent inserts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per file inspection, append-only
	CREATE TABLE IF NOT EXISTS inspections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		digest TEXT NOT NULL,
		digest_algorithm TEXT NOT NULL,
		truncated INTEGER NOT NULL DEFAULT 0,
		matches TEXT NOT NULL DEFAULT '[]',
		inspected_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_inspections_path ON inspections(path);
	CREATE INDEX IF NOT EXISTS idx_inspections_inspected_at ON inspections(inspected_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertInspection stores an inspection result and returns its row ID.
func (hdb *HistoryDB) InsertInspection(ctx context.Context, insp *model.FileInspection) (int64, error) {
	matchesJSON, err := json.Marshal(insp.Matches)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize matches: %w", err)
	}

	query := `
	INSERT INTO inspections (path, size_bytes, digest, digest_algorithm, truncated, matches, inspected_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		insp.Path,
		insp.SizeBytes,
		insp.Digest,
		insp.DigestAlgorithm,
		insp.Truncated,
		string(matchesJSON),
		insp.InspectedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert inspection: %w", err)
	}

	return result.LastInsertId()
}

// GetHistory retrieves inspections of a path, newest first. limit <= 0
// means no limit.
func (hdb *HistoryDB) GetHistory(ctx context.Context, path string, limit int) ([]*model.FileInspection, error) {
	query := `
	SELECT path, size_bytes, digest, digest_algorithm, truncated, matches, inspected_at
	FROM inspections
	WHERE path = ?
	ORDER BY inspected_at DESC, id DESC
	`
	args := []any{path}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var results []*model.FileInspection
	for rows.Next() {
		insp, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, insp)
	}

	return results, rows.Err()
}

// GetLatest retrieves the most recent inspection of a path, or nil when
// the path has never been inspected.
func (hdb *HistoryDB) GetLatest(ctx context.Context, path string) (*model.FileInspection, error) {
	history, err := hdb.GetHistory(ctx, path, 1)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	return history[0], nil
}

// ListPaths returns every path that has at least one stored inspection.
func (hdb *HistoryDB) ListPaths(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT path FROM inspections
	ORDER BY path
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}

	return paths, rows.Err()
}

// Drift describes the difference between the two most recent
// inspections of a path.
type Drift struct {
	// Previous and Latest are the compared inspections, newest last.
	Previous *model.FileInspection
	Latest   *model.FileInspection

	// Changed is true when the content digest differs.
	Changed bool

	// NewMatches are categories present in the latest inspection but not
	// the previous one.
	NewMatches []string
}

// ErrInsufficientHistory is returned by CompareLatest when a path has
// fewer than two stored inspections.
var ErrInsufficientHistory = errors.New("need at least two inspections to compare")

// CompareLatest compares the two most recent inspections of a path.
func (hdb *HistoryDB) CompareLatest(ctx context.Context, path string) (*Drift, error) {
	history, err := hdb.GetHistory(ctx, path, 2)
	if err != nil {
		return nil, err
	}
	if len(history) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrInsufficientHistory, path)
	}

	latest, previous := history[0], history[1]

	seen := make(map[string]bool, len(previous.Matches))
	for _, c := range previous.Matches {
		seen[c] = true
	}
	var fresh []string
	for _, c := range latest.Matches {
		if !seen[c] {
			fresh = append(fresh, c)
		}
	}

	return &Drift{
		Previous:   previous,
		Latest:     latest,
		Changed:    latest.Digest != previous.Digest || latest.DigestAlgorithm != previous.DigestAlgorithm,
		NewMatches: fresh,
	}, nil
}

// scanInspection reads one inspection row.
func scanInspection(rows *sql.Rows) (*model.FileInspection, error) {
	var insp model.FileInspection
	var matchesJSON string
	var inspectedAt string

	if err := rows.Scan(
		&insp.Path,
		&insp.SizeBytes,
		&insp.Digest,
		&insp.DigestAlgorithm,
		&insp.Truncated,
		&matchesJSON,
		&inspectedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan inspection: %w", err)
	}

	if err := json.Unmarshal([]byte(matchesJSON), &insp.Matches); err != nil {
		insp.Matches = []string{}
	}
	insp.InspectedAt = parseTimestamp(inspectedAt)

	return &insp, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
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
