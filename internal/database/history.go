package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/jpfill/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "jpfill.db"

// timestampLayout has a fixed width so that stored timestamps sort
// lexicographically in chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB stores fill reports.
type HistoryDB struct {
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
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

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per fill pass; the full report is kept as JSON
	CREATE TABLE IF NOT EXISTS fill_passes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pass_id TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		host TEXT NOT NULL DEFAULT '',
		page_context TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		filled INTEGER NOT NULL DEFAULT 0,
		timed_out INTEGER NOT NULL DEFAULT 0,
		status_summary TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_passes_source ON fill_passes(source);
	CREATE INDEX IF NOT EXISTS idx_passes_host ON fill_passes(host);
	CREATE INDEX IF NOT EXISTS idx_passes_timestamp ON fill_passes(timestamp);

	-- Field outcomes are denormalized for statistics
	CREATE TABLE IF NOT EXISTS field_outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pass_id TEXT NOT NULL REFERENCES fill_passes(pass_id) ON DELETE CASCADE,
		selector TEXT NOT NULL,
		family TEXT NOT NULL,
		field_type TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_outcomes_pass ON field_outcomes(pass_id);
	CREATE INDEX IF NOT EXISTS idx_outcomes_type ON field_outcomes(field_type);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SavePass records a fill pass. Saving the same pass twice replaces the
// earlier record, so a pass may be stored before and after settling.
func (hdb *HistoryDB) SavePass(ctx context.Context, data model.FillReportData) error {
	if data.PassID == "" {
		return errors.New("fill report has no pass id")
	}

	reportJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	summary := make(map[string]int)
	for status, n := range data.CountByStatus() {
		summary[string(status)] = n
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // map[string]int always marshals

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM field_outcomes WHERE pass_id = ?`, data.PassID); err != nil {
		return fmt.Errorf("failed to replace outcomes: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO fill_passes (pass_id, source, host, page_context, timestamp, filled, timed_out, status_summary, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(pass_id) DO UPDATE SET
		filled = excluded.filled,
		timed_out = excluded.timed_out,
		status_summary = excluded.status_summary,
		report_json = excluded.report_json
	`,
		data.PassID,
		data.Source,
		hostOf(data.Source),
		data.PageContext.String(),
		formatTimestamp(data.StartedAt),
		data.Filled,
		data.TimedOut,
		string(summaryJSON),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save fill pass: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO field_outcomes (pass_id, selector, family, field_type, status)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range data.Outcomes {
		if _, err := stmt.ExecContext(ctx, data.PassID, o.Selector, string(o.Family), o.FieldType.String(), string(o.Status)); err != nil {
			return fmt.Errorf("failed to save outcome %s: %w", o.Selector, err)
		}
	}

	return tx.Commit()
}

// GetPass retrieves a pass by its pass id. It returns nil when no pass matches.
func (hdb *HistoryDB) GetPass(ctx context.Context, passID string) (*model.FillReportData, error) {
	return hdb.queryReport(ctx, `SELECT report_json FROM fill_passes WHERE pass_id = ?`, passID)
}

// GetPassByID retrieves a pass by its database ID.
func (hdb *HistoryDB) GetPassByID(ctx context.Context, id int64) (*model.FillReportData, error) {
	return hdb.queryReport(ctx, `SELECT report_json FROM fill_passes WHERE id = ?`, id)
}

// GetLatestPass retrieves the most recent pass over source.
func (hdb *HistoryDB) GetLatestPass(ctx context.Context, source string) (*model.FillReportData, error) {
	return hdb.queryReport(ctx, `
	SELECT report_json FROM fill_passes
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`, source)
}

func (hdb *HistoryDB) queryReport(ctx context.Context, query string, args ...any) (*model.FillReportData, error) {
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fill pass: %w", err)
	}

	var data model.FillReportData
	if err := json.Unmarshal([]byte(reportJSON), &data); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &data, nil
}

// ListSources returns every source that has at least one recorded pass.
func (hdb *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `SELECT DISTINCT source FROM fill_passes ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// PassMetadata contains summary information about a recorded pass.
// It is used for listing history without loading the full report.
type PassMetadata struct {
	// ID is the unique identifier of the pass in the database.
	ID int64 `json:"id"`

	PassID      string            `json:"pass_id"`
	Source      string            `json:"source"`
	PageContext model.PageContext `json:"page_context"`

	// Timestamp is when the pass started.
	Timestamp time.Time `json:"timestamp"`

	Filled   int  `json:"filled"`
	TimedOut bool `json:"timed_out"`

	// StatusSummary counts outcomes by status.
	StatusSummary map[model.Status]int `json:"status_summary"`
}

// History lists passes newest first. An empty source lists every pass.
// A positive limit caps the number of rows.
func (hdb *HistoryDB) History(ctx context.Context, source string, limit int) ([]PassMetadata, error) {
	query := `
	SELECT id, pass_id, source, page_context, timestamp, filled, timed_out, status_summary
	FROM fill_passes
	WHERE 1=1
	`
	args := make([]any, 0, 2)
	if source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []PassMetadata
	for rows.Next() {
		var meta PassMetadata
		var pageContext, timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.PassID, &meta.Source, &pageContext, &timestamp,
			&meta.Filled, &meta.TimedOut, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		_ = meta.PageContext.UnmarshalText([]byte(pageContext)) //nolint:errcheck // unknown contexts map to default
		meta.Timestamp = parseTimestamp(timestamp)
		meta.StatusSummary = make(map[model.Status]int)
		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.StatusSummary); err != nil {
				meta.StatusSummary = make(map[model.Status]int)
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// FieldStat counts outcomes of one field type with one status.
type FieldStat struct {
	FieldType string       `json:"field_type"`
	Status    model.Status `json:"status"`
	Count     int          `json:"count"`
}

// FieldStats aggregates recorded outcomes by field type and status, most
// frequent first. An empty host aggregates every pass.
func (hdb *HistoryDB) FieldStats(ctx context.Context, host string) ([]FieldStat, error) {
	query := `
	SELECT o.field_type, o.status, COUNT(*) AS n
	FROM field_outcomes o
	JOIN fill_passes p ON p.pass_id = o.pass_id
	WHERE 1=1
	`
	args := make([]any, 0, 1)
	if host != "" {
		query += " AND p.host = ?"
		args = append(args, host)
	}
	query += " GROUP BY o.field_type, o.status ORDER BY n DESC, o.field_type, o.status"

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query field stats: %w", err)
	}
	defer rows.Close()

	var stats []FieldStat
	for rows.Next() {
		var s FieldStat
		var status string
		if err := rows.Scan(&s.FieldType, &status, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan field stat: %w", err)
		}
		s.Status = model.Status(status)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// DeleteBefore removes passes that started before cutoff and returns how
// many were removed.
func (hdb *HistoryDB) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := formatTimestamp(cutoff)
	if _, err := tx.ExecContext(ctx, `
	DELETE FROM field_outcomes
	WHERE pass_id IN (SELECT pass_id FROM fill_passes WHERE timestamp < ?)
	`, ts); err != nil {
		return 0, fmt.Errorf("failed to delete outcomes: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM fill_passes WHERE timestamp < ?`, ts)
	if err != nil {
		return 0, fmt.Errorf("failed to delete passes: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// hostOf returns the host of an http(s) source and "" for files.
func hostOf(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.Host
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp tries every known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
