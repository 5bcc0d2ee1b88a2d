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

	"github.com/nao1215/a11yagg/internal/model"
)

// DBFileName is the name of the SQLite file inside the database directory.
const DBFileName = "a11yagg.db"

// timestampLayout is fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02 15:04:05.000000"

// AnalysisDB provides SQLite-based storage for analysis history.
//
// Design decision: Each run is stored twice: once as the full report JSON,
// which is what readers get back, and once as normalized priority rows,
// which lets comparisons and listings avoid decoding every report.
type AnalysisDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AnalysisDB behavior.
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

// Open opens or creates an AnalysisDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, ErrNotFound
// is returned.
func Open(dbDir string, opts Options) (*AnalysisDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AnalysisDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Path returns the database file path.
func (adb *AnalysisDB) Path() string {
	return adb.dbPath
}

// Close closes the database connection.
func (adb *AnalysisDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AnalysisDB) createTables() error {
	schema := `
	-- One row per saved analysis run
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		dataset TEXT NOT NULL,
		source TEXT,
		timestamp TEXT NOT NULL,
		report_json TEXT NOT NULL,
		summary_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_dataset ON analysis_runs(dataset);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON analysis_runs(timestamp);

	-- The priority table of each run, in rank order
	CREATE TABLE IF NOT EXISTS issue_rows (
		run_id TEXT NOT NULL REFERENCES analysis_runs(run_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		issue_type TEXT NOT NULL,
		total_occurrences INTEGER NOT NULL,
		urls_affected INTEGER NOT NULL,
		impact_score INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_issue_rows_type ON issue_rows(issue_type);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport stores a report and its priority rows in one transaction.
// It returns the row ID of the stored run.
func (adb *AnalysisDB) SaveReport(ctx context.Context, report *model.AnalysisReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}
	summaryJSON, err := json.Marshal(report.Summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO analysis_runs (run_id, dataset, source, timestamp, report_json, summary_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		report.RunID,
		report.Dataset,
		report.Source,
		report.AnalyzedAt.UTC().Format(timestampLayout),
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO issue_rows (run_id, position, issue_type, total_occurrences, urls_affected, impact_score)
	VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare issue insert: %w", err)
	}
	defer stmt.Close()

	for i, issue := range report.Issues {
		if _, err := stmt.ExecContext(ctx,
			report.RunID, i, issue.IssueType,
			issue.TotalOccurrences, issue.URLsAffected, issue.ImpactScore,
		); err != nil {
			return 0, fmt.Errorf("failed to save issue row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit analysis run: %w", err)
	}

	return result.LastInsertId()
}

// GetLatestReport returns the most recent report for dataset, or nil if
// the dataset has no history.
func (adb *AnalysisDB) GetLatestReport(ctx context.Context, dataset string) (*model.AnalysisReport, error) {
	return adb.queryReport(ctx, `
	SELECT report_json FROM analysis_runs
	WHERE dataset = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`, dataset)
}

// GetReportByID returns the report stored under row ID id, or nil.
func (adb *AnalysisDB) GetReportByID(ctx context.Context, id int64) (*model.AnalysisReport, error) {
	return adb.queryReport(ctx, `SELECT report_json FROM analysis_runs WHERE id = ?`, id)
}

// GetReportByRunID returns the report with the given run ID, or nil.
func (adb *AnalysisDB) GetReportByRunID(ctx context.Context, runID string) (*model.AnalysisReport, error) {
	return adb.queryReport(ctx, `SELECT report_json FROM analysis_runs WHERE run_id = ?`, runID)
}

// queryReport decodes the single report selected by query.
func (adb *AnalysisDB) queryReport(ctx context.Context, query string, args ...any) (*model.AnalysisReport, error) {
	var reportJSON string
	err := adb.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis report: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// RunMetadata contains summary information about a stored run.
type RunMetadata struct {
	ID        int64
	RunID     string
	Dataset   string
	Timestamp time.Time
	Summary   model.Summary
}

// GetHistoryWithMetadata returns run metadata for dataset without decoding
// the full reports, newest first.
func (adb *AnalysisDB) GetHistoryWithMetadata(ctx context.Context, dataset string) ([]RunMetadata, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT id, run_id, dataset, timestamp, summary_json
	FROM analysis_runs
	WHERE dataset = ?
	ORDER BY timestamp DESC, id DESC
	`, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.RunID, &meta.Dataset, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		if summaryJSON.Valid && summaryJSON.String != "" {
			// A corrupt summary leaves zero metrics rather than failing the listing.
			_ = json.Unmarshal([]byte(summaryJSON.String), &meta.Summary) //nolint:errcheck
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetIssueRows returns the stored priority table of a run in rank order.
func (adb *AnalysisDB) GetIssueRows(ctx context.Context, runID string) ([]model.RankedIssue, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT issue_type, total_occurrences, urls_affected, impact_score
	FROM issue_rows
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue rows: %w", err)
	}
	defer rows.Close()

	issues := []model.RankedIssue{}
	for rows.Next() {
		var issue model.RankedIssue
		if err := rows.Scan(&issue.IssueType, &issue.TotalOccurrences, &issue.URLsAffected, &issue.ImpactScore); err != nil {
			return nil, fmt.Errorf("failed to scan issue row: %w", err)
		}
		issues = append(issues, issue)
	}

	return issues, rows.Err()
}

// ListDatasets returns every dataset name with stored history, sorted.
func (adb *AnalysisDB) ListDatasets(ctx context.Context) ([]string, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT DISTINCT dataset FROM analysis_runs
	ORDER BY dataset
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, name)
	}

	return datasets, rows.Err()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp parses a stored timestamp as UTC, returning the zero time
// when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
