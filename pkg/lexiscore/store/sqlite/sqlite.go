package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/score"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// PRAGMAs are per connection; a single connection keeps foreign keys
	// (and the cascades that depend on them) enabled for every statement.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	categories TEXT NOT NULL,
	doc_count INTEGER NOT NULL DEFAULT 0,
	error_count INTEGER NOT NULL DEFAULT 0,
	warning_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_rows (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	doc_id TEXT NOT NULL,
	terms INTEGER NOT NULL,
	tokens INTEGER NOT NULL,
	meta TEXT,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS row_counts (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	category TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, position, category),
	FOREIGN KEY(run_id, position) REFERENCES run_rows(run_id, position) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_rows_doc ON run_rows(doc_id);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts a run and all its rows in one transaction
func (s *sqliteStore) SaveRun(ctx context.Context, run store.Run, rows []score.Row) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidConfig)
	}

	cats, err := json.Marshal(run.Categories)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id=?`, run.ID); err != nil {
		return err
	}

	const insertRun = `
INSERT INTO runs (id, created_at, categories, doc_count, error_count, warning_count)
VALUES (?, ?, ?, ?, ?, ?);
`
	if _, err := tx.ExecContext(
		ctx,
		insertRun,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(cats),
		run.DocCount,
		run.ErrorCount,
		run.WarningCount,
	); err != nil {
		return err
	}

	if err := insertRows(ctx, tx, run.ID, rows); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRows(ctx context.Context, tx *sql.Tx, runID string, rows []score.Row) error {
	if len(rows) == 0 {
		return nil
	}
	rowStmt, err := tx.PrepareContext(ctx, `INSERT INTO run_rows (run_id, position, doc_id, terms, tokens, meta) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer rowStmt.Close()

	countStmt, err := tx.PrepareContext(ctx, `INSERT INTO row_counts (run_id, position, category, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer countStmt.Close()

	for pos, r := range rows {
		var meta sql.NullString
		if len(r.Meta) > 0 {
			data, err := json.Marshal(r.Meta)
			if err != nil {
				return err
			}
			meta = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := rowStmt.ExecContext(ctx, runID, pos, r.DocID, r.Terms, r.Tokens, meta); err != nil {
			return err
		}
		for cat, n := range r.Counts {
			if _, err := countStmt.ExecContext(ctx, runID, pos, cat, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, categories, doc_count, error_count, warning_count
FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return run, err
}

// ListRuns returns the most recent runs
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, categories, doc_count, error_count, warning_count
FROM runs
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		run       store.Run
		createdAt string
		cats      string
	)
	if err := sc.Scan(&run.ID, &createdAt, &cats, &run.DocCount, &run.ErrorCount, &run.WarningCount); err != nil {
		return store.Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = t
	if err := json.Unmarshal([]byte(cats), &run.Categories); err != nil {
		return store.Run{}, fmt.Errorf("decode categories: %w", err)
	}
	return run, nil
}

// Rows loads a run's rows with their category counts
func (s *sqliteStore) Rows(ctx context.Context, runID string) ([]score.Row, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT position, doc_id, terms, tokens, meta
FROM run_rows
WHERE run_id = ?
ORDER BY position;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []score.Row
	index := make(map[int]int)
	for rows.Next() {
		var (
			pos  int
			r    score.Row
			meta sql.NullString
		)
		if err := rows.Scan(&pos, &r.DocID, &r.Terms, &r.Tokens, &meta); err != nil {
			return nil, err
		}
		if meta.Valid {
			if err := json.Unmarshal([]byte(meta.String), &r.Meta); err != nil {
				return nil, fmt.Errorf("decode meta for %s: %w", r.DocID, err)
			}
		}
		r.Counts = make(map[string]int)
		index[pos] = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts, err := s.db.QueryContext(ctx, `SELECT position, category, count FROM row_counts WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer counts.Close()
	for counts.Next() {
		var (
			pos int
			cat string
			n   int
		)
		if err := counts.Scan(&pos, &cat, &n); err != nil {
			return nil, err
		}
		if i, ok := index[pos]; ok {
			out[i].Counts[cat] = n
		}
	}
	return out, counts.Err()
}

// DeleteRun removes a run and, via cascade, its rows
func (s *sqliteStore) DeleteRun(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}
