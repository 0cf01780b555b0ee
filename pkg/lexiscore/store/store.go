package store

import (
	"context"
	"time"

	"github.com/cognicore/lexiscore/pkg/lexiscore/score"
)

// Store persists analysis runs and their per-document rows.
type Store interface {
	Close() error

	// SaveRun writes a run and its rows atomically, replacing any run with
	// the same ID.
	SaveRun(ctx context.Context, run Run, rows []score.Row) error
	// GetRun returns internalerr.ErrNotFound for an unknown ID.
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns runs newest first. limit <= 0 means 20.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	// Rows returns a run's rows in the order they were saved.
	Rows(ctx context.Context, runID string) ([]score.Row, error)
	DeleteRun(ctx context.Context, id string) error
}

// Run describes one Analyze call. IDs are ULIDs, so sorting by ID sorts
// by creation time.
type Run struct {
	ID           string
	CreatedAt    time.Time
	Categories   []string
	DocCount     int
	ErrorCount   int
	WarningCount int
}

// DefaultListLimit is used when ListRuns gets a non-positive limit.
const DefaultListLimit = 20
