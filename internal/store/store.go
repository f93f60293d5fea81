// Package store persists evaluation runs for the runs subcommands and the
// serve mode. Two backends exist: SQLite (default, local file) and
// Postgres. The computation engine never touches the store.
package store

import (
	"context"
	"time"

	"github.com/debtlab/loan-cli/internal/engine"
	"github.com/debtlab/loan-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status       model.RunStatus `json:"status,omitempty"`
	Preset       string          `json:"preset,omitempty"`
	CreatedAfter time.Time       `json:"created_after,omitempty"`
	Limit        int             `json:"limit,omitempty"`
	Offset       int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for evaluation history.
type Store interface {
	// CreateRun records one finished evaluation: the resolved inputs plus
	// either the report (complete) or the error text (failed).
	CreateRun(ctx context.Context, preset string, inputs engine.Inputs, report *engine.Report, evalErr error) (*model.Run, error)
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
