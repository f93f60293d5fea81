// Package model defines the persisted evaluation-run records shared by
// the store backends and the CLI/serve surfaces.
package model

import (
	"time"

	"github.com/debtlab/loan-cli/internal/engine"
)

// RunStatus represents the terminal state of an evaluation run. Runs are
// instantaneous, so there is no in-flight state to track.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one saved evaluation: the fully-resolved inputs, the preset that
// seeded them (if any), and the report or the error the engine produced.
// The engine itself never reads runs back; history is purely for the
// caller's benefit.
type Run struct {
	ID        string         `json:"id"`
	Preset    string         `json:"preset,omitempty"`
	Inputs    engine.Inputs  `json:"inputs"`
	Status    RunStatus      `json:"status"`
	Report    *engine.Report `json:"report,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
