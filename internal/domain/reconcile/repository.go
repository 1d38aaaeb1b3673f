package reconcile

import (
	"context"
	"time"
)

// RunRepository persists reconciliation runs together with their inputs.
type RunRepository interface {
	// Create stores a new run and returns it with timestamps populated
	Create(ctx context.Context, run Run) (Run, error)

	// GetByID retrieves a run, returning ErrRunNotFound when absent
	GetByID(ctx context.Context, id string) (Run, error)

	// Update replaces thresholds and result of an existing run
	Update(ctx context.Context, run Run) error

	// List returns the most recent runs first
	List(ctx context.Context, limit int) ([]Run, error)

	// DeleteOlderThan removes runs created before cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
