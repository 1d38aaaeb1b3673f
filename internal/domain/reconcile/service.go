package reconcile

import (
	"context"
	"time"
)

// ReconcileService defines the reconciliation use cases
type ReconcileService interface {
	// Reconcile classifies already-parsed records and stores the run
	Reconcile(ctx context.Context, req ReconcileRequest) (ReconcileResponse, error)

	// ReconcileUpload parses the biometric and timesheet files, then reconciles them
	ReconcileUpload(ctx context.Context, req UploadRequest) (ReconcileResponse, error)

	// GetRun retrieves a stored run
	GetRun(ctx context.Context, id string) (ReconcileResponse, error)

	// ListRuns returns run headers, newest first
	ListRuns(ctx context.Context, limit int) ([]RunListItem, error)

	// Recompute reruns a stored run from scratch with new thresholds
	Recompute(ctx context.Context, req RecomputeRequest) (ReconcileResponse, error)

	// RepairThresholds applies the neighbour-adjustment policy for a moved threshold
	RepairThresholds(ctx context.Context, req RepairThresholdsRequest) (Thresholds, error)

	// PruneRuns deletes runs older than the retention window
	PruneRuns(ctx context.Context, retention time.Duration) (int64, error)
}

// Run events published to stream subscribers
const (
	EventRunCreated    = "run.created"
	EventRunRecomputed = "run.recomputed"
	EventRunsPruned    = "runs.pruned"
)
