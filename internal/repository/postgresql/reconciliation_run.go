package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/pkg/database"
	"github.com/attendify/attendify-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type reconciliationRunRepositoryImpl struct {
	db *database.DB
}

func NewReconciliationRunRepository(db *database.DB) reconcile.RunRepository {
	return &reconciliationRunRepositoryImpl{db: db}
}

const runColumns = `id, working_threshold, partial_threshold, absent_threshold,
	biometric_data, timesheet_data, result, biometric_file, timesheet_file,
	created_at, updated_at`

// Create implements reconcile.RunRepository.
func (r *reconciliationRunRepositoryImpl) Create(ctx context.Context, run reconcile.Run) (reconcile.Run, error) {
	q := GetQuerier(ctx, r.db)

	biometric, timesheet, result, err := marshalRunPayload(run)
	if err != nil {
		return reconcile.Run{}, err
	}

	query := `
		INSERT INTO reconciliation_runs (
			id, working_threshold, partial_threshold, absent_threshold,
			biometric_data, timesheet_data, result, biometric_file, timesheet_file,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		run.ID,
		run.Thresholds.Working,
		run.Thresholds.Partial,
		run.Thresholds.Absent,
		biometric,
		timesheet,
		result,
		run.BiometricFile,
		run.TimesheetFile,
	).Scan(&run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return reconcile.Run{}, fmt.Errorf("failed to insert reconciliation run: %w", err)
	}

	return run, nil
}

// GetByID implements reconcile.RunRepository.
func (r *reconciliationRunRepositoryImpl) GetByID(ctx context.Context, id string) (reconcile.Run, error) {
	// run ids are UUIDv7; anything else cannot match the uuid column
	if !validator.IsValidUUID(id) {
		return reconcile.Run{}, reconcile.ErrRunNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM reconciliation_runs WHERE id = $1`

	run, err := scanRun(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reconcile.Run{}, reconcile.ErrRunNotFound
		}
		return reconcile.Run{}, fmt.Errorf("failed to get reconciliation run %s: %w", id, err)
	}
	return run, nil
}

// Update implements reconcile.RunRepository.
func (r *reconciliationRunRepositoryImpl) Update(ctx context.Context, run reconcile.Run) error {
	if !validator.IsValidUUID(run.ID) {
		return reconcile.ErrRunNotFound
	}
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var locked string
		err := q.QueryRow(ctx, `SELECT id FROM reconciliation_runs WHERE id = $1 FOR UPDATE`, run.ID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return reconcile.ErrRunNotFound
			}
			return fmt.Errorf("failed to lock reconciliation run %s: %w", run.ID, err)
		}

		result, err := json.Marshal(run.Result)
		if err != nil {
			return fmt.Errorf("failed to encode reconciliation result: %w", err)
		}

		query := `
			UPDATE reconciliation_runs
			SET working_threshold = $1,
				partial_threshold = $2,
				absent_threshold = $3,
				result = $4,
				updated_at = NOW()
			WHERE id = $5
		`
		if _, err := q.Exec(ctx, query,
			run.Thresholds.Working,
			run.Thresholds.Partial,
			run.Thresholds.Absent,
			result,
			run.ID,
		); err != nil {
			return fmt.Errorf("failed to update reconciliation run %s: %w", run.ID, err)
		}
		return nil
	})
}

// List implements reconcile.RunRepository.
func (r *reconciliationRunRepositoryImpl) List(ctx context.Context, limit int) ([]reconcile.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM reconciliation_runs ORDER BY created_at DESC LIMIT $1`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation runs: %w", err)
	}
	defer rows.Close()

	runs := []reconcile.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteOlderThan implements reconcile.RunRepository.
func (r *reconciliationRunRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM reconciliation_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reconciliation runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func marshalRunPayload(run reconcile.Run) (biometric, timesheet, result []byte, err error) {
	if biometric, err = json.Marshal(run.Biometric); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode biometric data: %w", err)
	}
	if timesheet, err = json.Marshal(run.Timesheet); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode timesheet data: %w", err)
	}
	if result, err = json.Marshal(run.Result); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode reconciliation result: %w", err)
	}
	return biometric, timesheet, result, nil
}

func scanRun(row pgx.Row) (reconcile.Run, error) {
	var run reconcile.Run
	var biometric, timesheet, result []byte

	err := row.Scan(
		&run.ID,
		&run.Thresholds.Working,
		&run.Thresholds.Partial,
		&run.Thresholds.Absent,
		&biometric,
		&timesheet,
		&result,
		&run.BiometricFile,
		&run.TimesheetFile,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return reconcile.Run{}, err
	}

	if err := json.Unmarshal(biometric, &run.Biometric); err != nil {
		return reconcile.Run{}, fmt.Errorf("failed to decode biometric data: %w", err)
	}
	if err := json.Unmarshal(timesheet, &run.Timesheet); err != nil {
		return reconcile.Run{}, fmt.Errorf("failed to decode timesheet data: %w", err)
	}
	if err := json.Unmarshal(result, &run.Result); err != nil {
		return reconcile.Run{}, fmt.Errorf("failed to decode reconciliation result: %w", err)
	}
	return run, nil
}
