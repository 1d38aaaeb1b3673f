package reconcile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/pkg/sse"
	"github.com/attendify/attendify-backend-go/internal/service/file"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ReconcileServiceImpl struct {
	runRepo           reconcile.RunRepository
	fileService       file.FileService
	reconciler        *Reconciler
	defaultThresholds reconcile.Thresholds
	events            *sse.Hub
}

func NewReconcileService(
	runRepo reconcile.RunRepository,
	fileService file.FileService,
	reconciler *Reconciler,
	defaultThresholds reconcile.Thresholds,
	events *sse.Hub,
) reconcile.ReconcileService {
	return &ReconcileServiceImpl{
		runRepo:           runRepo,
		fileService:       fileService,
		reconciler:        reconciler,
		defaultThresholds: defaultThresholds,
		events:            events,
	}
}

// resolveThresholds falls back to the configured defaults and rejects
// thresholds that break working > partial > absent.
func (s *ReconcileServiceImpl) resolveThresholds(t *reconcile.Thresholds) (reconcile.Thresholds, error) {
	resolved := s.defaultThresholds
	if t != nil {
		resolved = *t
	}
	if err := resolved.Validate(); err != nil {
		return reconcile.Thresholds{}, fmt.Errorf("%w: %w", reconcile.ErrInvalidThresholds, err)
	}
	return resolved, nil
}

// Reconcile implements reconcile.ReconcileService.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, req reconcile.ReconcileRequest) (reconcile.ReconcileResponse, error) {
	if err := req.Validate(); err != nil {
		return reconcile.ReconcileResponse{}, err
	}

	thresholds, err := s.resolveThresholds(req.Thresholds)
	if err != nil {
		return reconcile.ReconcileResponse{}, err
	}

	run, err := s.newRun(req.Biometric, req.Timesheet, thresholds)
	if err != nil {
		return reconcile.ReconcileResponse{}, err
	}

	created, err := s.runRepo.Create(ctx, run)
	if err != nil {
		return reconcile.ReconcileResponse{}, fmt.Errorf("failed to store reconciliation run: %w", err)
	}
	s.events.PublishRun(created.ID, reconcile.EventRunCreated, toListItem(created))

	return toResponse(created), nil
}

// ReconcileUpload implements reconcile.ReconcileService.
func (s *ReconcileServiceImpl) ReconcileUpload(ctx context.Context, req reconcile.UploadRequest) (reconcile.ReconcileResponse, error) {
	if err := req.Validate(); err != nil {
		return reconcile.ReconcileResponse{}, err
	}

	thresholds, err := s.resolveThresholds(req.Thresholds)
	if err != nil {
		return reconcile.ReconcileResponse{}, err
	}

	bioBytes, err := io.ReadAll(req.BiometricFile)
	if err != nil {
		return reconcile.ReconcileResponse{}, fmt.Errorf("failed to read biometric file: %w", err)
	}
	tsBytes, err := io.ReadAll(req.TimesheetFile)
	if err != nil {
		return reconcile.ReconcileResponse{}, fmt.Errorf("failed to read timesheet file: %w", err)
	}

	biometric, err := file.ParseBiometricCSV(bytes.NewReader(bioBytes))
	if err != nil {
		slog.Warn("Failed to parse biometric upload", "filename", req.BiometricHeader.Filename, "error", err)
		return reconcile.ReconcileResponse{}, fmt.Errorf("%w: %w", reconcile.ErrMalformedUpload, err)
	}

	timesheet, err := parseTimesheet(req.TimesheetHeader, tsBytes)
	if err != nil {
		slog.Warn("Failed to parse timesheet upload", "filename", req.TimesheetHeader.Filename, "error", err)
		return reconcile.ReconcileResponse{}, fmt.Errorf("%w: %w", reconcile.ErrMalformedUpload, err)
	}

	run, err := s.newRun(biometric, timesheet, thresholds)
	if err != nil {
		return reconcile.ReconcileResponse{}, err
	}

	bioPath, err := s.fileService.UploadSource(ctx, run.ID, file.SourceBiometric, bytes.NewReader(bioBytes), req.BiometricHeader.Filename)
	if err != nil {
		return reconcile.ReconcileResponse{}, err
	}
	run.BiometricFile = &bioPath

	tsPath, err := s.fileService.UploadSource(ctx, run.ID, file.SourceTimesheet, bytes.NewReader(tsBytes), req.TimesheetHeader.Filename)
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, bioPath); delErr != nil {
			slog.Warn("Failed to clean up biometric upload", "path", bioPath, "error", delErr)
		}
		return reconcile.ReconcileResponse{}, err
	}
	run.TimesheetFile = &tsPath

	created, err := s.runRepo.Create(ctx, run)
	if err != nil {
		return reconcile.ReconcileResponse{}, fmt.Errorf("failed to store reconciliation run: %w", err)
	}
	s.events.PublishRun(created.ID, reconcile.EventRunCreated, toListItem(created))

	return toResponse(created), nil
}

func parseTimesheet(header *multipart.FileHeader, data []byte) ([]reconcile.TimesheetEmployeeRecord, error) {
	switch reconcile.FileExt(header.Filename) {
	case ".csv":
		return file.ParseTimesheetCSV(bytes.NewReader(data))
	case ".xlsx":
		return file.ParseTimesheetXLSX(bytes.NewReader(data))
	default:
		return nil, reconcile.ErrUnsupportedFileType
	}
}

// newRun reconciles the inputs into an unsaved run with a fresh ID.
func (s *ReconcileServiceImpl) newRun(
	biometric []reconcile.BiometricEmployeeRecord,
	timesheet []reconcile.TimesheetEmployeeRecord,
	thresholds reconcile.Thresholds,
) (reconcile.Run, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return reconcile.Run{}, fmt.Errorf("failed to generate run id: %w", err)
	}

	start := time.Now()
	result := s.reconciler.Reconcile(biometric, timesheet, thresholds)
	slog.Info("Reconciliation completed",
		"run_id", id.String(),
		"employees", len(result.EmployeeOrder),
		"records", len(result.Records),
		"data_errors", len(result.Errors),
		"duration", time.Since(start),
	)

	return reconcile.Run{
		ID:         id.String(),
		Thresholds: thresholds,
		Biometric:  biometric,
		Timesheet:  timesheet,
		Result:     result,
	}, nil
}

// GetRun implements reconcile.ReconcileService.
func (s *ReconcileServiceImpl) GetRun(ctx context.Context, id string) (reconcile.ReconcileResponse, error) {
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return reconcile.ReconcileResponse{}, err
	}
	return toResponse(run), nil
}

// ListRuns implements reconcile.ReconcileService.
func (s *ReconcileServiceImpl) ListRuns(ctx context.Context, limit int) ([]reconcile.RunListItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	runs, err := s.runRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation runs: %w", err)
	}

	items := make([]reconcile.RunListItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, toListItem(run))
	}
	return items, nil
}

// Recompute implements reconcile.ReconcileService.
func (s *ReconcileServiceImpl) Recompute(ctx context.Context, req reconcile.RecomputeRequest) (reconcile.ReconcileResponse, error) {
	if err := req.Validate(); err != nil {
		return reconcile.ReconcileResponse{}, err
	}

	thresholds, err := s.resolveThresholds(&req.Thresholds)
	if err != nil {
		return reconcile.ReconcileResponse{}, err
	}

	run, err := s.runRepo.GetByID(ctx, req.RunID)
	if err != nil {
		return reconcile.ReconcileResponse{}, err
	}

	run.Thresholds = thresholds
	run.Result = s.reconciler.Reconcile(run.Biometric, run.Timesheet, thresholds)

	if err := s.runRepo.Update(ctx, run); err != nil {
		return reconcile.ReconcileResponse{}, fmt.Errorf("failed to update reconciliation run: %w", err)
	}
	slog.Info("Reconciliation recomputed", "run_id", run.ID, "thresholds", thresholds)

	updated, err := s.runRepo.GetByID(ctx, run.ID)
	if err != nil {
		return reconcile.ReconcileResponse{}, err
	}
	s.events.PublishRun(updated.ID, reconcile.EventRunRecomputed, toListItem(updated))
	return toResponse(updated), nil
}

// RepairThresholds implements reconcile.ReconcileService.
func (s *ReconcileServiceImpl) RepairThresholds(ctx context.Context, req reconcile.RepairThresholdsRequest) (reconcile.Thresholds, error) {
	if err := req.Validate(); err != nil {
		return reconcile.Thresholds{}, err
	}
	return req.Thresholds.Repair(req.Changed), nil
}

// PruneRuns implements reconcile.ReconcileService.
func (s *ReconcileServiceImpl) PruneRuns(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.runRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune reconciliation runs: %w", err)
	}
	if deleted > 0 {
		s.events.Publish(sse.Event{
			Topic: sse.TopicAllRuns,
			Name:  reconcile.EventRunsPruned,
			Data:  map[string]any{"deleted": deleted, "cutoff": cutoff.Format(time.RFC3339)},
		})
	}
	return deleted, nil
}

func toListItem(run reconcile.Run) reconcile.RunListItem {
	item := reconcile.RunListItem{
		ID:            run.ID,
		Thresholds:    run.Thresholds,
		EmployeeCount: len(run.Result.EmployeeOrder),
		RecordCount:   len(run.Result.Records),
		ErrorCount:    len(run.Result.Errors),
		CreatedAt:     run.CreatedAt.Format(time.RFC3339),
	}
	if n := len(run.Result.Records); n > 0 {
		// records are date-ascending within each employee
		item.DateFrom = run.Result.Records[0].Date
		item.DateTo = run.Result.Records[n-1].Date
	}
	return item
}

func toResponse(run reconcile.Run) reconcile.ReconcileResponse {
	return reconcile.ReconcileResponse{
		ID:             run.ID,
		Thresholds:     run.Thresholds,
		AttendanceData: run.Result.Records,
		SummaryData:    run.Result.Summaries,
		Errors:         run.Result.Errors,
		BiometricFile:  run.BiometricFile,
		TimesheetFile:  run.TimesheetFile,
		CreatedAt:      run.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      run.UpdatedAt.Format(time.RFC3339),
	}
}
