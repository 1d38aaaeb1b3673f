package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/domain/report"
	"github.com/attendify/attendify-backend-go/internal/pkg/email"
	"github.com/attendify/attendify-backend-go/internal/pkg/sse"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportServiceImpl struct {
	runRepo      reconcile.RunRepository
	emailService email.EmailService
	events       *sse.Hub
}

func NewReportService(runRepo reconcile.RunRepository, emailService email.EmailService, events *sse.Hub) report.ReportService {
	return &ReportServiceImpl{
		runRepo:      runRepo,
		emailService: emailService,
		events:       events,
	}
}

// ListRecords implements report.ReportService.
func (s *ReportServiceImpl) ListRecords(ctx context.Context, runID string, filter report.RecordFilter) ([]reconcile.AttendanceRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	return FilterRecords(run.Result.Records, filter), nil
}

// Analytics implements report.ReportService.
func (s *ReportServiceImpl) Analytics(ctx context.Context, runID string, filter report.AnalyticsFilter) (report.ChartData, error) {
	if err := filter.Validate(); err != nil {
		return report.ChartData{}, err
	}

	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return report.ChartData{}, err
	}

	return BuildAnalytics(run.Result.Records, filter), nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, runID string, filter report.RecordFilter) (report.Export, error) {
	if err := filter.Validate(); err != nil {
		return report.Export{}, err
	}

	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return report.Export{}, err
	}

	content, err := BuildWorkbook(FilterRecords(run.Result.Records, filter))
	if err != nil {
		slog.Error("Failed to build attendance workbook", "run_id", runID, "error", err)
		return report.Export{}, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
	}

	return report.Export{
		Filename:    fmt.Sprintf("attendance-%s.xlsx", run.ID),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

// WeeklyStats implements report.ReportService.
func (s *ReportServiceImpl) WeeklyStats(ctx context.Context, runID string, req report.WeeklyStatsRequest) (report.WeeklyStats, error) {
	if err := req.Validate(); err != nil {
		return report.WeeklyStats{}, err
	}

	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return report.WeeklyStats{}, err
	}

	return ComputeWeeklyStats(run.Result, req.EmployeeCode, req.WeekStart)
}

// SendWeeklyEmails implements report.ReportService.
func (s *ReportServiceImpl) SendWeeklyEmails(ctx context.Context, runID string, req report.WeeklyEmailRequest) (report.WeeklyEmailResult, error) {
	if err := req.Validate(); err != nil {
		return report.WeeklyEmailResult{}, err
	}

	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return report.WeeklyEmailResult{}, err
	}

	result := report.WeeklyEmailResult{Failed: []report.WeeklyEmailFailure{}}
	for _, rcpt := range req.Recipients {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.sendWeekly(run.Result, rcpt, req.WeekStart); err != nil {
			slog.Warn("Weekly report not sent",
				"run_id", runID,
				"employee_code", rcpt.EmployeeCode,
				"to", rcpt.Email,
				"error", err,
			)
			result.Failed = append(result.Failed, report.WeeklyEmailFailure{
				EmployeeCode: rcpt.EmployeeCode,
				Email:        rcpt.Email,
				Error:        err.Error(),
			})
			continue
		}
		result.Sent++
	}

	slog.Info("Weekly reports dispatched", "run_id", runID, "sent", result.Sent, "failed", len(result.Failed))
	s.events.PublishRun(run.ID, report.EventWeeklyEmailsDispatched, result)
	return result, nil
}

func (s *ReportServiceImpl) sendWeekly(result reconcile.Result, rcpt report.WeeklyEmailRecipient, weekStart string) error {
	stats, err := ComputeWeeklyStats(result, rcpt.EmployeeCode, weekStart)
	if err != nil {
		return err
	}
	return s.emailService.SendWeeklyReport(rcpt.Email, weeklyReportData(stats))
}
