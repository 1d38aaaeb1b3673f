package report

import (
	"context"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
)

// ReportService defines the reporting views over a reconciliation run
type ReportService interface {
	// ListRecords returns the run's attendance records matching the filter
	ListRecords(ctx context.Context, runID string, filter RecordFilter) ([]reconcile.AttendanceRecord, error)

	// Analytics returns a chart payload of status counts
	Analytics(ctx context.Context, runID string, filter AnalyticsFilter) (ChartData, error)

	// Export renders the filtered records as an xlsx workbook
	Export(ctx context.Context, runID string, filter RecordFilter) (Export, error)

	// WeeklyStats aggregates one employee's records over a seven-day window
	WeeklyStats(ctx context.Context, runID string, req WeeklyStatsRequest) (WeeklyStats, error)

	// SendWeeklyEmails mails weekly stats to each recipient
	SendWeeklyEmails(ctx context.Context, runID string, req WeeklyEmailRequest) (WeeklyEmailResult, error)
}

// EventWeeklyEmailsDispatched is published on the run topic after a weekly email batch.
const EventWeeklyEmailsDispatched = "weekly_emails.dispatched"
