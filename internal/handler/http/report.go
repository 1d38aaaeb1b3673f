package http

import (
	"encoding/json"
	"net/http"

	"github.com/attendify/attendify-backend-go/internal/domain/report"
	"github.com/attendify/attendify-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	ListRecords(w http.ResponseWriter, r *http.Request)
	Analytics(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	WeeklyStats(w http.ResponseWriter, r *http.Request)
	SendWeeklyEmails(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func recordFilterFromQuery(r *http.Request) report.RecordFilter {
	q := r.URL.Query()
	return report.RecordFilter{
		EmployeeCode: q.Get("employee_code"),
		EmployeeName: q.Get("employee_name"),
		Status:       q.Get("status"),
		DateFrom:     q.Get("date_from"),
		DateTo:       q.Get("date_to"),
	}
}

// ListRecords handles GET /reconciliations/{id}/records
func (h *reportHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.reportService.ListRecords(r.Context(), chi.URLParam(r, "id"), recordFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{TotalItems: int64(len(records))})
}

// Analytics handles GET /reconciliations/{id}/analytics
func (h *reportHandlerImpl) Analytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := report.AnalyticsFilter{
		EmployeeName: q.Get("employee_name"),
		Status:       q.Get("status"),
		Date:         q.Get("date"),
	}

	chart, err := h.reportService.Analytics(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, chart)
}

// Export handles GET /reconciliations/{id}/export
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.reportService.Export(r.Context(), chi.URLParam(r, "id"), recordFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, export.Filename, export.ContentType, export.Content)
}

// WeeklyStats handles GET /reconciliations/{id}/weekly-stats
func (h *reportHandlerImpl) WeeklyStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := report.WeeklyStatsRequest{
		EmployeeCode: q.Get("employee_code"),
		WeekStart:    q.Get("week_start"),
	}

	stats, err := h.reportService.WeeklyStats(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// SendWeeklyEmails handles POST /reconciliations/{id}/weekly-emails
func (h *reportHandlerImpl) SendWeeklyEmails(w http.ResponseWriter, r *http.Request) {
	var req report.WeeklyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.reportService.SendWeeklyEmails(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if len(result.Failed) > 0 {
		response.MultiStatus(w, "Some weekly reports could not be sent", result)
		return
	}
	response.SuccessWithMessage(w, "Weekly reports sent", result)
}
