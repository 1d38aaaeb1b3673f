package report

import (
	"fmt"
	"strings"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/pkg/validator"
)

// ========================================
// RECORD FILTER
// ========================================

type RecordFilter struct {
	EmployeeCode string `json:"employee_code,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	Status       string `json:"status,omitempty"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" {
		if _, ok := reconcile.ParseStatus(f.Status); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + statusList(),
			})
		}
	}

	if f.DateFrom != "" {
		if _, ok := validator.IsValidDate(f.DateFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be in YYYY-MM-DD format",
			})
		}
	}
	if f.DateTo != "" {
		if _, ok := validator.IsValidDate(f.DateTo); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be in YYYY-MM-DD format",
			})
		}
	}
	if len(errs) == 0 && !validator.IsValidDateRange(f.DateFrom, f.DateTo) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_to",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func statusList() string {
	labels := make([]string, 0, len(reconcile.AllStatuses))
	for _, s := range reconcile.AllStatuses {
		labels = append(labels, string(s))
	}
	return strings.Join(labels, ", ")
}

// ========================================
// ANALYTICS
// ========================================

type AnalyticsFilter struct {
	EmployeeName string `json:"employee_name,omitempty"`
	Status       string `json:"status,omitempty"`
	Date         string `json:"date,omitempty"`
}

func (f *AnalyticsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != "" {
		if _, ok := validator.IsValidDate(f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ChartType string

const (
	ChartBar ChartType = "bar"
	ChartPie ChartType = "pie"
)

type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type ChartData struct {
	ChartType ChartType    `json:"chart_type"`
	Title     string       `json:"title"`
	Data      []ChartPoint `json:"data"`
}

// ========================================
// EXPORT
// ========================================

type Export struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ========================================
// WEEKLY STATS
// ========================================

type WeeklyStatsRequest struct {
	EmployeeCode string `json:"employee_code"`
	WeekStart    string `json:"week_start"`
}

func (r *WeeklyStatsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is required",
		})
	}

	if _, ok := validator.IsValidDate(r.WeekStart); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "week_start",
			Message: "week_start must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailyStatus struct {
	Date   string           `json:"date"`
	Status reconcile.Status `json:"status"`
	Reason string           `json:"reason"`
	Hours  float64          `json:"hours"`
}

type WeeklyStats struct {
	EmployeeCode     string        `json:"employee_code"`
	EmployeeName     string        `json:"employee_name"`
	WeekStart        string        `json:"week_start"`
	WeekEnd          string        `json:"week_end"`
	TotalHours       float64       `json:"total_hours"`
	FullDays         int           `json:"full_days"`
	PartialDays      int           `json:"partial_days"`
	RemoteDays       int           `json:"remote_days"`
	AbsentDays       int           `json:"absent_days"`
	MissedPunches    int           `json:"missed_punches"`
	MissedPunchDates []string      `json:"missed_punch_dates"`
	Appreciation     string        `json:"appreciation,omitempty"`
	DailyStatus      []DailyStatus `json:"daily_status"`
}

// ========================================
// WEEKLY EMAILS
// ========================================

type WeeklyEmailRecipient struct {
	EmployeeCode string `json:"employee_code"`
	Email        string `json:"email"`
}

type WeeklyEmailRequest struct {
	WeekStart  string                 `json:"week_start"`
	Recipients []WeeklyEmailRecipient `json:"recipients"`
}

func (r *WeeklyEmailRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.WeekStart); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "week_start",
			Message: "week_start must be in YYYY-MM-DD format",
		})
	}

	if len(r.Recipients) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "recipients",
			Message: ErrNoRecipients.Error(),
		})
	}

	for i, rcpt := range r.Recipients {
		if validator.IsEmpty(rcpt.EmployeeCode) {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("recipients[%d].employee_code", i),
				Message: "employee_code is required",
			})
		}
		if !validator.IsValidEmail(rcpt.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("recipients[%d].email", i),
				Message: "invalid email format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WeeklyEmailFailure struct {
	EmployeeCode string `json:"employee_code"`
	Email        string `json:"email"`
	Error        string `json:"error"`
}

type WeeklyEmailResult struct {
	Sent   int                  `json:"sent"`
	Failed []WeeklyEmailFailure `json:"failed_emails,omitempty"`
}
