package reconcile

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/attendify/attendify-backend-go/internal/pkg/validator"
)

const maxUploadSize = 10 << 20 // 10MB

// ========================================
// RECONCILIATION DTOs
// ========================================

type ReconcileRequest struct {
	Thresholds *Thresholds                `json:"thresholds,omitempty"`
	Biometric  []BiometricEmployeeRecord `json:"biometric_data"`
	Timesheet  []TimesheetEmployeeRecord `json:"timesheet_data"`
}

func (r *ReconcileRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Biometric) == 0 && len(r.Timesheet) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "biometric_data",
			Message: "biometric_data or timesheet_data is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UploadRequest carries the two raw files from a multipart upload.
type UploadRequest struct {
	Thresholds      *Thresholds           `json:"thresholds,omitempty"`
	BiometricFile   multipart.File        `json:"-"`
	BiometricHeader *multipart.FileHeader `json:"-"`
	TimesheetFile   multipart.File        `json:"-"`
	TimesheetHeader *multipart.FileHeader `json:"-"`
}

func (r *UploadRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BiometricHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "biometric",
			Message: "biometric file is required",
		})
	} else if ext := FileExt(r.BiometricHeader.Filename); ext != ".csv" {
		errs = append(errs, validator.ValidationError{
			Field:   "biometric",
			Message: "invalid file type: only csv allowed",
		})
	} else if r.BiometricHeader.Size > maxUploadSize {
		errs = append(errs, validator.ValidationError{
			Field:   "biometric",
			Message: "biometric file size must not exceed 10MB",
		})
	}

	if r.TimesheetHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "timesheet",
			Message: "timesheet file is required",
		})
	} else if ext := FileExt(r.TimesheetHeader.Filename); ext != ".csv" && ext != ".xlsx" {
		errs = append(errs, validator.ValidationError{
			Field:   "timesheet",
			Message: "invalid file type: only csv, xlsx allowed",
		})
	} else if r.TimesheetHeader.Size > maxUploadSize {
		errs = append(errs, validator.ValidationError{
			Field:   "timesheet",
			Message: "timesheet file size must not exceed 10MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FileExt returns the lower-cased extension of filename, including the dot.
func FileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

type RecomputeRequest struct {
	RunID      string     `json:"-"`
	Thresholds Thresholds `json:"thresholds"`
}

func (r *RecomputeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RunID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "run id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RepairThresholdsRequest struct {
	Thresholds Thresholds     `json:"thresholds"`
	Changed    ThresholdField `json:"changed"`
}

func (r *RepairThresholdsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Changed.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "changed",
			Message: "changed must be one of: working, partial, absent",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReconcileResponse struct {
	ID             string                     `json:"id"`
	Thresholds     Thresholds                 `json:"thresholds"`
	AttendanceData []AttendanceRecord         `json:"attendance_data"`
	SummaryData    map[string]EmployeeSummary `json:"summary_data"`
	Errors         []string                   `json:"errors"`
	BiometricFile  *string                    `json:"biometric_file,omitempty"`
	TimesheetFile  *string                    `json:"timesheet_file,omitempty"`
	CreatedAt      string                     `json:"created_at"`
	UpdatedAt      string                     `json:"updated_at"`
}

type RunListItem struct {
	ID            string     `json:"id"`
	Thresholds    Thresholds `json:"thresholds"`
	EmployeeCount int        `json:"employee_count"`
	RecordCount   int        `json:"record_count"`
	ErrorCount    int        `json:"error_count"`
	DateFrom      string     `json:"date_from,omitempty"`
	DateTo        string     `json:"date_to,omitempty"`
	CreatedAt     string     `json:"created_at"`
}
