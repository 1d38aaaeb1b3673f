package reconcile

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the classification assigned to one employee on one day.
type Status string

const (
	StatusWorkingDay  Status = "Working Day"
	StatusPartial     Status = "Partial"
	StatusAbsent      Status = "Absent"
	StatusWeekend     Status = "Weekend"
	StatusRemoteEntry Status = "Remote Entry"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusWorkingDay,
	StatusPartial,
	StatusAbsent,
	StatusWeekend,
	StatusRemoteEntry,
}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWorkingDay, StatusPartial, StatusAbsent, StatusWeekend, StatusRemoteEntry:
		return true
	}
	return false
}

// ParseStatus matches a status label case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range AllStatuses {
		if strings.EqualFold(string(s), raw) {
			return s, true
		}
	}
	return "", false
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseStatus(raw)
	if !ok {
		return fmt.Errorf("unknown attendance status %q", raw)
	}
	*s = parsed
	return nil
}

// Punch is a single raw clock event from a biometric terminal.
type Punch struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type BiometricEmployeeRecord struct {
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Punches      []Punch `json:"punches"`
}

// TimesheetEntry holds the self-reported hours ("H:MM") for a raw date.
type TimesheetEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type TimesheetEmployeeRecord struct {
	EmployeeCode string           `json:"employee_code"`
	EmployeeName string           `json:"employee_name,omitempty"`
	Attendance   []TimesheetEntry `json:"attendance"`
}

// AttendanceRecord is the classification of one employee on one canonical date.
type AttendanceRecord struct {
	EmployeeCode  string  `json:"employee_code"`
	EmployeeName  string  `json:"employee_name"`
	Date          string  `json:"date"`
	Status        Status  `json:"status"`
	Reason        string  `json:"reason"`
	Hours         float64 `json:"hours"`
	IsMissedPunch bool    `json:"is_missed_punch"`
}

type EmployeeSummary struct {
	MissedPunches int `json:"missed_punches"`
	AbsentDays    int `json:"absent_days"`
	WorkingDays   int `json:"working_days"`
	PartialDays   int `json:"partial_days"`
	RemoteDays    int `json:"remote_days"`
}

// Count adds one to the counter matching status. Weekend has no counter.
func (s *EmployeeSummary) Count(status Status) {
	switch status {
	case StatusWorkingDay:
		s.WorkingDays++
	case StatusPartial:
		s.PartialDays++
	case StatusAbsent:
		s.AbsentDays++
	case StatusRemoteEntry:
		s.RemoteDays++
	case StatusWeekend:
	}
}

// Result is the output of one reconciliation pass.
type Result struct {
	Records   []AttendanceRecord         `json:"attendance_data"`
	Summaries map[string]EmployeeSummary `json:"summary_data"`
	// EmployeeOrder is the iteration order used to build Records.
	EmployeeOrder []string `json:"employee_order"`
	Errors        []string `json:"errors"`
}

// Run is a persisted reconciliation with the inputs needed to recompute it.
type Run struct {
	ID            string
	Thresholds    Thresholds
	Biometric     []BiometricEmployeeRecord
	Timesheet     []TimesheetEmployeeRecord
	Result        Result
	BiometricFile *string
	TimesheetFile *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
