package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
)

// errorLog collects the non-fatal data-quality messages of one pass.
type errorLog struct {
	messages []string
}

func (l *errorLog) add(msg string) {
	l.messages = append(l.messages, msg)
}

func (l *errorLog) list() []string {
	if l.messages == nil {
		return []string{}
	}
	return l.messages
}

type timesheetKey struct {
	Code string
	Date string
}

// timesheetIndex maps (employee, canonical date) to the raw hours string.
type timesheetIndex map[timesheetKey]string

// lookup returns the reported hours string, or false when there is no
// entry or the entry is blank.
func (idx timesheetIndex) lookup(code, date string) (string, bool) {
	status, ok := idx[timesheetKey{Code: code, Date: date}]
	if !ok || strings.TrimSpace(status) == "" {
		return "", false
	}
	return status, true
}

// indexTimesheets builds the timesheet lookup. Later entries for the same
// employee and date overwrite earlier ones.
func indexTimesheets(records []reconcile.TimesheetEmployeeRecord, log *errorLog) timesheetIndex {
	idx := timesheetIndex{}

	for _, rec := range records {
		if rec.EmployeeCode == "" {
			log.add("Missing employee code in timesheet data entry")
			continue
		}
		if rec.EmployeeName == "" {
			log.add(fmt.Sprintf("Missing employee name for empCode %s in timesheet data", rec.EmployeeCode))
		}

		for _, entry := range rec.Attendance {
			date, ok := NormalizeDate(entry.Date)
			if !ok {
				continue
			}
			idx[timesheetKey{Code: rec.EmployeeCode, Date: date}] = entry.Status
		}
	}
	return idx
}

// parseTimesheetHours converts "H:MM" to decimal hours. A blank status is
// zero hours; a malformed one is logged and also counts as zero.
func parseTimesheetHours(status string, log *errorLog) float64 {
	if strings.TrimSpace(status) == "" {
		return 0
	}

	parts := strings.Split(status, ":")
	if len(parts) < 2 {
		log.add(fmt.Sprintf("Invalid timesheet status format: %s", status))
		return 0
	}

	hours, okH := parseHourPart(parts[0])
	minutes, okM := parseHourPart(parts[1])
	if !okH || !okM {
		log.add(fmt.Sprintf("Invalid timesheet status format: %s", status))
		return 0
	}
	return hours + minutes/60
}

func parseHourPart(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
