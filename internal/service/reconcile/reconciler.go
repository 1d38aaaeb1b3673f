package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
)

const unknownEmployeeName = "Unknown"

// Reconciler turns parsed biometric and timesheet records into per-day
// attendance classifications. It holds no state between calls and is safe
// for concurrent use.
type Reconciler struct {
	now func() time.Time
}

func NewReconciler() *Reconciler {
	return &Reconciler{now: time.Now}
}

// WithClock returns a copy of r that takes "today" from now. The clock is
// only consulted when neither input holds a valid date.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	return &Reconciler{now: now}
}

// Reconcile classifies every employee seen in either source on every date seen
// in either source. Thresholds are used as given; validate them beforehand.
func (r *Reconciler) Reconcile(
	biometric []reconcile.BiometricEmployeeRecord,
	timesheet []reconcile.TimesheetEmployeeRecord,
	thresholds reconcile.Thresholds,
) reconcile.Result {
	log := &errorLog{}

	punches := aggregatePunches(biometric, log)
	timesheets := indexTimesheets(timesheet, log)

	dates := collectDates(biometric, timesheet)
	if len(dates) == 0 {
		log.add("No valid dates found in biometric or timesheet data. Using current date as fallback.")
		dates = []string{r.now().UTC().Format(canonicalDateLayout)}
	}

	codes, names := collectEmployees(biometric, timesheet)

	c := &classifier{
		thresholds: thresholds,
		punches:    punches,
		timesheets: timesheets,
		log:        log,
	}

	result := reconcile.Result{
		Records:       make([]reconcile.AttendanceRecord, 0, len(codes)*len(dates)),
		Summaries:     make(map[string]reconcile.EmployeeSummary, len(codes)),
		EmployeeOrder: codes,
	}

	for _, code := range codes {
		name := names[code]
		if name == "" {
			name = unknownEmployeeName
			log.add(fmt.Sprintf("No employee name found for empCode %s in either biometric or timesheet data", code))
		}

		var summary reconcile.EmployeeSummary
		for _, date := range dates {
			result.Records = append(result.Records, c.classify(code, name, date, &summary))
		}
		result.Summaries[code] = summary
	}

	result.Errors = log.list()
	return result
}

// collectDates returns the sorted union of normalized dates in both sources,
// ignoring records without an employee code.
func collectDates(biometric []reconcile.BiometricEmployeeRecord, timesheet []reconcile.TimesheetEmployeeRecord) []string {
	set := map[string]struct{}{}
	for _, rec := range biometric {
		if rec.EmployeeCode == "" {
			continue
		}
		for _, p := range rec.Punches {
			if date, ok := NormalizeDate(p.Date); ok {
				set[date] = struct{}{}
			}
		}
	}
	for _, rec := range timesheet {
		if rec.EmployeeCode == "" {
			continue
		}
		for _, a := range rec.Attendance {
			if date, ok := NormalizeDate(a.Date); ok {
				set[date] = struct{}{}
			}
		}
	}

	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// collectEmployees returns employee codes in first-seen order (biometric then
// timesheet) and the display name for each. The name comes from the first
// biometric record for the code, else the first timesheet record.
func collectEmployees(biometric []reconcile.BiometricEmployeeRecord, timesheet []reconcile.TimesheetEmployeeRecord) ([]string, map[string]string) {
	var codes []string
	seen := map[string]bool{}
	bioNames := map[string]string{}
	tsNames := map[string]string{}

	for _, rec := range biometric {
		if rec.EmployeeCode == "" {
			continue
		}
		if !seen[rec.EmployeeCode] {
			seen[rec.EmployeeCode] = true
			codes = append(codes, rec.EmployeeCode)
		}
		if _, ok := bioNames[rec.EmployeeCode]; !ok {
			bioNames[rec.EmployeeCode] = rec.EmployeeName
		}
	}
	for _, rec := range timesheet {
		if rec.EmployeeCode == "" {
			continue
		}
		if !seen[rec.EmployeeCode] {
			seen[rec.EmployeeCode] = true
			codes = append(codes, rec.EmployeeCode)
		}
		if _, ok := tsNames[rec.EmployeeCode]; !ok {
			tsNames[rec.EmployeeCode] = rec.EmployeeName
		}
	}

	names := make(map[string]string, len(codes))
	for _, code := range codes {
		name := bioNames[code]
		if name == "" {
			name = tsNames[code]
		}
		names[code] = name
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, names
}
