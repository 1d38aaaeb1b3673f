package reconcile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
)

// Reasons handed from the biometric checks to the timesheet fallback.
const (
	reasonInvalidPunches = "Invalid biometric punch times."
	reasonSinglePunch    = "Single biometric punch detected."
	reasonNoBiometric    = "No biometric data available."
)

// classifier applies the biometric-first, timesheet-fallback policy.
type classifier struct {
	thresholds reconcile.Thresholds
	punches    punchIndex
	timesheets timesheetIndex
	log        *errorLog
}

// classify builds the record for one employee on one date and counts it
// into summary.
func (c *classifier) classify(code, name, date string, summary *reconcile.EmployeeSummary) reconcile.AttendanceRecord {
	rec := reconcile.AttendanceRecord{
		EmployeeCode: code,
		EmployeeName: name,
		Date:         date,
	}

	if isWeekend(date) {
		rec.Status = reconcile.StatusWeekend
		rec.Reason = fmt.Sprintf("Weekend: Date (%s) is a Saturday or Sunday.", date)
		return rec
	}

	punches := c.punches.forDay(code, date)
	status, hasTimesheet := c.timesheets.lookup(code, date)

	switch {
	case len(punches) >= 2:
		duration, ok := punchDuration(punches)
		if !ok {
			c.fallback(&rec, status, hasTimesheet, reasonInvalidPunches, false)
			break
		}
		rec.Hours = round1(duration)
		if duration >= c.thresholds.Working {
			rec.Status = reconcile.StatusWorkingDay
			rec.Reason = fmt.Sprintf("Biometric duration (%.1f hrs) ≥ %s hrs.", duration, formatHours(c.thresholds.Working))
			break
		}
		msg := fmt.Sprintf("Biometric duration (%.1f hrs) less than working threshold (%s hrs).", duration, formatHours(c.thresholds.Working))
		c.fallback(&rec, status, hasTimesheet, msg, false)

	case len(punches) == 1:
		rec.IsMissedPunch = true
		summary.MissedPunches++
		c.fallback(&rec, status, hasTimesheet, reasonSinglePunch, false)

	default:
		c.fallback(&rec, status, hasTimesheet, reasonNoBiometric, true)
	}

	summary.Count(rec.Status)
	return rec
}

// fallback classifies from the timesheet. noBiometric selects the Remote
// Entry policy used when the day has no punches at all.
func (c *classifier) fallback(rec *reconcile.AttendanceRecord, status string, hasTimesheet bool, punchMsg string, noBiometric bool) {
	t := c.thresholds

	if !hasTimesheet {
		rec.Status = reconcile.StatusAbsent
		rec.Reason = "No timesheet data available. " + punchMsg
		return
	}

	hours := parseTimesheetHours(status, c.log)
	rec.Hours = round1(hours)
	shown := formatHours(rec.Hours)

	if noBiometric {
		switch {
		case hours >= t.Working:
			rec.Status = reconcile.StatusRemoteEntry
			rec.Reason = fmt.Sprintf("No biometric data - marked as full remote work day. Timesheet hours: %s hrs.", shown)
		case hours >= t.Partial:
			rec.Status = reconcile.StatusRemoteEntry
			rec.Reason = fmt.Sprintf("No biometric data - marked as partial remote work. Timesheet hours: %s hrs.", shown)
		default:
			rec.Status = reconcile.StatusAbsent
			rec.Reason = fmt.Sprintf("No biometric data and insufficient timesheet hours (%s hrs < %s hrs).", shown, formatHours(t.Partial))
		}
		return
	}

	switch {
	case hours >= t.Working:
		rec.Status = reconcile.StatusWorkingDay
		rec.Reason = fmt.Sprintf("Timesheet hours (%s) ≥ %s hrs. %s", shown, formatHours(t.Working), punchMsg)
	case hours >= t.Partial:
		rec.Status = reconcile.StatusPartial
		rec.Reason = fmt.Sprintf("Timesheet hours (%s) between %s and %s hrs. %s", shown, formatHours(t.Partial), formatHours(t.Working), punchMsg)
	default:
		rec.Status = reconcile.StatusAbsent
		rec.Reason = fmt.Sprintf("Insufficient hours: %s hrs (< %s hrs). %s", shown, formatHours(t.Partial), punchMsg)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// formatHours prints a number with no trailing zeros ("8", "3.5").
func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
