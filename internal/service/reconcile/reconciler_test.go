package reconcile

import (
	"testing"
	"time"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bio(code, name string, punches ...reconcile.Punch) reconcile.BiometricEmployeeRecord {
	return reconcile.BiometricEmployeeRecord{EmployeeCode: code, EmployeeName: name, Punches: punches}
}

func punch(date, clock string) reconcile.Punch {
	return reconcile.Punch{Date: date, Time: clock}
}

func sheet(code, name string, entries ...reconcile.TimesheetEntry) reconcile.TimesheetEmployeeRecord {
	return reconcile.TimesheetEmployeeRecord{EmployeeCode: code, EmployeeName: name, Attendance: entries}
}

func entry(date, status string) reconcile.TimesheetEntry {
	return reconcile.TimesheetEntry{Date: date, Status: status}
}

func findRecord(t *testing.T, res reconcile.Result, code, date string) reconcile.AttendanceRecord {
	t.Helper()
	for _, rec := range res.Records {
		if rec.EmployeeCode == code && rec.Date == date {
			return rec
		}
	}
	require.Failf(t, "record not found", "%s on %s", code, date)
	return reconcile.AttendanceRecord{}
}

var defaults = reconcile.DefaultThresholds()

func TestReconcile_BiometricWorkingDay(t *testing.T) {
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{bio("101", "Asha", punch("2025-01-06", "09:00"), punch("2025-01-06", "18:00"))},
		nil,
		defaults,
	)

	rec := findRecord(t, res, "101", "2025-01-06")
	assert.Equal(t, reconcile.StatusWorkingDay, rec.Status)
	assert.Equal(t, 9.0, rec.Hours)
	assert.Equal(t, "Biometric duration (9.0 hrs) ≥ 8 hrs.", rec.Reason)
	assert.False(t, rec.IsMissedPunch)
	assert.Equal(t, 1, res.Summaries["101"].WorkingDays)
	assert.Empty(t, res.Errors)
}

func TestReconcile_SinglePunchFallsBackToTimesheet(t *testing.T) {
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{bio("101", "Asha", punch("2025-01-06", "09:00"))},
		[]reconcile.TimesheetEmployeeRecord{sheet("101", "Asha", entry("2025-01-06", "3:30"))},
		defaults,
	)

	rec := findRecord(t, res, "101", "2025-01-06")
	assert.True(t, rec.IsMissedPunch)
	assert.Equal(t, reconcile.StatusAbsent, rec.Status)
	assert.Equal(t, 3.5, rec.Hours)
	assert.Equal(t, "Insufficient hours: 3.5 hrs (< 4 hrs). Single biometric punch detected.", rec.Reason)

	summary := res.Summaries["101"]
	assert.Equal(t, 1, summary.MissedPunches)
	assert.Equal(t, 1, summary.AbsentDays)
}

func TestReconcile_RemoteEntry(t *testing.T) {
	res := NewReconciler().Reconcile(
		nil,
		[]reconcile.TimesheetEmployeeRecord{sheet("102", "Ravi", entry("2025-01-07", "9:00"))},
		defaults,
	)

	rec := findRecord(t, res, "102", "2025-01-07")
	assert.Equal(t, reconcile.StatusRemoteEntry, rec.Status)
	assert.Equal(t, 9.0, rec.Hours)
	assert.Equal(t, "No biometric data - marked as full remote work day. Timesheet hours: 9 hrs.", rec.Reason)
	assert.Equal(t, 1, res.Summaries["102"].RemoteDays)
}

func TestReconcile_RemotePolicy(t *testing.T) {
	tests := []struct {
		status string
		want   reconcile.Status
		reason string
	}{
		{"5:00", reconcile.StatusRemoteEntry, "No biometric data - marked as partial remote work. Timesheet hours: 5 hrs."},
		{"2:15", reconcile.StatusAbsent, "No biometric data and insufficient timesheet hours (2.3 hrs < 4 hrs)."},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			res := NewReconciler().Reconcile(nil,
				[]reconcile.TimesheetEmployeeRecord{sheet("102", "Ravi", entry("2025-01-07", tt.status))},
				defaults,
			)
			rec := findRecord(t, res, "102", "2025-01-07")
			assert.Equal(t, tt.want, rec.Status)
			assert.Equal(t, tt.reason, rec.Reason)
		})
	}
}

func TestReconcile_WeekendOverridesEverything(t *testing.T) {
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{bio("101", "Asha", punch("2025-01-04", "09:00"), punch("2025-01-04", "19:00"))},
		[]reconcile.TimesheetEmployeeRecord{sheet("101", "Asha", entry("2025-01-04", "10:00"))},
		defaults,
	)

	rec := findRecord(t, res, "101", "2025-01-04")
	assert.Equal(t, reconcile.StatusWeekend, rec.Status)
	assert.Equal(t, 0.0, rec.Hours)
	assert.Equal(t, "Weekend: Date (2025-01-04) is a Saturday or Sunday.", rec.Reason)
	assert.Equal(t, reconcile.EmployeeSummary{}, res.Summaries["101"])
}

func TestReconcile_ShortBiometricUsesTimesheet(t *testing.T) {
	punches := []reconcile.Punch{punch("2025-01-06", "09:00"), punch("2025-01-06", "14:00")}

	t.Run("partial from timesheet", func(t *testing.T) {
		res := NewReconciler().Reconcile(
			[]reconcile.BiometricEmployeeRecord{bio("101", "Asha", punches...)},
			[]reconcile.TimesheetEmployeeRecord{sheet("101", "Asha", entry("2025-01-06", "6:00"))},
			defaults,
		)
		rec := findRecord(t, res, "101", "2025-01-06")
		assert.Equal(t, reconcile.StatusPartial, rec.Status)
		assert.Equal(t, 6.0, rec.Hours)
		assert.Equal(t, "Timesheet hours (6) between 4 and 8 hrs. Biometric duration (5.0 hrs) less than working threshold (8 hrs).", rec.Reason)
	})

	t.Run("no timesheet keeps biometric hours", func(t *testing.T) {
		res := NewReconciler().Reconcile(
			[]reconcile.BiometricEmployeeRecord{bio("101", "Asha", punches...)},
			nil,
			defaults,
		)
		rec := findRecord(t, res, "101", "2025-01-06")
		assert.Equal(t, reconcile.StatusAbsent, rec.Status)
		assert.Equal(t, 5.0, rec.Hours)
		assert.Equal(t, "No timesheet data available. Biometric duration (5.0 hrs) less than working threshold (8 hrs).", rec.Reason)
	})

	t.Run("timesheet overrides to working day", func(t *testing.T) {
		res := NewReconciler().Reconcile(
			[]reconcile.BiometricEmployeeRecord{bio("101", "Asha", punches...)},
			[]reconcile.TimesheetEmployeeRecord{sheet("101", "Asha", entry("2025-01-06", "8:30"))},
			defaults,
		)
		rec := findRecord(t, res, "101", "2025-01-06")
		assert.Equal(t, reconcile.StatusWorkingDay, rec.Status)
		assert.Equal(t, 8.5, rec.Hours)
	})
}

func TestReconcile_PunchOrderAndFormats(t *testing.T) {
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{bio("101", "Asha",
			punch("06-Jan-25", "6:00 pm"),
			punch("2025-01-06", "12:30"),
			punch("Mon 06-Jan-25", "9:00 AM"),
		)},
		nil,
		defaults,
	)

	rec := findRecord(t, res, "101", "2025-01-06")
	assert.Equal(t, reconcile.StatusWorkingDay, rec.Status)
	assert.Equal(t, 9.0, rec.Hours)
}

func TestReconcile_InvalidPunchTimes(t *testing.T) {
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{bio("101", "Asha", punch("2025-01-06", "09:00"), punch("2025-01-06", "late"))},
		[]reconcile.TimesheetEmployeeRecord{sheet("101", "Asha", entry("2025-01-06", "8:00"))},
		defaults,
	)

	rec := findRecord(t, res, "101", "2025-01-06")
	assert.Equal(t, reconcile.StatusWorkingDay, rec.Status)
	assert.Equal(t, "Timesheet hours (8) ≥ 8 hrs. Invalid biometric punch times.", rec.Reason)
	assert.False(t, rec.IsMissedPunch)
}

func TestReconcile_CoverageAndOrder(t *testing.T) {
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{
			bio("530", "Vaishnav", punch("2025-01-07", "09:00")),
			bio("14", "Pavan", punch("2025-01-06", "09:00"), punch("2025-01-06", "17:00")),
		},
		[]reconcile.TimesheetEmployeeRecord{
			sheet("478", "Amitesh", entry("2025-01-08", "8:00")),
			sheet("14", "Pavan", entry("2025-01-07", "7:00")),
		},
		defaults,
	)

	assert.Equal(t, []string{"530", "14", "478"}, res.EmployeeOrder)
	require.Len(t, res.Records, 9, "every employee gets every date")

	var order []string
	for i := 0; i < len(res.Records); i += 3 {
		order = append(order, res.Records[i].EmployeeCode)
		assert.Equal(t, []string{"2025-01-06", "2025-01-07", "2025-01-08"},
			[]string{res.Records[i].Date, res.Records[i+1].Date, res.Records[i+2].Date})
	}
	assert.Equal(t, res.EmployeeOrder, order)

	for _, code := range res.EmployeeOrder {
		var want reconcile.EmployeeSummary
		for _, rec := range res.Records {
			if rec.EmployeeCode != code {
				continue
			}
			want.Count(rec.Status)
			if rec.IsMissedPunch {
				want.MissedPunches++
			}
		}
		assert.Equal(t, want, res.Summaries[code], code)
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	biometric := []reconcile.BiometricEmployeeRecord{
		bio("1", "A", punch("2025-01-06", "09:00"), punch("2025-01-06", "18:00"), punch("2025-01-07", "10:00")),
		bio("2", "B", punch("2025-01-08", "08:00"), punch("2025-01-08", "11:00")),
	}
	timesheet := []reconcile.TimesheetEmployeeRecord{
		sheet("2", "B", entry("2025-01-06", "4:30"), entry("2025-01-09", "bad")),
		sheet("3", "C", entry("2025-01-07", "8:00")),
	}

	r := NewReconciler()
	first := r.Reconcile(biometric, timesheet, defaults)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, r.Reconcile(biometric, timesheet, defaults))
	}
}

func TestReconcile_DataQualityErrors(t *testing.T) {
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{
			bio("", "Nobody", punch("2025-01-06", "09:00")),
			bio("7", "", punch("2025-01-06", "09:00"), punch("2025-01-06", "17:30")),
		},
		[]reconcile.TimesheetEmployeeRecord{
			sheet("", "Ghost"),
			sheet("8", "", entry("2025-01-06", "abc")),
		},
		defaults,
	)

	assert.Equal(t, []string{"7", "8"}, res.EmployeeOrder)
	assert.Equal(t, "Unknown", findRecord(t, res, "7", "2025-01-06").EmployeeName)
	assert.Equal(t, []string{
		"Missing employee code in biometric data entry",
		"Missing employee name for empCode 7 in biometric data",
		"Missing employee code in timesheet data entry",
		"Missing employee name for empCode 8 in timesheet data",
		"No employee name found for empCode 7 in either biometric or timesheet data",
		"No employee name found for empCode 8 in either biometric or timesheet data",
		"Invalid timesheet status format: abc",
	}, res.Errors)
}

func TestReconcile_NameFallsBackToTimesheet(t *testing.T) {
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{bio("7", "", punch("2025-01-06", "09:00"))},
		[]reconcile.TimesheetEmployeeRecord{sheet("7", "Meera", entry("2025-01-06", "8:00"))},
		defaults,
	)

	assert.Equal(t, "Meera", findRecord(t, res, "7", "2025-01-06").EmployeeName)
}

func TestReconcile_TimesheetLastWriteWins(t *testing.T) {
	res := NewReconciler().Reconcile(
		nil,
		[]reconcile.TimesheetEmployeeRecord{
			sheet("9", "Ira", entry("2025-01-06", "2:00")),
			sheet("9", "Ira", entry("06-Jan-25", "9:00")),
		},
		defaults,
	)

	rec := findRecord(t, res, "9", "2025-01-06")
	assert.Equal(t, reconcile.StatusRemoteEntry, rec.Status)
	assert.Equal(t, 9.0, rec.Hours)
}

func TestReconcile_BlankTimesheetIsNoEntry(t *testing.T) {
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{bio("9", "Ira", punch("2025-01-06", "09:00"))},
		[]reconcile.TimesheetEmployeeRecord{sheet("9", "Ira", entry("2025-01-06", "   "))},
		defaults,
	)

	rec := findRecord(t, res, "9", "2025-01-06")
	assert.Equal(t, reconcile.StatusAbsent, rec.Status)
	assert.Equal(t, "No timesheet data available. Single biometric punch detected.", rec.Reason)
}

func TestReconcile_NoDatesUsesClock(t *testing.T) {
	fixed := time.Date(2025, 3, 12, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	res := NewReconciler().WithClock(func() time.Time { return fixed }).Reconcile(
		[]reconcile.BiometricEmployeeRecord{bio("1", "A", punch("someday", "09:00"))},
		nil,
		defaults,
	)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "2025-03-12", res.Records[0].Date)
	assert.Equal(t, reconcile.StatusAbsent, res.Records[0].Status)
	assert.Contains(t, res.Errors, "No valid dates found in biometric or timesheet data. Using current date as fallback.")
}

func TestReconcile_EmptyInput(t *testing.T) {
	res := NewReconciler().Reconcile(nil, nil, defaults)

	assert.Empty(t, res.Records)
	assert.Equal(t, []string{}, res.EmployeeOrder)
	assert.Len(t, res.Errors, 1)
}

func TestReconcile_CustomThresholds(t *testing.T) {
	strict := reconcile.Thresholds{Working: 9.5, Partial: 6, Absent: 0}
	res := NewReconciler().Reconcile(
		[]reconcile.BiometricEmployeeRecord{bio("1", "A", punch("2025-01-06", "09:00"), punch("2025-01-06", "18:00"))},
		[]reconcile.TimesheetEmployeeRecord{sheet("1", "A", entry("2025-01-06", "5:00"))},
		strict,
	)

	rec := findRecord(t, res, "1", "2025-01-06")
	assert.Equal(t, reconcile.StatusAbsent, rec.Status)
	assert.Equal(t, "Insufficient hours: 5 hrs (< 6 hrs). Biometric duration (9.0 hrs) less than working threshold (9.5 hrs).", rec.Reason)
}
