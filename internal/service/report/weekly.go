package report

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/domain/report"
	"github.com/attendify/attendify-backend-go/internal/pkg/email"
)

const (
	dateLayout = "2006-01-02"

	// appreciationHours is the weekly total above which the report thanks the employee.
	appreciationHours = 40
	appreciationText  = "Thank you for your dedication!"
)

// ComputeWeeklyStats aggregates one employee's records dated weekStart
// through weekStart+6 days, inclusive.
func ComputeWeeklyStats(result reconcile.Result, employeeCode, weekStart string) (report.WeeklyStats, error) {
	start, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return report.WeeklyStats{}, fmt.Errorf("invalid week_start %q: %w", weekStart, err)
	}
	weekEnd := start.AddDate(0, 0, 6).Format(dateLayout)

	if !slices.Contains(result.EmployeeOrder, employeeCode) {
		return report.WeeklyStats{}, fmt.Errorf("%w: %s", report.ErrEmployeeNotInRun, employeeCode)
	}

	stats := report.WeeklyStats{
		EmployeeCode:     employeeCode,
		WeekStart:        weekStart,
		WeekEnd:          weekEnd,
		MissedPunchDates: []string{},
		DailyStatus:      []report.DailyStatus{},
	}

	var total float64
	for _, rec := range result.Records {
		if rec.EmployeeCode != employeeCode {
			continue
		}
		if stats.EmployeeName == "" {
			stats.EmployeeName = rec.EmployeeName
		}
		if rec.Date < weekStart || rec.Date > weekEnd {
			continue
		}

		total += rec.Hours
		switch rec.Status {
		case reconcile.StatusWorkingDay:
			stats.FullDays++
		case reconcile.StatusPartial:
			stats.PartialDays++
		case reconcile.StatusRemoteEntry:
			stats.RemoteDays++
		case reconcile.StatusAbsent:
			stats.AbsentDays++
		}
		if rec.IsMissedPunch || strings.EqualFold(rec.Reason, "missed punch") {
			stats.MissedPunches++
			stats.MissedPunchDates = append(stats.MissedPunchDates, rec.Date)
		}

		stats.DailyStatus = append(stats.DailyStatus, report.DailyStatus{
			Date:   rec.Date,
			Status: rec.Status,
			Reason: rec.Reason,
			Hours:  rec.Hours,
		})
	}

	slices.SortStableFunc(stats.DailyStatus, func(a, b report.DailyStatus) int {
		return strings.Compare(a.Date, b.Date)
	})

	stats.TotalHours = math.Round(total*100) / 100
	if total > appreciationHours {
		stats.Appreciation = appreciationText
	}
	return stats, nil
}

func weeklyReportData(stats report.WeeklyStats) email.WeeklyReportData {
	month := stats.WeekStart
	if t, err := time.Parse(dateLayout, stats.WeekStart); err == nil {
		month = t.Format("January 2006")
	}

	daily := make([]email.DailyLine, 0, len(stats.DailyStatus))
	for _, d := range stats.DailyStatus {
		daily = append(daily, email.DailyLine{Date: d.Date, Text: dailyLine(d)})
	}

	return email.WeeklyReportData{
		EmployeeName:     stats.EmployeeName,
		Month:            month,
		WeekStart:        stats.WeekStart,
		WeekEnd:          stats.WeekEnd,
		TotalHours:       strconv.FormatFloat(stats.TotalHours, 'f', 2, 64),
		FullDays:         stats.FullDays,
		AbsentDays:       stats.AbsentDays,
		MissedPunches:    stats.MissedPunches,
		MissedPunchDates: stats.MissedPunchDates,
		Daily:            daily,
		Appreciation:     stats.Appreciation,
	}
}

// dailyLine shows the reason for worked days and "status (h hrs)" otherwise.
func dailyLine(d report.DailyStatus) string {
	worked := d.Status == reconcile.StatusWorkingDay || d.Status == reconcile.StatusPartial
	if worked && d.Reason != "" {
		return strings.TrimSuffix(d.Reason, ".") + "."
	}
	return fmt.Sprintf("%s (%.2f hrs).", d.Status, d.Hours)
}
