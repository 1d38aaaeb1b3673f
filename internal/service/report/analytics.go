package report

import (
	"strings"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/domain/report"
)

// counter tallies labels and remembers the order they were first seen in.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) chart(chartType report.ChartType, title string) report.ChartData {
	points := make([]report.ChartPoint, 0, len(c.order))
	for _, label := range c.order {
		points = append(points, report.ChartPoint{Label: label, Value: c.counts[label]})
	}
	return report.ChartData{ChartType: chartType, Title: title, Data: points}
}

// BuildAnalytics picks one chart from the filter:
//   - employee without date: bar of that employee's statuses
//   - status without employee: bar of matching records per date
//   - date without employee: pie of statuses on that date
//   - anything else: pie of all statuses
func BuildAnalytics(records []reconcile.AttendanceRecord, f report.AnalyticsFilter) report.ChartData {
	name := strings.TrimSpace(f.EmployeeName)
	status := strings.TrimSpace(f.Status)
	date := strings.TrimSpace(f.Date)
	c := newCounter()

	switch {
	case name != "" && date == "":
		for _, rec := range records {
			if strings.EqualFold(rec.EmployeeName, name) {
				c.add(rec.Status.String())
			}
		}
		return c.chart(report.ChartBar, "Attendance Summary for "+name)

	case status != "" && name == "":
		for _, rec := range records {
			if strings.EqualFold(rec.Status.String(), status) {
				c.add(rec.Date)
			}
		}
		return c.chart(report.ChartBar, "Dates when status was "+status)

	case date != "" && name == "":
		for _, rec := range records {
			if rec.Date == date {
				c.add(rec.Status.String())
			}
		}
		return c.chart(report.ChartPie, "Status distribution on "+date)
	}

	for _, rec := range records {
		c.add(rec.Status.String())
	}
	return c.chart(report.ChartPie, "Overall Status Distribution")
}
