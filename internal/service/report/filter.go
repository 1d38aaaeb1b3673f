package report

import (
	"strings"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/domain/report"
)

// FilterRecords keeps the records matching every non-empty field of f.
// Dates compare as canonical YYYY-MM-DD strings.
func FilterRecords(records []reconcile.AttendanceRecord, f report.RecordFilter) []reconcile.AttendanceRecord {
	status, hasStatus := reconcile.ParseStatus(f.Status)
	name := strings.TrimSpace(f.EmployeeName)

	out := []reconcile.AttendanceRecord{}
	for _, rec := range records {
		if f.EmployeeCode != "" && rec.EmployeeCode != f.EmployeeCode {
			continue
		}
		if name != "" && !strings.EqualFold(rec.EmployeeName, name) {
			continue
		}
		if hasStatus && rec.Status != status {
			continue
		}
		if f.DateFrom != "" && rec.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && rec.Date > f.DateTo {
			continue
		}
		out = append(out, rec)
	}
	return out
}
