package report

import (
	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

var exportHeader = []string{"Employee Code", "Employee Name", "Date", "Status", "Hours", "Missed Punch", "Reason"}

// BuildWorkbook renders records as a single-sheet xlsx workbook.
func BuildWorkbook(records []reconcile.AttendanceRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	for c, v := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(exportSheet, cell, v); err != nil {
			return nil, err
		}
	}

	for r, rec := range records {
		missed := "No"
		if rec.IsMissedPunch {
			missed = "Yes"
		}
		values := []any{
			rec.EmployeeCode,
			rec.EmployeeName,
			rec.Date,
			rec.Status.String(),
			rec.Hours,
			missed,
			rec.Reason,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 14)
	_ = f.SetColWidth(exportSheet, "B", "B", 28)
	_ = f.SetColWidth(exportSheet, "C", "C", 12)
	_ = f.SetColWidth(exportSheet, "D", "D", 14)
	_ = f.SetColWidth(exportSheet, "E", "E", 8)
	_ = f.SetColWidth(exportSheet, "F", "F", 13)
	_ = f.SetColWidth(exportSheet, "G", "G", 60)

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DBEAFE"}, Pattern: 1},
	})
	if err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "G1", style)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
