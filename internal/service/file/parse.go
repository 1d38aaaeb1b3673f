package file

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/xuri/excelize/v2"
)

// biometricPreambleLines is the number of report lines the terminal export
// writes before the data rows.
const biometricPreambleLines = 4

// BiometricHeaders is the fixed column set of the terminal export.
var BiometricHeaders = []string{
	"S#",
	"Emp Code",
	"Emp Name",
	"Terminal Name",
	"Terminal Type",
	"Location",
	"Punch Date",
	"Punch Time",
	"Duration From Previous Punch",
	"Remarks",
	"Location Link",
	"Generation Time / Upload Time",
}

const (
	colEmpCode   = 1
	colEmpName   = 2
	colPunchDate = 6
	colPunchTime = 7
)

const (
	timesheetCodeColumn = "employee_code"
	timesheetNameColumn = "employee_name"
)

// ParseBiometricCSV reads a biometric terminal export into one record per
// employee code, in first-seen order. Rows missing code, date or time are
// skipped, as is a repeated header row.
func ParseBiometricCSV(r io.Reader) ([]reconcile.BiometricEmployeeRecord, error) {
	br := bufio.NewReader(r)
	for i := 0; i < biometricPreambleLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return []reconcile.BiometricEmployeeRecord{}, nil
			}
			return nil, fmt.Errorf("failed to read biometric preamble: %w", err)
		}
	}

	rows, err := readCSV(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read biometric rows: %w", err)
	}

	records := []reconcile.BiometricEmployeeRecord{}
	position := map[string]int{}

	for _, row := range rows {
		code := cell(row, colEmpCode)
		date := cell(row, colPunchDate)
		clock := cell(row, colPunchTime)
		if code == "" || date == "" || clock == "" {
			continue
		}
		// some terminals repeat their own header after the preamble
		if code == BiometricHeaders[colEmpCode] {
			continue
		}

		i, ok := position[code]
		if !ok {
			i = len(records)
			position[code] = i
			records = append(records, reconcile.BiometricEmployeeRecord{
				EmployeeCode: code,
				EmployeeName: cell(row, colEmpName),
				Punches:      []reconcile.Punch{},
			})
		}
		records[i].Punches = append(records[i].Punches, reconcile.Punch{Date: date, Time: clock})
	}

	return records, nil
}

// ParseTimesheetCSV reads a wide timesheet: employee_code, employee_name and
// one column per date holding "H:MM".
func ParseTimesheetCSV(r io.Reader) ([]reconcile.TimesheetEmployeeRecord, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read timesheet rows: %w", err)
	}
	return timesheetFromRows(rows), nil
}

// ParseTimesheetXLSX reads the same wide layout from the first sheet of a workbook.
func ParseTimesheetXLSX(r io.Reader) ([]reconcile.TimesheetEmployeeRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open timesheet workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in timesheet workbook")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get timesheet rows: %w", err)
	}
	return timesheetFromRows(rows), nil
}

func timesheetFromRows(rows [][]string) []reconcile.TimesheetEmployeeRecord {
	records := []reconcile.TimesheetEmployeeRecord{}
	if len(rows) == 0 {
		return records
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		rec := reconcile.TimesheetEmployeeRecord{Attendance: []reconcile.TimesheetEntry{}}
		for i, column := range header {
			switch column {
			case timesheetCodeColumn:
				rec.EmployeeCode = cell(row, i)
			case timesheetNameColumn:
				rec.EmployeeName = cell(row, i)
			case "":
			default:
				rec.Attendance = append(rec.Attendance, reconcile.TimesheetEntry{
					Date:   column,
					Status: cell(row, i),
				})
			}
		}
		records = append(records, rec)
	}
	return records
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	out := rows[:0]
	for _, row := range rows {
		if !isBlankRow(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
