package report

import "errors"

var (
	ErrInvalidDateRange = errors.New("date_to must not be before date_from")
	ErrEmployeeNotInRun = errors.New("employee not found in reconciliation run")
	ErrExportFailed     = errors.New("failed to generate attendance export")
	ErrNoRecipients     = errors.New("at least one recipient is required")
)
