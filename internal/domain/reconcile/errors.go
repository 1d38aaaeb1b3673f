package reconcile

import "errors"

// Reconciliation domain errors
var (
	ErrRunNotFound         = errors.New("reconciliation run not found")
	ErrInvalidThresholds   = errors.New("invalid attendance thresholds")
	ErrNoInputRecords      = errors.New("no biometric or timesheet records supplied")
	ErrUnsupportedFileType = errors.New("unsupported upload file type")
	ErrMalformedUpload     = errors.New("uploaded file could not be parsed")
)
