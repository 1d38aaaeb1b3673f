package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/domain/report"
	"github.com/attendify/attendify-backend-go/internal/pkg/jwt"
	"github.com/attendify/attendify-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Reconcile domain errors
	case errors.Is(err, reconcile.ErrRunNotFound):
		NotFound(w, "Reconciliation run not found")
	case errors.Is(err, reconcile.ErrInvalidThresholds):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, reconcile.ErrNoInputRecords):
		BadRequest(w, "Biometric or timesheet data is required", nil)
	case errors.Is(err, reconcile.ErrUnsupportedFileType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, reconcile.ErrMalformedUpload):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrEmployeeNotInRun):
		NotFound(w, err.Error())
	case errors.Is(err, report.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrNoRecipients):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrExportFailed):
		slog.Error("Export failed", "error", err)
		InternalServerError(w, "Failed to generate attendance export")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
