package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/domain/report"
	"github.com/attendify/attendify-backend-go/internal/pkg/jwt"
	"github.com/attendify/attendify-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "validation",
			err:    validator.ValidationErrors{{Field: "status", Message: "bad"}},
			status: http.StatusUnprocessableEntity,
			code:   "VALIDATION_ERROR",
		},
		{
			name: "invalid thresholds carry their details",
			err: fmt.Errorf("%w: %w", reconcile.ErrInvalidThresholds,
				validator.ValidationErrors{{Field: "partial_threshold", Message: "must be below working"}}),
			status: http.StatusUnprocessableEntity,
			code:   "VALIDATION_ERROR",
		},
		{"run not found", reconcile.ErrRunNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("lookup: %w", reconcile.ErrRunNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"malformed upload", fmt.Errorf("%w: bad quote", reconcile.ErrMalformedUpload), http.StatusBadRequest, "BAD_REQUEST"},
		{"employee not in run", report.ErrEmployeeNotInRun, http.StatusNotFound, "NOT_FOUND"},
		{"invalid token", jwt.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"export failed", report.ErrExportFailed, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestMultiStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	MultiStatus(rec, "Some emails failed", map[string]int{"sent": 1})

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Some emails failed","data":{"sent":1}}`, rec.Body.String())
}

func TestFile(t *testing.T) {
	rec := httptest.NewRecorder()
	File(rec, "attendance.xlsx", "application/octet-stream", []byte("abc"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="attendance.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "3", rec.Header().Get("Content-Length"))
	assert.Equal(t, "abc", rec.Body.String())
}
