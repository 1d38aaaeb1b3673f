package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/handler/http/response"
	"github.com/attendify/attendify-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

// maxMultipartMemory bounds the in-memory part of an upload (two 10MB files).
const maxMultipartMemory = 20 << 20

type ReconcileHandler interface {
	Reconcile(w http.ResponseWriter, r *http.Request)
	Upload(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Recompute(w http.ResponseWriter, r *http.Request)
	RepairThresholds(w http.ResponseWriter, r *http.Request)
}

type reconcileHandlerImpl struct {
	reconcileService reconcile.ReconcileService
}

func NewReconcileHandler(reconcileService reconcile.ReconcileService) ReconcileHandler {
	return &reconcileHandlerImpl{
		reconcileService: reconcileService,
	}
}

// Reconcile handles POST /reconciliations
func (h *reconcileHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcile.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.reconcileService.Reconcile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Reconciliation created", "run_id", result.ID, "requested_by", jwt.Subject(r.Context()))
	response.Created(w, "Reconciliation completed", result)
}

// Upload handles POST /reconciliations/upload
func (h *reconcileHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	var req reconcile.UploadRequest

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	// Thresholds are optional; an empty data field uses the defaults
	if dataJSON := r.FormValue("data"); dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			slog.Error("Failed to unmarshal JSON data", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	bioFile, bioHeader, err := r.FormFile("biometric")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.BadRequest(w, "Failed to read biometric file", nil)
		return
	}
	if bioFile != nil {
		defer bioFile.Close()
		req.BiometricFile, req.BiometricHeader = bioFile, bioHeader
	}

	tsFile, tsHeader, err := r.FormFile("timesheet")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.BadRequest(w, "Failed to read timesheet file", nil)
		return
	}
	if tsFile != nil {
		defer tsFile.Close()
		req.TimesheetFile, req.TimesheetHeader = tsFile, tsHeader
	}

	result, err := h.reconcileService.ReconcileUpload(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Reconciliation uploaded", "run_id", result.ID, "requested_by", jwt.Subject(r.Context()))
	response.Created(w, "Reconciliation completed", result)
}

// List handles GET /reconciliations
func (h *reconcileHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, "invalid limit parameter", nil)
			return
		}
		limit = n
	}

	runs, err := h.reconcileService.ListRuns(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, runs)
}

// GetByID handles GET /reconciliations/{id}
func (h *reconcileHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.reconcileService.GetRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Recompute handles POST /reconciliations/{id}/recompute
func (h *reconcileHandlerImpl) Recompute(w http.ResponseWriter, r *http.Request) {
	var req reconcile.RecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.RunID = chi.URLParam(r, "id")

	result, err := h.reconcileService.Recompute(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reconciliation recomputed", result)
}

// RepairThresholds handles POST /thresholds/repair
func (h *reconcileHandlerImpl) RepairThresholds(w http.ResponseWriter, r *http.Request) {
	var req reconcile.RepairThresholdsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	thresholds, err := h.reconcileService.RepairThresholds(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, thresholds)
}
