package handlers

import (
	"net/http"
	"strconv"

	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
	authutils "github.com/utility-oms/backoffice-api/v1/utils"
)

// FaultHandler handles the staff-side fault lifecycle
type FaultHandler struct {
	faults *services.FaultService
}

// NewFaultHandler creates a new fault handler
func NewFaultHandler(faults *services.FaultService) *FaultHandler {
	return &FaultHandler{faults: faults}
}

func staffFromContext(w http.ResponseWriter, r *http.Request) (*models.StaffPrincipal, bool) {
	principal, ok := authutils.StaffPrincipalFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return nil, false
	}
	return principal, true
}

// ReportFault handles POST /api/v1/faults
func (h *FaultHandler) ReportFault(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	var req models.ReportFaultRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	fault, err := h.faults.ReportByStaff(r.Context(), principal, req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, fault)
}

// ListFaults handles GET /api/v1/faults
func (h *FaultHandler) ListFaults(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))

	faults, total, err := h.faults.ListFaults(r.Context(), principal, services.FaultFilter{
		Status:     models.FaultStatus(query.Get("status")),
		Severity:   models.FaultSeverity(query.Get("severity")),
		AssignedTo: query.Get("assignedTo"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(faults, total))
}

// GetFault handles GET /api/v1/faults/{faultId}
func (h *FaultHandler) GetFault(w http.ResponseWriter, r *http.Request) {
	fault, err := h.faults.GetFault(r.Context(), r.PathValue("faultId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fault)
}

// AssignFault handles POST /api/v1/faults/{faultId}/assign
func (h *FaultHandler) AssignFault(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	var req models.AssignFaultRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	fault, err := h.faults.AssignFault(r.Context(), principal, r.PathValue("faultId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fault)
}

// UpdateFaultStatus handles PUT /api/v1/faults/{faultId}/status
func (h *FaultHandler) UpdateFaultStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	fault, err := h.faults.UpdateFaultStatus(r.Context(), principal, r.PathValue("faultId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fault)
}

// AddFaultNote handles POST /api/v1/faults/{faultId}/notes
func (h *FaultHandler) AddFaultNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	var req models.AddNoteRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	update, err := h.faults.AddFaultNote(r.Context(), principal, r.PathValue("faultId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, update)
}
