package handlers

import (
	"net/http"
	"strconv"

	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
)

// RequestHandler handles the staff-side service request surface
type RequestHandler struct {
	requests *services.RequestService
}

// NewRequestHandler creates a new service request handler
func NewRequestHandler(requests *services.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// ListRequests handles GET /api/v1/requests
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))

	requests, total, err := h.requests.ListRequests(r.Context(), services.RequestFilter{
		Status:   models.RequestStatus(query.Get("status")),
		Type:     query.Get("type"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(requests, total))
}

// GetRequest handles GET /api/v1/requests/{requestId}
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	request, err := h.requests.GetRequest(r.Context(), r.PathValue("requestId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}

// AssignRequest handles POST /api/v1/requests/{requestId}/assign
func (h *RequestHandler) AssignRequest(w http.ResponseWriter, r *http.Request) {
	var req models.AssignServiceRequestRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	request, err := h.requests.AssignRequest(r.Context(), r.PathValue("requestId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}

// UpdateRequestStatus handles PUT /api/v1/requests/{requestId}/status
func (h *RequestHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStatusRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	request, err := h.requests.UpdateRequestStatus(r.Context(), r.PathValue("requestId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}
