package handlers

import (
	"net/http"
	"strconv"

	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
)

// ConnectionHandler handles the staff-side connection registry
type ConnectionHandler struct {
	connections *services.ConnectionService
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

// CreateConnection handles POST /api/v1/connections
func (h *ConnectionHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateConnectionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	connection, err := h.connections.CreateConnection(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, connection)
}

// ListConnections handles GET /api/v1/connections
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))

	connections, total, err := h.connections.ListConnections(r.Context(), services.ConnectionFilter{
		Status:   models.ConnectionStatus(query.Get("status")),
		Search:   query.Get("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(connections, total))
}

// GetConnection handles GET /api/v1/connections/{connectionId}
func (h *ConnectionHandler) GetConnection(w http.ResponseWriter, r *http.Request) {
	connection, err := h.connections.GetConnection(r.Context(), r.PathValue("connectionId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, connection)
}

// UpdateConnectionStatus handles PUT /api/v1/connections/{connectionId}/status
func (h *ConnectionHandler) UpdateConnectionStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStatusRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	connection, err := h.connections.UpdateConnectionStatus(r.Context(),
		r.PathValue("connectionId"), models.ConnectionStatus(req.Status))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, connection)
}
