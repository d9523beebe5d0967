package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
)

// MaintenanceHandler handles the staff-side maintenance lifecycle
type MaintenanceHandler struct {
	maintenance *services.MaintenanceService
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenance *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

// parseDateParam parses a yyyy-mm-dd query parameter, returning the zero
// time for absent or malformed values
func parseDateParam(r *http.Request, name string) time.Time {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// ScheduleMaintenance handles POST /api/v1/maintenance
func (h *MaintenanceHandler) ScheduleMaintenance(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	var req models.ScheduleMaintenanceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	schedule, err := h.maintenance.ScheduleMaintenance(r.Context(), principal, req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, schedule)
}

// ListMaintenance handles GET /api/v1/maintenance
func (h *MaintenanceHandler) ListMaintenance(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))

	filter := services.MaintenanceFilter{
		Status:        models.MaintenanceStatus(query.Get("status")),
		EquipmentType: query.Get("equipmentType"),
		AssignedTo:    query.Get("assignedTo"),
		Page:          page,
		PageSize:      pageSize,
	}
	if from := parseDateParam(r, "from"); !from.IsZero() {
		filter.From = &from
	}
	if to := parseDateParam(r, "to"); !to.IsZero() {
		filter.To = &to
	}

	schedules, total, err := h.maintenance.ListMaintenance(r.Context(), principal, filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(schedules, total))
}

// CalendarEvents handles GET /api/v1/maintenance/events
func (h *MaintenanceHandler) CalendarEvents(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	events, err := h.maintenance.CalendarEvents(r.Context(), principal, parseDateParam(r, "start"), parseDateParam(r, "end"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, events)
}

// GetMaintenance handles GET /api/v1/maintenance/{maintenanceId}
func (h *MaintenanceHandler) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.maintenance.GetMaintenance(r.Context(), r.PathValue("maintenanceId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, schedule)
}

// UpdateMaintenanceStatus handles PUT /api/v1/maintenance/{maintenanceId}/status
func (h *MaintenanceHandler) UpdateMaintenanceStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStatusRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	schedule, err := h.maintenance.UpdateMaintenanceStatus(r.Context(), r.PathValue("maintenanceId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, schedule)
}

// AddMaintenanceLog handles POST /api/v1/maintenance/{maintenanceId}/logs
func (h *MaintenanceHandler) AddMaintenanceLog(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	var req models.AddMaintenanceLogRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	logEntry, err := h.maintenance.AddMaintenanceLog(r.Context(), principal, r.PathValue("maintenanceId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, logEntry)
}
