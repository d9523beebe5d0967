package handlers

import (
	"net/http"
	"strconv"

	"github.com/utility-oms/backoffice-api/v1/services"
)

// ReportHandler handles management reporting, the staff dashboard and the
// staff notification inbox
type ReportHandler struct {
	reports       *services.ReportService
	notifications *services.NotificationService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService, notifications *services.NotificationService) *ReportHandler {
	return &ReportHandler{
		reports:       reports,
		notifications: notifications,
	}
}

// Dashboard handles GET /api/v1/dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reports.StaffDashboard(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dashboard)
}

// FaultReport handles GET /api/v1/reports/faults
func (h *ReportHandler) FaultReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.FaultReport(r.Context(), parseDateParam(r, "from"), parseDateParam(r, "to"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// MaintenanceReport handles GET /api/v1/reports/maintenance
func (h *ReportHandler) MaintenanceReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.MaintenanceReport(r.Context(), parseDateParam(r, "from"), parseDateParam(r, "to"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// PerformanceReport handles GET /api/v1/reports/performance
func (h *ReportHandler) PerformanceReport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.reports.PerformanceSnapshot(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// ListNotifications handles GET /api/v1/notifications
func (h *ReportHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, err := h.notifications.ListForUser(r.Context(), principal.UserID, unreadOnly, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(notifications, int64(len(notifications))))
}

// MarkNotificationRead handles POST /api/v1/notifications/{notificationId}/read
func (h *ReportHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	if err := h.notifications.MarkReadForUser(r.Context(), principal.UserID, r.PathValue("notificationId")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllNotificationsRead handles POST /api/v1/notifications/read-all
func (h *ReportHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := staffFromContext(w, r)
	if !ok {
		return
	}

	affected, err := h.notifications.MarkAllReadForUser(r.Context(), principal.UserID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"marked": affected})
}
