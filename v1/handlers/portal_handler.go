package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
	authutils "github.com/utility-oms/backoffice-api/v1/utils"
)

// PortalHandler handles the customer-facing portal surface. Everything
// here is scoped to the acting customer; a record owned by someone else
// is reported as not found, never as forbidden.
type PortalHandler struct {
	portalAuth    *services.PortalAuthService
	connections   *services.ConnectionService
	faults        *services.FaultService
	requests      *services.RequestService
	messages      *services.MessageService
	notifications *services.NotificationService
	reports       *services.ReportService
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(
	portalAuth *services.PortalAuthService,
	connections *services.ConnectionService,
	faults *services.FaultService,
	requests *services.RequestService,
	messages *services.MessageService,
	notifications *services.NotificationService,
	reports *services.ReportService,
) *PortalHandler {
	return &PortalHandler{
		portalAuth:    portalAuth,
		connections:   connections,
		faults:        faults,
		requests:      requests,
		messages:      messages,
		notifications: notifications,
		reports:       reports,
	}
}

func customerFromContext(w http.ResponseWriter, r *http.Request) (*models.CustomerPrincipal, bool) {
	principal, ok := authutils.CustomerPrincipalFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return nil, false
	}
	return principal, true
}

// Register handles POST /api/v1/portal/register
func (h *PortalHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.PortalRegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	customer, err := h.portalAuth.Register(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, customer)
}

// Login handles POST /api/v1/portal/login
func (h *PortalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.PortalLoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	response, err := h.portalAuth.Login(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response)
}

// Logout handles GET /api/v1/portal/logout. Tokens are stateless; the
// client discards its token and the event is logged.
func (h *PortalHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	slog.Info("Customer logged out", "customerId", principal.CustomerID, "accountNumber", principal.AccountNumber)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Dashboard handles GET /api/v1/portal/dashboard
func (h *PortalHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	dashboard, err := h.reports.CustomerDashboard(r.Context(), principal)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dashboard)
}

// GetProfile handles GET /api/v1/portal/profile
func (h *PortalHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	customer, err := h.portalAuth.GetProfile(r.Context(), principal)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, customer)
}

// UpdateProfile handles PUT /api/v1/portal/profile
func (h *PortalHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	customer, err := h.portalAuth.UpdateProfile(r.Context(), principal, req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, customer)
}

// ChangePassword handles POST /api/v1/portal/change-password
func (h *PortalHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.portalAuth.ChangePassword(r.Context(), principal, req); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// ListConnections handles GET /api/v1/portal/connections
func (h *PortalHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	connections, err := h.connections.ListOwnedConnections(r.Context(), principal)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(connections, int64(len(connections))))
}

// GetConnection handles GET /api/v1/portal/connections/{connectionId}
func (h *PortalHandler) GetConnection(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	connection, err := h.connections.GetOwnedConnection(r.Context(), principal, r.PathValue("connectionId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, connection)
}

// ReportFault handles POST /api/v1/portal/faults
func (h *PortalHandler) ReportFault(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	var req models.ReportFaultRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	fault, err := h.faults.ReportByCustomer(r.Context(), principal, req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, fault)
}

// ListFaults handles GET /api/v1/portal/faults
func (h *PortalHandler) ListFaults(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	faults, err := h.faults.ListFaultsForCustomer(r.Context(), principal)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(faults, int64(len(faults))))
}

// GetFault handles GET /api/v1/portal/faults/{faultId}
func (h *PortalHandler) GetFault(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	fault, err := h.faults.GetFaultForCustomer(r.Context(), principal, r.PathValue("faultId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fault)
}

// CreateRequest handles POST /api/v1/portal/requests
func (h *PortalHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	var req models.CreateServiceRequestRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	request, err := h.requests.CreateRequest(r.Context(), principal, req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, request)
}

// ListRequests handles GET /api/v1/portal/requests
func (h *PortalHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	requests, err := h.requests.ListRequestsForCustomer(r.Context(), principal)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(requests, int64(len(requests))))
}

// GetRequest handles GET /api/v1/portal/requests/{requestId}
func (h *PortalHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	request, err := h.requests.GetRequestForCustomer(r.Context(), principal, r.PathValue("requestId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}

// PostMessage handles POST /api/v1/portal/messages
func (h *PortalHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	var req models.NewMessageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	message, err := h.messages.PostMessage(r.Context(), principal, req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, message)
}

// ListMessages handles GET /api/v1/portal/messages
func (h *PortalHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	threads, err := h.messages.ListThreadsForCustomer(r.Context(), principal)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(threads, int64(len(threads))))
}

// ViewThread handles GET /api/v1/portal/messages/{messageId}
func (h *PortalHandler) ViewThread(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	thread, err := h.messages.ViewThreadAsCustomer(r.Context(), principal, r.PathValue("messageId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, thread)
}

// ReplyMessage handles POST /api/v1/portal/messages/{messageId}/reply
func (h *PortalHandler) ReplyMessage(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	var req models.ReplyMessageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	reply, err := h.messages.ReplyAsCustomer(r.Context(), principal, r.PathValue("messageId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, reply)
}

// ListNotifications handles GET /api/v1/portal/notifications
func (h *PortalHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, err := h.notifications.ListForCustomer(r.Context(), principal.CustomerID, unreadOnly, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(notifications, int64(len(notifications))))
}

// MarkNotificationRead handles POST /api/v1/portal/notifications/{notificationId}/read
func (h *PortalHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	if err := h.notifications.MarkReadForCustomer(r.Context(), principal.CustomerID, r.PathValue("notificationId")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllNotificationsRead handles POST /api/v1/portal/notifications/read-all
func (h *PortalHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := customerFromContext(w, r)
	if !ok {
		return
	}

	affected, err := h.notifications.MarkAllReadForCustomer(r.Context(), principal.CustomerID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"marked": affected})
}
