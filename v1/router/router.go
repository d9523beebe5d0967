package router

import (
	"net/http"

	"github.com/utility-oms/backoffice-api/shared/utils"
	"github.com/utility-oms/backoffice-api/v1/handlers"
	"github.com/utility-oms/backoffice-api/v1/middleware"
	"github.com/utility-oms/backoffice-api/v1/models"
)

// V1Router handles all V1 API route registration. Staff routes are gated
// by role; portal routes only require a customer session. The two session
// kinds are never interchangeable.
type V1Router struct {
	authHandler        *handlers.AuthHandler
	portalHandler      *handlers.PortalHandler
	customerHandler    *handlers.CustomerHandler
	connectionHandler  *handlers.ConnectionHandler
	faultHandler       *handlers.FaultHandler
	maintenanceHandler *handlers.MaintenanceHandler
	requestHandler     *handlers.RequestHandler
	messageHandler     *handlers.MessageHandler
	reportHandler      *handlers.ReportHandler
	sessionAuth        *middleware.SessionAuthMiddleware
}

// NewV1Router creates a new V1 router with all dependencies
func NewV1Router(
	authHandler *handlers.AuthHandler,
	portalHandler *handlers.PortalHandler,
	customerHandler *handlers.CustomerHandler,
	connectionHandler *handlers.ConnectionHandler,
	faultHandler *handlers.FaultHandler,
	maintenanceHandler *handlers.MaintenanceHandler,
	requestHandler *handlers.RequestHandler,
	messageHandler *handlers.MessageHandler,
	reportHandler *handlers.ReportHandler,
	sessionAuth *middleware.SessionAuthMiddleware,
) *V1Router {
	return &V1Router{
		authHandler:        authHandler,
		portalHandler:      portalHandler,
		customerHandler:    customerHandler,
		connectionHandler:  connectionHandler,
		faultHandler:       faultHandler,
		maintenanceHandler: maintenanceHandler,
		requestHandler:     requestHandler,
		messageHandler:     messageHandler,
		reportHandler:      reportHandler,
		sessionAuth:        sessionAuth,
	}
}

// public wraps an unauthenticated handler
func public(handlerFunc http.HandlerFunc) http.Handler {
	return utils.PanicRecoveryMiddleware(handlerFunc)
}

// staff wraps a handler behind staff authentication and an optional role
// gate. No roles means any authenticated staff member.
func (r *V1Router) staff(handlerFunc http.HandlerFunc, roles ...models.Role) http.Handler {
	var handler http.Handler = handlerFunc
	if len(roles) > 0 {
		handler = middleware.RequireAnyRole(roles...)(handler)
	}
	return utils.PanicRecoveryMiddleware(r.sessionAuth.AuthenticateStaff(handler))
}

// customer wraps a handler behind customer portal authentication
func (r *V1Router) customer(handlerFunc http.HandlerFunc) http.Handler {
	return utils.PanicRecoveryMiddleware(r.sessionAuth.AuthenticateCustomer(handlerFunc))
}

// RegisterRoutes registers all V1 API routes to the provided mux
func (r *V1Router) RegisterRoutes(mux *http.ServeMux) {
	r.registerAuthRoutes(mux)
	r.registerStaffRoutes(mux)
	r.registerPortalRoutes(mux)
}

func (r *V1Router) registerAuthRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/v1/health", public(utils.HealthHandler("backoffice-api")))
	mux.Handle("POST /api/v1/auth/login", public(r.authHandler.Login))
	mux.Handle("POST /api/v1/portal/register", public(r.portalHandler.Register))
	mux.Handle("POST /api/v1/portal/login", public(r.portalHandler.Login))
}

func (r *V1Router) registerStaffRoutes(mux *http.ServeMux) {
	admin := []models.Role{models.RoleAdmin}
	managers := []models.Role{models.RoleAdmin, models.RoleManager}
	fieldStaff := []models.Role{models.RoleAdmin, models.RoleManager, models.RoleTechnician}
	frontOffice := []models.Role{models.RoleAdmin, models.RoleManager, models.RoleCustomerService}

	mux.Handle("GET /api/v1/auth/me", r.staff(r.authHandler.Me))
	mux.Handle("GET /api/v1/auth/logout", r.staff(r.authHandler.Logout))
	mux.Handle("GET /api/v1/dashboard", r.staff(r.reportHandler.Dashboard))

	// Staff account management (admin only)
	mux.Handle("POST /api/v1/staff", r.staff(r.authHandler.RegisterStaff, admin...))
	mux.Handle("GET /api/v1/staff", r.staff(r.authHandler.ListStaff, managers...))
	mux.Handle("GET /api/v1/staff/{userId}", r.staff(r.authHandler.GetStaff, managers...))
	mux.Handle("PUT /api/v1/staff/{userId}", r.staff(r.authHandler.UpdateStaff, admin...))
	mux.Handle("POST /api/v1/staff/{userId}/deactivate", r.staff(r.authHandler.DeactivateStaff, admin...))
	mux.Handle("POST /api/v1/staff/{userId}/reactivate", r.staff(r.authHandler.ReactivateStaff, admin...))

	// Customer registry
	mux.Handle("POST /api/v1/customers", r.staff(r.customerHandler.CreateCustomer, frontOffice...))
	mux.Handle("GET /api/v1/customers", r.staff(r.customerHandler.ListCustomers))
	mux.Handle("GET /api/v1/customers/{customerId}", r.staff(r.customerHandler.GetCustomer))
	mux.Handle("PUT /api/v1/customers/{customerId}", r.staff(r.customerHandler.UpdateCustomer, frontOffice...))
	mux.Handle("GET /api/v1/customers/{customerId}/connections", r.staff(r.customerHandler.GetCustomerConnections))

	// Connection registry
	mux.Handle("POST /api/v1/connections", r.staff(r.connectionHandler.CreateConnection, fieldStaff...))
	mux.Handle("GET /api/v1/connections", r.staff(r.connectionHandler.ListConnections))
	mux.Handle("GET /api/v1/connections/{connectionId}", r.staff(r.connectionHandler.GetConnection))
	mux.Handle("PUT /api/v1/connections/{connectionId}/status", r.staff(r.connectionHandler.UpdateConnectionStatus, fieldStaff...))

	// Fault lifecycle
	mux.Handle("POST /api/v1/faults", r.staff(r.faultHandler.ReportFault))
	mux.Handle("GET /api/v1/faults", r.staff(r.faultHandler.ListFaults))
	mux.Handle("GET /api/v1/faults/{faultId}", r.staff(r.faultHandler.GetFault))
	mux.Handle("POST /api/v1/faults/{faultId}/assign", r.staff(r.faultHandler.AssignFault, managers...))
	mux.Handle("PUT /api/v1/faults/{faultId}/status", r.staff(r.faultHandler.UpdateFaultStatus))
	mux.Handle("POST /api/v1/faults/{faultId}/notes", r.staff(r.faultHandler.AddFaultNote))

	// Maintenance lifecycle
	mux.Handle("POST /api/v1/maintenance", r.staff(r.maintenanceHandler.ScheduleMaintenance, managers...))
	mux.Handle("GET /api/v1/maintenance", r.staff(r.maintenanceHandler.ListMaintenance))
	mux.Handle("GET /api/v1/maintenance/events", r.staff(r.maintenanceHandler.CalendarEvents))
	mux.Handle("GET /api/v1/maintenance/{maintenanceId}", r.staff(r.maintenanceHandler.GetMaintenance))
	mux.Handle("PUT /api/v1/maintenance/{maintenanceId}/status", r.staff(r.maintenanceHandler.UpdateMaintenanceStatus))
	mux.Handle("POST /api/v1/maintenance/{maintenanceId}/logs", r.staff(r.maintenanceHandler.AddMaintenanceLog, fieldStaff...))

	// Service requests
	mux.Handle("GET /api/v1/requests", r.staff(r.requestHandler.ListRequests, frontOffice...))
	mux.Handle("GET /api/v1/requests/{requestId}", r.staff(r.requestHandler.GetRequest, frontOffice...))
	mux.Handle("POST /api/v1/requests/{requestId}/assign", r.staff(r.requestHandler.AssignRequest, managers...))
	mux.Handle("PUT /api/v1/requests/{requestId}/status", r.staff(r.requestHandler.UpdateRequestStatus, frontOffice...))

	// Support messages
	mux.Handle("GET /api/v1/messages", r.staff(r.messageHandler.ListThreads, frontOffice...))
	mux.Handle("GET /api/v1/messages/{messageId}", r.staff(r.messageHandler.ViewThread, frontOffice...))
	mux.Handle("POST /api/v1/messages/{messageId}/reply", r.staff(r.messageHandler.ReplyMessage, frontOffice...))

	// Reporting
	mux.Handle("GET /api/v1/reports/faults", r.staff(r.reportHandler.FaultReport, managers...))
	mux.Handle("GET /api/v1/reports/maintenance", r.staff(r.reportHandler.MaintenanceReport, managers...))
	mux.Handle("GET /api/v1/reports/performance", r.staff(r.reportHandler.PerformanceReport, managers...))

	// Staff notification inbox
	mux.Handle("GET /api/v1/notifications", r.staff(r.reportHandler.ListNotifications))
	mux.Handle("POST /api/v1/notifications/{notificationId}/read", r.staff(r.reportHandler.MarkNotificationRead))
	mux.Handle("POST /api/v1/notifications/read-all", r.staff(r.reportHandler.MarkAllNotificationsRead))
}

func (r *V1Router) registerPortalRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/v1/portal/logout", r.customer(r.portalHandler.Logout))
	mux.Handle("GET /api/v1/portal/dashboard", r.customer(r.portalHandler.Dashboard))
	mux.Handle("GET /api/v1/portal/profile", r.customer(r.portalHandler.GetProfile))
	mux.Handle("PUT /api/v1/portal/profile", r.customer(r.portalHandler.UpdateProfile))
	mux.Handle("POST /api/v1/portal/change-password", r.customer(r.portalHandler.ChangePassword))

	mux.Handle("GET /api/v1/portal/connections", r.customer(r.portalHandler.ListConnections))
	mux.Handle("GET /api/v1/portal/connections/{connectionId}", r.customer(r.portalHandler.GetConnection))

	mux.Handle("POST /api/v1/portal/faults", r.customer(r.portalHandler.ReportFault))
	mux.Handle("GET /api/v1/portal/faults", r.customer(r.portalHandler.ListFaults))
	mux.Handle("GET /api/v1/portal/faults/{faultId}", r.customer(r.portalHandler.GetFault))

	mux.Handle("POST /api/v1/portal/requests", r.customer(r.portalHandler.CreateRequest))
	mux.Handle("GET /api/v1/portal/requests", r.customer(r.portalHandler.ListRequests))
	mux.Handle("GET /api/v1/portal/requests/{requestId}", r.customer(r.portalHandler.GetRequest))

	mux.Handle("POST /api/v1/portal/messages", r.customer(r.portalHandler.PostMessage))
	mux.Handle("GET /api/v1/portal/messages", r.customer(r.portalHandler.ListMessages))
	mux.Handle("GET /api/v1/portal/messages/{messageId}", r.customer(r.portalHandler.ViewThread))
	mux.Handle("POST /api/v1/portal/messages/{messageId}/reply", r.customer(r.portalHandler.ReplyMessage))

	mux.Handle("GET /api/v1/portal/notifications", r.customer(r.portalHandler.ListNotifications))
	mux.Handle("POST /api/v1/portal/notifications/{notificationId}/read", r.customer(r.portalHandler.MarkNotificationRead))
	mux.Handle("POST /api/v1/portal/notifications/read-all", r.customer(r.portalHandler.MarkAllNotificationsRead))
}
