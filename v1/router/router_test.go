package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utility-oms/backoffice-api/v1/auth"
	"github.com/utility-oms/backoffice-api/v1/handlers"
	"github.com/utility-oms/backoffice-api/v1/middleware"
	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
	"gorm.io/gorm"
)

type testStack struct {
	mux *http.ServeMux
	db  *gorm.DB
}

func setupTestStack(t *testing.T) *testStack {
	db := services.RequireTestDB(t)

	sessions, err := auth.NewSessionManager(auth.SessionManagerConfig{
		Secret: []byte("test-secret"),
	})
	require.NoError(t, err)

	authService := services.NewAuthService(db, sessions)
	portalAuthService := services.NewPortalAuthService(db, sessions)
	customerService := services.NewCustomerService(db)
	connectionService := services.NewConnectionService(db)
	faultService := services.NewFaultService(db)
	maintenanceService := services.NewMaintenanceService(db)
	requestService := services.NewRequestService(db)
	messageService := services.NewMessageService(db)
	notificationService := services.NewNotificationService(db)
	reportService := services.NewReportService(db)

	v1Router := NewV1Router(
		handlers.NewAuthHandler(authService),
		handlers.NewPortalHandler(portalAuthService, connectionService, faultService,
			requestService, messageService, notificationService, reportService),
		handlers.NewCustomerHandler(customerService, connectionService),
		handlers.NewConnectionHandler(connectionService),
		handlers.NewFaultHandler(faultService),
		handlers.NewMaintenanceHandler(maintenanceService),
		handlers.NewRequestHandler(requestService),
		handlers.NewMessageHandler(messageService),
		handlers.NewReportHandler(reportService, notificationService),
		middleware.NewSessionAuthMiddleware(sessions, db),
	)

	mux := http.NewServeMux()
	v1Router.RegisterRoutes(mux)
	return &testStack{mux: mux, db: db}
}

func (s *testStack) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.mux.ServeHTTP(recorder, req)
	return recorder
}

func (s *testStack) createStaff(t *testing.T, username string, role models.Role) *models.User {
	hash, err := services.HashPassword("password123")
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@example.com",
		FullName:     "Test " + username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, s.db.Create(&user).Error)
	return &user
}

func (s *testStack) loginStaff(t *testing.T, username string) string {
	recorder := s.request(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Username: username,
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouter_HealthAndUnknownRoutes(t *testing.T) {
	stack := setupTestStack(t)

	recorder := stack.request(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = stack.request(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRouter_StaffAuthorization(t *testing.T) {
	stack := setupTestStack(t)
	stack.createStaff(t, "manager", models.RoleManager)
	stack.createStaff(t, "tech", models.RoleTechnician)
	managerToken := stack.loginStaff(t, "manager")
	techToken := stack.loginStaff(t, "tech")

	t.Run("NoToken_Unauthorized", func(t *testing.T) {
		recorder := stack.request(t, http.MethodGet, "/api/v1/faults", "", nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("AnyStaff_CanListFaults", func(t *testing.T) {
		recorder := stack.request(t, http.MethodGet, "/api/v1/faults", techToken, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Technician_CannotSchedule", func(t *testing.T) {
		recorder := stack.request(t, http.MethodPost, "/api/v1/maintenance", techToken, models.ScheduleMaintenanceRequest{})
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("Manager_CanViewReports", func(t *testing.T) {
		recorder := stack.request(t, http.MethodGet, "/api/v1/reports/faults", managerToken, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = stack.request(t, http.MethodGet, "/api/v1/reports/faults", techToken, nil)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("CalendarFeed_NotShadowedByDetailRoute", func(t *testing.T) {
		recorder := stack.request(t, http.MethodGet, "/api/v1/maintenance/events", techToken, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("AnyStaff_CanUpdateFaultStatus", func(t *testing.T) {
		stack.createStaff(t, "clerk", models.RoleCustomerService)
		clerkToken := stack.loginStaff(t, "clerk")

		recorder := stack.request(t, http.MethodPost, "/api/v1/faults", managerToken, models.ReportFaultRequest{
			FaultType:   models.FaultLineFault,
			Description: "Sparking pole on Kenyatta Avenue",
		})
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

		var fault models.Fault
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &fault))

		recorder = stack.request(t, http.MethodPut, "/api/v1/faults/"+fault.FaultID+"/status", clerkToken, models.UpdateStatusRequest{
			Status: string(models.FaultAcknowledged),
		})
		assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	})

	t.Run("Technician_CanCreateConnection", func(t *testing.T) {
		recorder := stack.request(t, http.MethodPost, "/api/v1/customers", managerToken, models.CreateCustomerRequest{
			FirstName:    "Peter",
			LastName:     "Otieno",
			Phone:        "0733000000",
			IDNumber:     "87654321",
			Address:      "45 Oginga Street",
			County:       "Kisumu",
			Town:         "Kisumu",
			CustomerType: models.CustomerResidential,
		})
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

		var customer models.Customer
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &customer))

		recorder = stack.request(t, http.MethodPost, "/api/v1/connections", techToken, models.CreateConnectionRequest{
			CustomerID:     customer.CustomerID,
			CountyCode:     "KSM",
			ConnectionType: models.ConnectionSinglePhase,
			LoadCapacity:   5.5,
		})
		assert.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	})

	t.Run("Logout_AcknowledgesAndRequiresSession", func(t *testing.T) {
		recorder := stack.request(t, http.MethodGet, "/api/v1/auth/logout", techToken, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = stack.request(t, http.MethodGet, "/api/v1/auth/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	// Deactivated accounts are told apart from bad credentials by code,
	// but both read as 401
	t.Run("DeactivatedStaffLogin_Unauthorized", func(t *testing.T) {
		dormant := stack.createStaff(t, "dormant", models.RoleCustomerService)
		require.NoError(t, stack.db.Model(dormant).Update("is_active", false).Error)

		recorder := stack.request(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
			Username: "dormant",
			Password: "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, recorder.Body.String())
	})
}

func TestRouter_PortalFlow(t *testing.T) {
	stack := setupTestStack(t)
	manager := stack.createStaff(t, "manager", models.RoleManager)
	managerToken := stack.loginStaff(t, "manager")

	// The customer record exists before registration; the portal only
	// attaches a credential to it.
	recorder := stack.request(t, http.MethodPost, "/api/v1/customers", managerToken, models.CreateCustomerRequest{
		FirstName:    "Jane",
		LastName:     "Wanjiku",
		Phone:        "0722000000",
		IDNumber:     "12345678",
		Address:      "123 Moi Avenue",
		County:       "Nairobi",
		Town:         "Nairobi",
		CustomerType: models.CustomerResidential,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created models.Customer
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	require.NotEmpty(t, created.AccountNumber)

	t.Run("Register_Login_ReportFault", func(t *testing.T) {
		recorder := stack.request(t, http.MethodPost, "/api/v1/portal/register", "", models.PortalRegisterRequest{
			AccountNumber:   created.AccountNumber,
			IDNumber:        "12345678",
			Phone:           "0722000000",
			Password:        "secret1",
			ConfirmPassword: "secret1",
		})
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

		recorder = stack.request(t, http.MethodPost, "/api/v1/portal/login", "", models.PortalLoginRequest{
			AccountNumber: created.AccountNumber,
			Password:      "secret1",
		})
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		var login models.LoginResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &login))

		recorder = stack.request(t, http.MethodPost, "/api/v1/portal/faults", login.Token, models.ReportFaultRequest{
			FaultType:   models.FaultPowerOutage,
			Description: "No power at my premises",
		})
		assert.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

		// Managers were notified of the new fault
		var count int64
		require.NoError(t, stack.db.Model(&models.Notification{}).
			Where("user_id = ?", manager.UserID).Count(&count).Error)
		assert.Greater(t, count, int64(0))

		// A portal session never opens the staff surface
		recorder = stack.request(t, http.MethodGet, "/api/v1/faults", login.Token, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		// And a staff session never opens the portal surface
		recorder = stack.request(t, http.MethodGet, "/api/v1/portal/faults", managerToken, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		recorder = stack.request(t, http.MethodGet, "/api/v1/portal/logout", login.Token, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = stack.request(t, http.MethodGet, "/api/v1/portal/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	// Already-registered wins over any identity mismatch in the payload
	t.Run("Register_AlreadyRegistered", func(t *testing.T) {
		recorder := stack.request(t, http.MethodPost, "/api/v1/portal/register", "", models.PortalRegisterRequest{
			AccountNumber:   created.AccountNumber,
			IDNumber:        "99999999",
			Phone:           "0722000000",
			Password:        "secret1",
			ConfirmPassword: "secret1",
		})
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}
