package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utility-oms/backoffice-api/v1/auth"
	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
	authutils "github.com/utility-oms/backoffice-api/v1/utils"
	"gorm.io/gorm"
)

func newTestSessions(t *testing.T) *auth.SessionManager {
	sessions, err := auth.NewSessionManager(auth.SessionManagerConfig{
		Secret: []byte("test-secret"),
	})
	require.NoError(t, err)
	return sessions
}

func createStaffUser(t *testing.T, db *gorm.DB, active bool) *models.User {
	user := models.User{
		Username:     "tech",
		PasswordHash: "not-checked-here",
		Email:        "tech@example.com",
		FullName:     "Test Technician",
		Role:         models.RoleTechnician,
		IsActive:     active,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createPortalCustomer(t *testing.T, db *gorm.DB, registered bool) *models.Customer {
	hash := "not-checked-here"
	customer := models.Customer{
		AccountNumber:    "KP-2026-0001",
		FirstName:        "Jane",
		LastName:         "Wanjiku",
		Phone:            "0722000000",
		IDNumber:         "12345678",
		Address:          "123 Moi Avenue",
		County:           "Nairobi",
		Town:             "Nairobi",
		CustomerType:     models.CustomerResidential,
		IsActive:         true,
		PortalRegistered: registered,
	}
	if registered {
		customer.PasswordHash = &hash
	}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func performRequest(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/faults", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestSessionAuthMiddleware_AuthenticateStaff(t *testing.T) {
	db := services.RequireTestDB(t)
	sessions := newTestSessions(t)
	middleware := NewSessionAuthMiddleware(sessions, db)

	user := createStaffUser(t, db, true)
	customer := createPortalCustomer(t, db, true)

	var seenPrincipal *models.StaffPrincipal
	handler := middleware.AuthenticateStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPrincipal, _ = authutils.StaffPrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("ValidStaffToken", func(t *testing.T) {
		token, _, err := sessions.IssueStaffToken(user.UserID, user.Role, false)
		require.NoError(t, err)

		recorder := performRequest(handler, token)
		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, seenPrincipal)
		assert.Equal(t, user.UserID, seenPrincipal.UserID)
		assert.Equal(t, models.RoleTechnician, seenPrincipal.Role)
	})

	t.Run("MissingToken", func(t *testing.T) {
		recorder := performRequest(handler, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		recorder := performRequest(handler, "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	// A portal session must never pass the staff gate
	t.Run("CustomerTokenRejected", func(t *testing.T) {
		token, _, err := sessions.IssueCustomerToken(customer.CustomerID)
		require.NoError(t, err)

		recorder := performRequest(handler, token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	// Deactivation takes effect on the next request, not at token expiry
	t.Run("DeactivatedUserRejected", func(t *testing.T) {
		token, _, err := sessions.IssueStaffToken(user.UserID, user.Role, false)
		require.NoError(t, err)
		require.NoError(t, db.Model(user).Update("is_active", false).Error)

		recorder := performRequest(handler, token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("WrongSecretRejected", func(t *testing.T) {
		foreign, err := auth.NewSessionManager(auth.SessionManagerConfig{
			Secret: []byte("other-secret"),
		})
		require.NoError(t, err)
		token, _, err := foreign.IssueStaffToken(user.UserID, user.Role, false)
		require.NoError(t, err)

		recorder := performRequest(handler, token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestSessionAuthMiddleware_AuthenticateCustomer(t *testing.T) {
	db := services.RequireTestDB(t)
	sessions := newTestSessions(t)
	middleware := NewSessionAuthMiddleware(sessions, db)

	user := createStaffUser(t, db, true)
	customer := createPortalCustomer(t, db, true)

	var seenPrincipal *models.CustomerPrincipal
	handler := middleware.AuthenticateCustomer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPrincipal, _ = authutils.CustomerPrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("ValidCustomerToken", func(t *testing.T) {
		token, _, err := sessions.IssueCustomerToken(customer.CustomerID)
		require.NoError(t, err)

		recorder := performRequest(handler, token)
		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, seenPrincipal)
		assert.Equal(t, customer.CustomerID, seenPrincipal.CustomerID)
		assert.Equal(t, customer.AccountNumber, seenPrincipal.AccountNumber)
	})

	// A staff session must never pass the portal gate
	t.Run("StaffTokenRejected", func(t *testing.T) {
		token, _, err := sessions.IssueStaffToken(user.UserID, user.Role, false)
		require.NoError(t, err)

		recorder := performRequest(handler, token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("UnregisteredCustomerRejected", func(t *testing.T) {
		token, _, err := sessions.IssueCustomerToken(customer.CustomerID)
		require.NoError(t, err)
		require.NoError(t, db.Model(customer).Update("portal_registered", false).Error)

		recorder := performRequest(handler, token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	// Deactivation takes effect on the next request, same as for staff
	t.Run("DeactivatedCustomerRejected", func(t *testing.T) {
		require.NoError(t, db.Model(customer).Updates(map[string]interface{}{
			"portal_registered": true,
			"is_active":         false,
		}).Error)
		token, _, err := sessions.IssueCustomerToken(customer.CustomerID)
		require.NoError(t, err)

		recorder := performRequest(handler, token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
