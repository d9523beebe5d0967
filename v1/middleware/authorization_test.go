package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/utility-oms/backoffice-api/v1/models"
	authutils "github.com/utility-oms/backoffice-api/v1/utils"
)

func TestRequireAnyRole(t *testing.T) {
	handler := RequireAnyRole(models.RoleAdmin, models.RoleManager)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	requestAs := func(role models.Role) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/faults", nil)
		principal := &models.StaffPrincipal{
			UserID:   "user-1",
			Username: "staff",
			Role:     role,
		}
		req = req.WithContext(authutils.WithStaffPrincipal(req.Context(), principal))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		return recorder
	}

	t.Run("PermittedRole", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, requestAs(models.RoleManager).Code)
		assert.Equal(t, http.StatusOK, requestAs(models.RoleAdmin).Code)
	})

	t.Run("ForbiddenRole", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, requestAs(models.RoleTechnician).Code)
		assert.Equal(t, http.StatusForbidden, requestAs(models.RoleCustomerService).Code)
	})

	// Without a principal the failure is authentication, not authorization
	t.Run("NoPrincipal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/faults", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
