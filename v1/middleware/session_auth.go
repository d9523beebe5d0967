package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/utility-oms/backoffice-api/shared/utils"
	"github.com/utility-oms/backoffice-api/v1/auth"
	"github.com/utility-oms/backoffice-api/v1/models"
	authutils "github.com/utility-oms/backoffice-api/v1/utils"
	"gorm.io/gorm"
)

// SessionAuthMiddleware authenticates requests against signed session
// tokens and resolves the acting principal from the database, so a
// deactivated account loses access immediately, not at token expiry.
type SessionAuthMiddleware struct {
	sessions *auth.SessionManager
	db       *gorm.DB
}

// NewSessionAuthMiddleware creates a new session authentication middleware
func NewSessionAuthMiddleware(sessions *auth.SessionManager, db *gorm.DB) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{
		sessions: sessions,
		db:       db,
	}
}

// extractBearerToken pulls the token out of the Authorization header
func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)
	return token, token != ""
}

// AuthenticateStaff gates a handler behind a valid staff session. A
// customer token is rejected here exactly like a missing one.
func (m *SessionAuthMiddleware) AuthenticateStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := extractBearerToken(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := m.sessions.VerifyStaffToken(tokenString)
		if err != nil {
			slog.Warn("Staff token verification failed", "error", err)
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		var user models.User
		if err := m.db.First(&user, "user_id = ?", claims.Subject).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				slog.Error("Failed to load staff user for session", "error", err)
			}
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if !user.IsActive {
			utils.RespondWithError(w, http.StatusUnauthorized, "Account is deactivated")
			return
		}

		principal := &models.StaffPrincipal{
			UserID:   user.UserID,
			Username: user.Username,
			FullName: user.FullName,
			Role:     user.Role,
		}
		next.ServeHTTP(w, r.WithContext(authutils.WithStaffPrincipal(r.Context(), principal)))
	})
}

// AuthenticateCustomer gates a handler behind a valid portal session
func (m *SessionAuthMiddleware) AuthenticateCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := extractBearerToken(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := m.sessions.VerifyCustomerToken(tokenString)
		if err != nil {
			slog.Warn("Customer token verification failed", "error", err)
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		var customer models.Customer
		if err := m.db.First(&customer, "customer_id = ?", claims.Subject).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				slog.Error("Failed to load customer for session", "error", err)
			}
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if !customer.PortalRegistered {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if !customer.IsActive {
			utils.RespondWithError(w, http.StatusUnauthorized, "Account is deactivated")
			return
		}

		principal := &models.CustomerPrincipal{
			CustomerID:    customer.CustomerID,
			AccountNumber: customer.AccountNumber,
			FirstName:     customer.FirstName,
		}
		next.ServeHTTP(w, r.WithContext(authutils.WithCustomerPrincipal(r.Context(), principal)))
	})
}
