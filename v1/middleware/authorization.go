package middleware

import (
	"net/http"

	"github.com/utility-oms/backoffice-api/shared/utils"
	"github.com/utility-oms/backoffice-api/v1/models"
	authutils "github.com/utility-oms/backoffice-api/v1/utils"
)

// RequireAnyRole gates a handler behind a set of permitted staff roles.
// It must run after AuthenticateStaff; authentication failures are
// always reported before authorization ones.
func RequireAnyRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := authutils.StaffPrincipalFromContext(r.Context())
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !principal.HasAnyRole(roles...) {
				utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
