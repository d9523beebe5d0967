package handlers

import (
	"log/slog"
	"net/http"

	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
	authutils "github.com/utility-oms/backoffice-api/v1/utils"
)

// AuthHandler handles staff authentication and staff account management
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new staff auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	response, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response)
}

// Logout handles GET /api/v1/auth/logout. Session tokens are stateless,
// so there is nothing to invalidate server-side; the client discards the
// token and the event is logged.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := authutils.StaffPrincipalFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	slog.Info("Staff logged out", "userId", principal.UserID, "username", principal.Username)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := authutils.StaffPrincipalFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	respondWithJSON(w, http.StatusOK, principal)
}

// RegisterStaff handles POST /api/v1/staff
func (h *AuthHandler) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterStaffRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.authService.RegisterStaff(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// ListStaff handles GET /api/v1/staff
func (h *AuthHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))

	users, err := h.authService.ListStaff(r.Context(), role)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(users, int64(len(users))))
}

// GetStaff handles GET /api/v1/staff/{userId}
func (h *AuthHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetStaff(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateStaff handles PUT /api/v1/staff/{userId}
func (h *AuthHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStaffRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateStaff(r.Context(), r.PathValue("userId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// DeactivateStaff handles POST /api/v1/staff/{userId}/deactivate
func (h *AuthHandler) DeactivateStaff(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.SetStaffActive(r.Context(), r.PathValue("userId"), false)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// ReactivateStaff handles POST /api/v1/staff/{userId}/reactivate
func (h *AuthHandler) ReactivateStaff(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.SetStaffActive(r.Context(), r.PathValue("userId"), true)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
