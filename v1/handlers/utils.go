package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/utility-oms/backoffice-api/v1/models"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// respondWithJSON sends a JSON response with the given status code
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already written; log and move on
		slog.Error("Failed to encode JSON response", "error", err, "statusCode", statusCode)
		return
	}
}

// respondWithError sends a JSON error response with the given status code
func respondWithError(w http.ResponseWriter, statusCode int, code, message string) {
	response := ErrorResponse{}
	response.Error.Code = code
	response.Error.Message = message

	respondWithJSON(w, statusCode, response)
}

// respondWithServiceError maps a service error onto the HTTP surface.
// Sentinel errors carry their own status; anything unrecognized is a 500
// with a generic body so internals never leak to the client.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, models.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, models.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
	case errors.Is(err, models.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, models.ErrAccountDeactivated):
		respondWithError(w, http.StatusUnauthorized, "ACCOUNT_DEACTIVATED", "Account is deactivated")
	case errors.Is(err, models.ErrNotRegistered):
		respondWithError(w, http.StatusUnauthorized, "NOT_REGISTERED", "Account is not registered for the portal")
	case errors.Is(err, models.ErrAlreadyRegistered):
		respondWithError(w, http.StatusConflict, "ALREADY_REGISTERED", "Account is already registered for the portal")
	case errors.Is(err, models.ErrIdentityMismatch):
		respondWithError(w, http.StatusBadRequest, "IDENTITY_MISMATCH", err.Error())
	case errors.Is(err, models.ErrPhoneMismatch):
		respondWithError(w, http.StatusBadRequest, "PHONE_MISMATCH", err.Error())
	case errors.Is(err, models.ErrCredentialMismatch):
		respondWithError(w, http.StatusBadRequest, "PASSWORD_MISMATCH", err.Error())
	case errors.Is(err, models.ErrCredentialTooShort):
		respondWithError(w, http.StatusBadRequest, "PASSWORD_TOO_SHORT", err.Error())
	case errors.Is(err, models.ErrInvalidConnection):
		respondWithError(w, http.StatusBadRequest, "INVALID_CONNECTION", err.Error())
	case errors.Is(err, models.ErrInvalidTarget):
		respondWithError(w, http.StatusBadRequest, "INVALID_TARGET", err.Error())
	case errors.Is(err, models.ErrStatusConflict):
		respondWithError(w, http.StatusConflict, "STATUS_CONFLICT", "Record was modified concurrently, retry")
	case errors.Is(err, models.ErrConflict):
		respondWithError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, models.ErrValidation):
		respondWithError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	default:
		slog.Error("Unhandled service error", "error", err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// decodeJSONBody parses the request body into target and reports malformed
// payloads as a 400
func decodeJSONBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON payload")
		return false
	}
	return true
}

// collectionResponse wraps a list payload with its total count
func collectionResponse(items interface{}, total int64) map[string]interface{} {
	return map[string]interface{}{
		"items": items,
		"total": total,
	}
}
