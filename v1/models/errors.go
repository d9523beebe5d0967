package models

import "errors"

// Sentinel errors for the service layer. Handlers map these to HTTP status
// codes; services wrap them with fmt.Errorf("%w: ...") to add detail.
var (
	// ErrNotFound covers both genuinely missing rows and rows owned by a
	// different customer. Portal lookups never distinguish the two, so a
	// foreign-owned row does not leak its existence.
	ErrNotFound = errors.New("record not found")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")

	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("duplicate record")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")

	// Customer portal registration and login
	ErrNotRegistered      = errors.New("account not registered for the portal")
	ErrAlreadyRegistered  = errors.New("account already registered for the portal")
	ErrIdentityMismatch   = errors.New("id number does not match our records")
	ErrPhoneMismatch      = errors.New("phone number does not match our records")
	ErrCredentialMismatch = errors.New("passwords do not match")
	ErrCredentialTooShort = errors.New("password must be at least 6 characters")

	// Referential mismatches
	ErrInvalidTarget     = errors.New("notification target must be exactly one of user or customer")
	ErrInvalidConnection = errors.New("connection does not belong to customer")

	// ErrStatusConflict is returned when an optimistic status precondition
	// fails because another request mutated the record concurrently.
	ErrStatusConflict = errors.New("record was modified concurrently")
)
