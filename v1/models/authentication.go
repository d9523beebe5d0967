package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the signed claims carried by a session token. Kind
// keeps the two session mechanisms non-interchangeable: a staff gate
// rejects customer tokens outright and vice versa, before any role check.
type SessionClaims struct {
	Kind PrincipalKind `json:"kind"`
	// Role is only set for staff sessions
	Role Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// StaffPrincipal is the resolved acting staff user for a request. Every
// mutating operation takes its acting principal as an explicit argument;
// nothing is read ambiently from globals.
type StaffPrincipal struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// HasAnyRole reports whether the principal's role is in the permitted set
func (p *StaffPrincipal) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// CustomerPrincipal is the resolved acting customer for a portal request
type CustomerPrincipal struct {
	CustomerID    string `json:"customerId"`
	AccountNumber string `json:"accountNumber"`
	FirstName     string `json:"firstName"`
}

// LoginResponse is returned by both login endpoints
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	FullName  string `json:"fullName"`
	Role      Role   `json:"role,omitempty"`
}
