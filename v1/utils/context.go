package utils

import (
	"context"

	"github.com/utility-oms/backoffice-api/v1/models"
)

// contextKey is a custom type for context keys used with context.WithValue.
// Defining a custom type helps avoid key collisions with context keys defined in other packages.
type contextKey string

const (
	staffPrincipalKey    contextKey = "staffPrincipal"
	customerPrincipalKey contextKey = "customerPrincipal"
)

// WithStaffPrincipal stores the authenticated staff principal on the context
func WithStaffPrincipal(ctx context.Context, principal *models.StaffPrincipal) context.Context {
	return context.WithValue(ctx, staffPrincipalKey, principal)
}

// StaffPrincipalFromContext extracts the staff principal from the request context
func StaffPrincipalFromContext(ctx context.Context) (*models.StaffPrincipal, bool) {
	principal, ok := ctx.Value(staffPrincipalKey).(*models.StaffPrincipal)
	return principal, ok && principal != nil
}

// WithCustomerPrincipal stores the authenticated customer principal on the context
func WithCustomerPrincipal(ctx context.Context, principal *models.CustomerPrincipal) context.Context {
	return context.WithValue(ctx, customerPrincipalKey, principal)
}

// CustomerPrincipalFromContext extracts the customer principal from the request context
func CustomerPrincipalFromContext(ctx context.Context) (*models.CustomerPrincipal, bool) {
	principal, ok := ctx.Value(customerPrincipalKey).(*models.CustomerPrincipal)
	return principal, ok && principal != nil
}
