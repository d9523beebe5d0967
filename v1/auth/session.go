package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/utility-oms/backoffice-api/v1/models"
)

const (
	// DefaultSessionTTL applies to ordinary logins
	DefaultSessionTTL = 8 * time.Hour
	// RememberedSessionTTL applies when the login asks to be remembered
	RememberedSessionTTL = 30 * 24 * time.Hour
)

// SessionManagerConfig holds configuration for token issuance
type SessionManagerConfig struct {
	Secret      []byte
	Issuer      string
	SessionTTL  time.Duration
	RememberTTL time.Duration
}

// SessionManager issues and verifies signed session tokens. Staff and
// customer sessions share the signing key but carry a kind claim, so a
// token issued for one surface never passes the other's gate.
type SessionManager struct {
	config SessionManagerConfig
	logger *slog.Logger
}

// NewSessionManager creates a session manager from the given config
func NewSessionManager(config SessionManagerConfig) (*SessionManager, error) {
	if len(config.Secret) == 0 {
		return nil, fmt.Errorf("session secret must not be empty")
	}
	if config.Issuer == "" {
		config.Issuer = "backoffice-api"
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultSessionTTL
	}
	if config.RememberTTL <= 0 {
		config.RememberTTL = RememberedSessionTTL
	}
	return &SessionManager{
		config: config,
		logger: slog.Default(),
	}, nil
}

// IssueStaffToken signs a staff session token for the given user
func (sm *SessionManager) IssueStaffToken(userID string, role models.Role, remember bool) (string, int64, error) {
	return sm.issue(models.PrincipalStaff, userID, role, remember)
}

// IssueCustomerToken signs a portal session token for the given customer
func (sm *SessionManager) IssueCustomerToken(customerID string) (string, int64, error) {
	return sm.issue(models.PrincipalCustomer, customerID, "", false)
}

func (sm *SessionManager) issue(kind models.PrincipalKind, subject string, role models.Role, remember bool) (string, int64, error) {
	ttl := sm.config.SessionTTL
	if remember {
		ttl = sm.config.RememberTTL
	}

	now := time.Now()
	claims := models.SessionClaims{
		Kind: kind,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    sm.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(sm.config.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, int64(ttl.Seconds()), nil
}

// VerifyToken verifies a session token and returns its claims. Expired,
// malformed, or wrongly signed tokens all come back as ErrUnauthenticated;
// the caller never learns which check failed.
func (sm *SessionManager) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sm.config.Secret, nil
	}, jwt.WithIssuer(sm.config.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		sm.logger.Debug("session token rejected", "error", err)
		return nil, models.ErrUnauthenticated
	}
	if !token.Valid {
		return nil, models.ErrUnauthenticated
	}
	return claims, nil
}

// VerifyStaffToken verifies a token and requires it to be a staff session
func (sm *SessionManager) VerifyStaffToken(tokenString string) (*models.SessionClaims, error) {
	claims, err := sm.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != models.PrincipalStaff {
		return nil, models.ErrUnauthenticated
	}
	return claims, nil
}

// VerifyCustomerToken verifies a token and requires it to be a portal session
func (sm *SessionManager) VerifyCustomerToken(tokenString string) (*models.SessionClaims, error) {
	claims, err := sm.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != models.PrincipalCustomer {
		return nil, models.ErrUnauthenticated
	}
	return claims, nil
}
