package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/utility-oms/backoffice-api/v1/auth"
	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/gorm"
)

// PortalAuthService provides business logic for customer portal
// registration, login and self-service profile management
type PortalAuthService struct {
	db       *gorm.DB
	sessions *auth.SessionManager
}

// NewPortalAuthService creates a new portal auth service
func NewPortalAuthService(db *gorm.DB, sessions *auth.SessionManager) *PortalAuthService {
	return &PortalAuthService{
		db:       db,
		sessions: sessions,
	}
}

// Register links an existing customer record to a portal credential. It
// never creates a customer; the account must already exist in the back
// office. Validation runs in a fixed order so the caller always sees the
// earliest failing check: existence, prior registration, identity, phone,
// credential confirmation, credential length.
func (s *PortalAuthService) Register(ctx context.Context, req models.PortalRegisterRequest) (*models.Customer, error) {
	accountNumber := strings.TrimSpace(req.AccountNumber)
	if accountNumber == "" {
		return nil, fmt.Errorf("%w: account number is required", models.ErrValidation)
	}

	var customer models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, "account_number = ?", accountNumber).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to look up customer: %w", err)
		}

		if customer.PortalRegistered {
			return models.ErrAlreadyRegistered
		}
		if customer.IDNumber != strings.TrimSpace(req.IDNumber) {
			return models.ErrIdentityMismatch
		}
		if customer.Phone != strings.TrimSpace(req.Phone) {
			return models.ErrPhoneMismatch
		}
		if req.Password != req.ConfirmPassword {
			return models.ErrCredentialMismatch
		}
		if len(req.Password) < models.MinPasswordLength {
			return models.ErrCredentialTooShort
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			return err
		}
		customer.PasswordHash = &hash
		customer.PortalRegistered = true

		if err := tx.Save(&customer).Error; err != nil {
			return fmt.Errorf("failed to register customer for the portal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Login authenticates a customer by account number and password. Checks
// run in a fixed order: existence, portal registration, credential,
// active flag. Login also stamps the customer's last login time.
func (s *PortalAuthService) Login(ctx context.Context, req models.PortalLoginRequest) (*models.LoginResponse, error) {
	accountNumber := strings.TrimSpace(req.AccountNumber)
	if accountNumber == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: account number and password are required", models.ErrValidation)
	}

	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "account_number = ?", accountNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	if !customer.PortalRegistered || customer.PasswordHash == nil {
		return nil, models.ErrNotRegistered
	}
	if !CheckPassword(*customer.PasswordHash, req.Password) {
		return nil, models.ErrInvalidCredentials
	}
	if !customer.IsActive {
		return nil, models.ErrAccountDeactivated
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&customer).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("failed to stamp last login: %w", err)
	}

	token, expiresIn, err := s.sessions.IssueCustomerToken(customer.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		FullName:  customer.FullName(),
	}, nil
}

// GetProfile returns the acting customer's own record
func (s *PortalAuthService) GetProfile(ctx context.Context, actor *models.CustomerPrincipal) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "customer_id = ?", actor.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

// UpdateProfile updates the customer-editable contact fields. Identity
// fields (name, ID number, account number) are staff-only.
func (s *PortalAuthService) UpdateProfile(ctx context.Context, actor *models.CustomerPrincipal, req models.UpdateProfileRequest) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, "customer_id = ?", actor.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get customer: %w", err)
		}
		if req.Email != "" {
			customer.Email = strings.TrimSpace(req.Email)
		}
		if req.Phone != "" {
			customer.Phone = strings.TrimSpace(req.Phone)
		}
		if err := tx.Save(&customer).Error; err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ChangePassword rotates the customer's portal credential after verifying
// the current one
func (s *PortalAuthService) ChangePassword(ctx context.Context, actor *models.CustomerPrincipal, req models.ChangePasswordRequest) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, "customer_id = ?", actor.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get customer: %w", err)
		}

		if customer.PasswordHash == nil || !CheckPassword(*customer.PasswordHash, req.CurrentPassword) {
			return models.ErrInvalidCredentials
		}
		if req.NewPassword != req.ConfirmPassword {
			return models.ErrCredentialMismatch
		}
		if len(req.NewPassword) < models.MinPasswordLength {
			return models.ErrCredentialTooShort
		}

		hash, err := HashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		customer.PasswordHash = &hash
		if err := tx.Save(&customer).Error; err != nil {
			return fmt.Errorf("failed to update credential: %w", err)
		}
		return nil
	})
}
