package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/utility-oms/backoffice-api/v1/auth"
	"github.com/utility-oms/backoffice-api/v1/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService provides business logic for staff authentication and
// staff account management
type AuthService struct {
	db       *gorm.DB
	sessions *auth.SessionManager
}

// NewAuthService creates a new staff auth service
func NewAuthService(db *gorm.DB, sessions *auth.SessionManager) *AuthService {
	return &AuthService{
		db:       db,
		sessions: sessions,
	}
}

// HashPassword derives a bcrypt hash from a plaintext credential
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext credential against a stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login authenticates a staff user by username and password. Checks run
// in a fixed order: existence, then credential, then active flag, so a
// deactivated account with a wrong password reports the wrong password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", models.ErrValidation)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		return nil, models.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, models.ErrAccountDeactivated
	}

	token, expiresIn, err := s.sessions.IssueStaffToken(user.UserID, user.Role, req.Remember)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		FullName:  user.FullName,
		Role:      user.Role,
	}, nil
}

// RegisterStaff creates a new staff account. Admin only; the handler
// enforces the role gate, the service enforces payload validity.
func (s *AuthService) RegisterStaff(ctx context.Context, req models.RegisterStaffRequest) (*models.User, error) {
	if err := validateRegisterStaffRequest(req); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		Email:        strings.TrimSpace(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check for existing user: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: username or email already in use", models.ErrConflict)
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func validateRegisterStaffRequest(req models.RegisterStaffRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: email is required", models.ErrValidation)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return fmt.Errorf("%w: full name is required", models.ErrValidation)
	}
	// The staff-add surface only creates front-line accounts; admins and
	// managers are provisioned out of band.
	switch req.Role {
	case models.RoleCustomerService, models.RoleTechnician:
	default:
		return fmt.Errorf("%w: role must be customer_service or technician", models.ErrValidation)
	}
	if req.Password != req.ConfirmPassword {
		return models.ErrCredentialMismatch
	}
	if len(req.Password) < models.MinPasswordLength {
		return models.ErrCredentialTooShort
	}
	return nil
}

// ListStaff returns all staff accounts, optionally filtered by role
func (s *AuthService) ListStaff(ctx context.Context, role models.Role) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).Order("full_name")
	if role != "" {
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, role)
		}
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return users, nil
}

// GetStaff returns a single staff account by ID
func (s *AuthService) GetStaff(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateStaff edits an existing staff account. An empty NewPassword
// leaves the credential unchanged.
func (s *AuthService) UpdateStaff(ctx context.Context, userID string, req models.UpdateStaffRequest) (*models.User, error) {
	if req.Role != "" && !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, req.Role)
	}
	if req.NewPassword != "" && len(req.NewPassword) < models.MinPasswordLength {
		return nil, models.ErrCredentialTooShort
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if req.FullName != "" {
			user.FullName = strings.TrimSpace(req.FullName)
		}
		if req.Email != "" {
			user.Email = strings.TrimSpace(req.Email)
		}
		if req.Phone != "" {
			user.Phone = strings.TrimSpace(req.Phone)
		}
		if req.Role != "" {
			user.Role = req.Role
		}
		if req.NewPassword != "" {
			hash, err := HashPassword(req.NewPassword)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetStaffActive toggles the active flag on a staff account. Deactivation
// takes effect on the next request, not at token expiry.
func (s *AuthService) SetStaffActive(ctx context.Context, userID string, active bool) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}
		user.IsActive = active
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
