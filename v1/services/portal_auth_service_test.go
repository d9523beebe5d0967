package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/gorm"
)

func seedCustomer(t *testing.T, db *gorm.DB, accountNumber, idNumber, phone string) *models.Customer {
	customer := models.Customer{
		AccountNumber: accountNumber,
		FirstName:     "Grace",
		LastName:      "Akinyi",
		Email:         "grace@example.com",
		Phone:         phone,
		IDNumber:      idNumber,
		Address:       "12 Moi Avenue",
		County:        "Nairobi",
		Town:          "Nairobi",
		CustomerType:  models.CustomerResidential,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func registerPortalCustomer(t *testing.T, db *gorm.DB, service *PortalAuthService, customer *models.Customer) {
	_, err := service.Register(context.Background(), models.PortalRegisterRequest{
		AccountNumber:   customer.AccountNumber,
		IDNumber:        customer.IDNumber,
		Phone:           customer.Phone,
		Password:        "portal-pass",
		ConfirmPassword: "portal-pass",
	})
	require.NoError(t, err)
}

func TestPortalAuthService_Register(t *testing.T) {
	db := RequireTestDB(t)
	service := NewPortalAuthService(db, newTestSessionManager(t))
	customer := seedCustomer(t, db, "KP-2026-0001", "12345678", "0722000000")

	valid := models.PortalRegisterRequest{
		AccountNumber:   customer.AccountNumber,
		IDNumber:        customer.IDNumber,
		Phone:           customer.Phone,
		Password:        "portal-pass",
		ConfirmPassword: "portal-pass",
	}

	// Validation runs in a fixed order; each case trips exactly the check
	// it targets even when later fields are also wrong
	t.Run("Register_UnknownAccount", func(t *testing.T) {
		req := valid
		req.AccountNumber = "KP-2026-9999"
		req.IDNumber = "wrong"
		_, err := service.Register(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Register_IdentityMismatch", func(t *testing.T) {
		req := valid
		req.IDNumber = "99999999"
		req.Phone = "wrong"
		_, err := service.Register(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrIdentityMismatch)
	})

	t.Run("Register_PhoneMismatch", func(t *testing.T) {
		req := valid
		req.Phone = "0799999999"
		req.ConfirmPassword = "different"
		_, err := service.Register(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrPhoneMismatch)
	})

	t.Run("Register_PasswordMismatch", func(t *testing.T) {
		req := valid
		req.ConfirmPassword = "different"
		_, err := service.Register(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrCredentialMismatch)
	})

	t.Run("Register_PasswordTooShort", func(t *testing.T) {
		req := valid
		req.Password = "abc"
		req.ConfirmPassword = "abc"
		_, err := service.Register(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrCredentialTooShort)
	})

	t.Run("Register_Success", func(t *testing.T) {
		registered, err := service.Register(context.Background(), valid)
		require.NoError(t, err)
		assert.True(t, registered.PortalRegistered)
		require.NotNil(t, registered.PasswordHash)
		assert.True(t, CheckPassword(*registered.PasswordHash, "portal-pass"))
	})

	t.Run("Register_AlreadyRegistered", func(t *testing.T) {
		_, err := service.Register(context.Background(), valid)
		assert.ErrorIs(t, err, models.ErrAlreadyRegistered)
	})
}

func TestPortalAuthService_Login(t *testing.T) {
	db := RequireTestDB(t)
	service := NewPortalAuthService(db, newTestSessionManager(t))

	registered := seedCustomer(t, db, "KP-2026-0001", "12345678", "0722000000")
	registerPortalCustomer(t, db, service, registered)
	seedCustomer(t, db, "KP-2026-0002", "87654321", "0733000000")

	t.Run("Login_Success_StampsLastLogin", func(t *testing.T) {
		resp, err := service.Login(context.Background(), models.PortalLoginRequest{
			AccountNumber: registered.AccountNumber,
			Password:      "portal-pass",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "Grace Akinyi", resp.FullName)
		assert.Empty(t, resp.Role)

		var reloaded models.Customer
		require.NoError(t, db.First(&reloaded, "customer_id = ?", registered.CustomerID).Error)
		assert.NotNil(t, reloaded.LastLogin)
	})

	t.Run("Login_UnknownAccount", func(t *testing.T) {
		_, err := service.Login(context.Background(), models.PortalLoginRequest{
			AccountNumber: "KP-2026-9999",
			Password:      "portal-pass",
		})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Login_NotRegistered", func(t *testing.T) {
		_, err := service.Login(context.Background(), models.PortalLoginRequest{
			AccountNumber: "KP-2026-0002",
			Password:      "anything",
		})
		assert.ErrorIs(t, err, models.ErrNotRegistered)
	})

	t.Run("Login_WrongPassword", func(t *testing.T) {
		_, err := service.Login(context.Background(), models.PortalLoginRequest{
			AccountNumber: registered.AccountNumber,
			Password:      "wrong",
		})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("Login_Deactivated", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Customer{}).
			Where("customer_id = ?", registered.CustomerID).
			Update("is_active", false).Error)

		// The active flag is checked after the credential, so only a
		// correct password reaches the deactivation error.
		_, err := service.Login(context.Background(), models.PortalLoginRequest{
			AccountNumber: registered.AccountNumber,
			Password:      "portal-pass",
		})
		assert.ErrorIs(t, err, models.ErrAccountDeactivated)

		_, err = service.Login(context.Background(), models.PortalLoginRequest{
			AccountNumber: registered.AccountNumber,
			Password:      "wrong",
		})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})
}

func TestPortalAuthService_Profile(t *testing.T) {
	db := RequireTestDB(t)
	service := NewPortalAuthService(db, newTestSessionManager(t))
	customer := seedCustomer(t, db, "KP-2026-0001", "12345678", "0722000000")
	registerPortalCustomer(t, db, service, customer)

	actor := &models.CustomerPrincipal{
		CustomerID:    customer.CustomerID,
		AccountNumber: customer.AccountNumber,
		FirstName:     customer.FirstName,
	}

	t.Run("UpdateProfile_ContactFieldsOnly", func(t *testing.T) {
		updated, err := service.UpdateProfile(context.Background(), actor, models.UpdateProfileRequest{
			Email: "new@example.com",
			Phone: "0744000000",
		})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", updated.Email)
		assert.Equal(t, "0744000000", updated.Phone)
		// Identity fields stay untouched
		assert.Equal(t, customer.AccountNumber, updated.AccountNumber)
		assert.Equal(t, customer.IDNumber, updated.IDNumber)
	})

	t.Run("ChangePassword_WrongCurrent", func(t *testing.T) {
		err := service.ChangePassword(context.Background(), actor, models.ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "next-pass",
			ConfirmPassword: "next-pass",
		})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("ChangePassword_Success", func(t *testing.T) {
		err := service.ChangePassword(context.Background(), actor, models.ChangePasswordRequest{
			CurrentPassword: "portal-pass",
			NewPassword:     "next-pass",
			ConfirmPassword: "next-pass",
		})
		require.NoError(t, err)

		_, err = service.Login(context.Background(), models.PortalLoginRequest{
			AccountNumber: customer.AccountNumber,
			Password:      "next-pass",
		})
		assert.NoError(t, err)
	})
}
