package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utility-oms/backoffice-api/v1/auth"
	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/gorm"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	sessions, err := auth.NewSessionManager(auth.SessionManagerConfig{
		Secret: []byte("test-secret"),
	})
	require.NoError(t, err)
	return sessions
}

func seedStaff(t *testing.T, db *gorm.DB, username string, role models.Role, active bool) *models.User {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@example.com",
		FullName:     "Test " + username,
		Phone:        "0700000000",
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestAuthService_Login(t *testing.T) {
	db := RequireTestDB(t)
	service := NewAuthService(db, newTestSessionManager(t))
	seedStaff(t, db, "admin", models.RoleAdmin, true)
	seedStaff(t, db, "inactive", models.RoleTechnician, false)

	t.Run("Login_Success", func(t *testing.T) {
		resp, err := service.Login(context.Background(), models.LoginRequest{
			Username: "admin",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, models.RoleAdmin, resp.Role)
		assert.Equal(t, "Test admin", resp.FullName)
	})

	t.Run("Login_UnknownUser", func(t *testing.T) {
		_, err := service.Login(context.Background(), models.LoginRequest{
			Username: "nobody",
			Password: "password123",
		})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("Login_WrongPassword", func(t *testing.T) {
		_, err := service.Login(context.Background(), models.LoginRequest{
			Username: "admin",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("Login_DeactivatedAccount", func(t *testing.T) {
		_, err := service.Login(context.Background(), models.LoginRequest{
			Username: "inactive",
			Password: "password123",
		})
		assert.ErrorIs(t, err, models.ErrAccountDeactivated)
	})

	// The credential check runs before the active check, so a deactivated
	// account with a wrong password reports the wrong password
	t.Run("Login_DeactivatedWithWrongPassword", func(t *testing.T) {
		_, err := service.Login(context.Background(), models.LoginRequest{
			Username: "inactive",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("Login_MissingFields", func(t *testing.T) {
		_, err := service.Login(context.Background(), models.LoginRequest{Username: "admin"})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestAuthService_RegisterStaff(t *testing.T) {
	db := RequireTestDB(t)
	service := NewAuthService(db, newTestSessionManager(t))

	valid := models.RegisterStaffRequest{
		Username:        "jane",
		Email:           "jane@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		FullName:        "Jane Wanjiku",
		Phone:           "0711000000",
		Role:            models.RoleCustomerService,
	}

	t.Run("RegisterStaff_Success", func(t *testing.T) {
		user, err := service.RegisterStaff(context.Background(), valid)
		require.NoError(t, err)
		assert.NotEmpty(t, user.UserID)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.True(t, CheckPassword(user.PasswordHash, "password123"))
	})

	t.Run("RegisterStaff_DuplicateUsername", func(t *testing.T) {
		dup := valid
		dup.Email = "other@example.com"
		_, err := service.RegisterStaff(context.Background(), dup)
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("RegisterStaff_PasswordMismatch", func(t *testing.T) {
		req := valid
		req.Username = "mismatch"
		req.Email = "mismatch@example.com"
		req.ConfirmPassword = "different"
		_, err := service.RegisterStaff(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrCredentialMismatch)
	})

	t.Run("RegisterStaff_PasswordTooShort", func(t *testing.T) {
		req := valid
		req.Username = "short"
		req.Email = "short@example.com"
		req.Password = "abc"
		req.ConfirmPassword = "abc"
		_, err := service.RegisterStaff(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrCredentialTooShort)
	})

	t.Run("RegisterStaff_UnknownRole", func(t *testing.T) {
		req := valid
		req.Username = "badrole"
		req.Email = "badrole@example.com"
		req.Role = "superuser"
		_, err := service.RegisterStaff(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	// Only front-line roles can be created here; elevated roles are
	// rejected even though they are valid roles elsewhere
	t.Run("RegisterStaff_ElevatedRoleRejected", func(t *testing.T) {
		for _, role := range []models.Role{models.RoleAdmin, models.RoleManager} {
			req := valid
			req.Username = "elevated-" + string(role)
			req.Email = req.Username + "@example.com"
			req.Role = role
			_, err := service.RegisterStaff(context.Background(), req)
			assert.ErrorIs(t, err, models.ErrValidation)
		}
	})
}

func TestAuthService_StaffManagement(t *testing.T) {
	db := RequireTestDB(t)
	service := NewAuthService(db, newTestSessionManager(t))
	user := seedStaff(t, db, "tech", models.RoleTechnician, true)

	t.Run("GetStaff_NotFound", func(t *testing.T) {
		_, err := service.GetStaff(context.Background(), "missing-id")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("UpdateStaff_ChangesRoleAndPassword", func(t *testing.T) {
		updated, err := service.UpdateStaff(context.Background(), user.UserID, models.UpdateStaffRequest{
			Role:        models.RoleManager,
			NewPassword: "newpassword",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleManager, updated.Role)
		assert.True(t, CheckPassword(updated.PasswordHash, "newpassword"))
	})

	t.Run("SetStaffActive_Deactivate", func(t *testing.T) {
		updated, err := service.SetStaffActive(context.Background(), user.UserID, false)
		require.NoError(t, err)
		assert.False(t, updated.IsActive)

		// Deactivation blocks login on the next attempt
		_, err = service.Login(context.Background(), models.LoginRequest{
			Username: "tech",
			Password: "newpassword",
		})
		assert.ErrorIs(t, err, models.ErrAccountDeactivated)
	})

	t.Run("ListStaff_FilterByRole", func(t *testing.T) {
		seedStaff(t, db, "ops", models.RoleCustomerService, true)

		users, err := service.ListStaff(context.Background(), models.RoleCustomerService)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "ops", users[0].Username)
	})
}

func TestSessionManager_TokenLifetimes(t *testing.T) {
	sessions := newTestSessionManager(t)

	token, expiresIn, err := sessions.IssueStaffToken("user-1", models.RoleAdmin, false)
	require.NoError(t, err)
	assert.Equal(t, int64(auth.DefaultSessionTTL/time.Second), expiresIn)

	_, rememberedExpiresIn, err := sessions.IssueStaffToken("user-1", models.RoleAdmin, true)
	require.NoError(t, err)
	assert.Equal(t, int64(auth.RememberedSessionTTL/time.Second), rememberedExpiresIn)

	claims, err := sessions.VerifyStaffToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}
