package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utility-oms/backoffice-api/v1/models"
)

func TestNotificationService_Create(t *testing.T) {
	db := RequireTestDB(t)
	service := NewNotificationService(db)

	staff := seedStaff(t, db, "admin", models.RoleAdmin, true)
	customer := seedCustomer(t, db, "KP-2026-0001", "12345678", "0722000000")

	t.Run("Create_StaffTarget", func(t *testing.T) {
		err := service.Create(context.Background(), &models.Notification{
			UserID:  &staff.UserID,
			Title:   "System Maintenance",
			Message: "Portal down tonight 22:00-23:00",
			Type:    models.NotificationSystem,
		})
		require.NoError(t, err)
	})

	t.Run("Create_NoTargetRejected", func(t *testing.T) {
		err := service.Create(context.Background(), &models.Notification{
			Title:   "Orphan",
			Message: "Addressed to nobody",
			Type:    models.NotificationSystem,
		})
		assert.ErrorIs(t, err, models.ErrInvalidTarget)
	})

	t.Run("Create_BothTargetsRejected", func(t *testing.T) {
		err := service.Create(context.Background(), &models.Notification{
			UserID:     &staff.UserID,
			CustomerID: &customer.CustomerID,
			Title:      "Ambiguous",
			Message:    "Addressed to both sides",
			Type:       models.NotificationSystem,
		})
		assert.ErrorIs(t, err, models.ErrInvalidTarget)
	})

	t.Run("Create_MissingTitle", func(t *testing.T) {
		err := service.Create(context.Background(), &models.Notification{
			UserID: &staff.UserID,
			Type:   models.NotificationSystem,
		})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestNotificationService_Inbox(t *testing.T) {
	db := RequireTestDB(t)
	service := NewNotificationService(db)

	staff := seedStaff(t, db, "admin", models.RoleAdmin, true)
	customer := seedCustomer(t, db, "KP-2026-0001", "12345678", "0722000000")

	for _, title := range []string{"First", "Second", "Third"} {
		require.NoError(t, service.Create(context.Background(), &models.Notification{
			UserID:  &staff.UserID,
			Title:   title,
			Message: "staff inbox entry",
			Type:    models.NotificationAlert,
		}))
	}
	require.NoError(t, service.Create(context.Background(), &models.Notification{
		CustomerID: &customer.CustomerID,
		Title:      "Customer Only",
		Message:    "customer inbox entry",
		Type:       models.NotificationAlert,
	}))

	t.Run("CountUnread_PerOwner", func(t *testing.T) {
		count, err := service.CountUnreadForUser(context.Background(), staff.UserID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)

		count, err = service.CountUnreadForCustomer(context.Background(), customer.CustomerID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	// Listing the inbox is the read receipt
	t.Run("ListForUser_MarksReturnedRead", func(t *testing.T) {
		notifications, err := service.ListForUser(context.Background(), staff.UserID, false, 0)
		require.NoError(t, err)
		require.Len(t, notifications, 3)
		assert.Equal(t, "Third", notifications[0].Title)

		count, err := service.CountUnreadForUser(context.Background(), staff.UserID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		unread, err := service.ListForUser(context.Background(), staff.UserID, true, 0)
		require.NoError(t, err)
		assert.Empty(t, unread)
	})

	t.Run("ListForCustomer_DoesNotTouchStaffRows", func(t *testing.T) {
		notifications, err := service.ListForCustomer(context.Background(), customer.CustomerID, false, 0)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, "Customer Only", notifications[0].Title)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	db := RequireTestDB(t)
	service := NewNotificationService(db)

	staff := seedStaff(t, db, "admin", models.RoleAdmin, true)
	other := seedStaff(t, db, "other", models.RoleManager, true)

	notification := models.Notification{
		UserID:  &staff.UserID,
		Title:   "Pending Approval",
		Message: "A request awaits your review",
		Type:    models.NotificationAlert,
	}
	require.NoError(t, service.Create(context.Background(), &notification))

	t.Run("MarkRead_Success", func(t *testing.T) {
		require.NoError(t, service.MarkReadForUser(context.Background(), staff.UserID, notification.NotificationID))

		count, err := service.CountUnreadForUser(context.Background(), staff.UserID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("MarkRead_Idempotent", func(t *testing.T) {
		assert.NoError(t, service.MarkReadForUser(context.Background(), staff.UserID, notification.NotificationID))
	})

	// A foreign notification reads as missing, never as forbidden
	t.Run("MarkRead_ForeignReadsAsNotFound", func(t *testing.T) {
		err := service.MarkReadForUser(context.Background(), other.UserID, notification.NotificationID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("MarkAllRead_ReturnsAffectedCount", func(t *testing.T) {
		for _, title := range []string{"One", "Two"} {
			require.NoError(t, service.Create(context.Background(), &models.Notification{
				UserID:  &other.UserID,
				Title:   title,
				Message: "bulk entry",
				Type:    models.NotificationAlert,
			}))
		}

		affected, err := service.MarkAllReadForUser(context.Background(), other.UserID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, affected)

		affected, err = service.MarkAllReadForUser(context.Background(), other.UserID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, affected)
	})
}
