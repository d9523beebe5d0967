package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/gorm"
)

// NotificationService provides business logic for the pull-model
// notification inbox shared by staff and customers
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// notifyUser inserts a staff notification inside the caller's transaction,
// so a failed entity write never leaves a dangling notification.
func notifyUser(tx *gorm.DB, userID, title, message, notifType, refType, refID string) error {
	notification := models.Notification{
		UserID:        &userID,
		Title:         title,
		Message:       message,
		Type:          notifType,
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	if err := tx.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// notifyCustomer inserts a customer notification inside the caller's
// transaction
func notifyCustomer(tx *gorm.DB, customerID, title, message, notifType, refType, refID string) error {
	notification := models.Notification{
		CustomerID:    &customerID,
		Title:         title,
		Message:       message,
		Type:          notifType,
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	if err := tx.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// notifyRole fans a notification out to every active staff user holding a
// role, inside the caller's transaction
func notifyRole(tx *gorm.DB, role models.Role, title, message, notifType, refType, refID string) error {
	var users []models.User
	if err := tx.Where("role = ? AND is_active = ?", role, true).Find(&users).Error; err != nil {
		return fmt.Errorf("failed to list %s users: %w", role, err)
	}
	for _, user := range users {
		if err := notifyUser(tx, user.UserID, title, message, notifType, refType, refID); err != nil {
			return err
		}
	}
	return nil
}

// Create persists a standalone notification targeted at exactly one of a
// staff user or a customer
func (s *NotificationService) Create(ctx context.Context, notification *models.Notification) error {
	if (notification.UserID == nil) == (notification.CustomerID == nil) {
		return models.ErrInvalidTarget
	}
	if notification.Title == "" || notification.Message == "" {
		return fmt.Errorf("%w: title and message are required", models.ErrValidation)
	}
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListForUser returns a staff user's notifications, newest first, and
// marks the returned unread ones as read. Listing the inbox is the read
// receipt.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	return s.list(ctx, "user_id", userID, unreadOnly, limit)
}

// ListForCustomer returns a customer's notifications, newest first, and
// marks the returned unread ones as read
func (s *NotificationService) ListForCustomer(ctx context.Context, customerID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	return s.list(ctx, "customer_id", customerID, unreadOnly, limit)
}

func (s *NotificationService) list(ctx context.Context, column, ownerID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit < 1 {
		limit = 50
	}

	var notifications []models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where(column+" = ?", ownerID)
		if unreadOnly {
			query = query.Where("is_read = ?", false)
		}
		if err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
			return fmt.Errorf("failed to list notifications: %w", err)
		}

		ids := make([]string, 0, len(notifications))
		for _, n := range notifications {
			if !n.IsRead {
				ids = append(ids, n.NotificationID)
			}
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Model(&models.Notification{}).
			Where("notification_id IN ?", ids).
			Update("is_read", true).Error; err != nil {
			return fmt.Errorf("failed to mark notifications read: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnreadForUser returns the unread badge count for a staff user
func (s *NotificationService) CountUnreadForUser(ctx context.Context, userID string) (int64, error) {
	return s.countUnread(ctx, "user_id", userID)
}

// CountUnreadForCustomer returns the unread badge count for a customer
func (s *NotificationService) CountUnreadForCustomer(ctx context.Context, customerID string) (int64, error) {
	return s.countUnread(ctx, "customer_id", customerID)
}

func (s *NotificationService) countUnread(ctx context.Context, column, ownerID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where(column+" = ? AND is_read = ?", ownerID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkReadForUser marks a single staff notification as read. Marking an
// already-read notification is a no-op, not an error.
func (s *NotificationService) MarkReadForUser(ctx context.Context, userID, notificationID string) error {
	return s.markRead(ctx, "user_id", userID, notificationID)
}

// MarkReadForCustomer marks a single customer notification as read
func (s *NotificationService) MarkReadForCustomer(ctx context.Context, customerID, notificationID string) error {
	return s.markRead(ctx, "customer_id", customerID, notificationID)
}

func (s *NotificationService) markRead(ctx context.Context, column, ownerID, notificationID string) error {
	var notification models.Notification
	if err := s.db.WithContext(ctx).
		Where("notification_id = ? AND "+column+" = ?", notificationID, ownerID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if notification.IsRead {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&notification).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllReadForUser marks every unread staff notification as read and
// returns the number affected
func (s *NotificationService) MarkAllReadForUser(ctx context.Context, userID string) (int64, error) {
	return s.markAllRead(ctx, "user_id", userID)
}

// MarkAllReadForCustomer marks every unread customer notification as read
func (s *NotificationService) MarkAllReadForCustomer(ctx context.Context, customerID string) (int64, error) {
	return s.markAllRead(ctx, "customer_id", customerID)
}

func (s *NotificationService) markAllRead(ctx context.Context, column, ownerID string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where(column+" = ? AND is_read = ?", ownerID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
