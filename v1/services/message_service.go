package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/gorm"
)

// MessageService provides business logic for one-level support threads
// between customers and staff. Replies always attach to the thread root;
// there is no nesting.
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a new message service
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// PostMessage starts a new support thread from the portal
func (s *MessageService) PostMessage(ctx context.Context, actor *models.CustomerPrincipal, req models.NewMessageRequest) (*models.CustomerMessage, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", models.ErrValidation)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrValidation)
	}

	message := models.CustomerMessage{
		CustomerID:     actor.CustomerID,
		Subject:        strings.TrimSpace(req.Subject),
		Message:        strings.TrimSpace(req.Message),
		IsFromCustomer: true,
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &message, nil
}

// ReplyAsCustomer appends a customer reply to one of their own threads.
// Replying to a reply attaches to its root, keeping threads one level deep.
func (s *MessageService) ReplyAsCustomer(ctx context.Context, actor *models.CustomerPrincipal, messageID string, req models.ReplyMessageRequest) (*models.CustomerMessage, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrValidation)
	}

	var reply models.CustomerMessage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		root, err := resolveThreadRoot(tx, messageID, &actor.CustomerID)
		if err != nil {
			return err
		}

		reply = models.CustomerMessage{
			CustomerID:      root.CustomerID,
			Subject:         "Re: " + root.Subject,
			Message:         strings.TrimSpace(req.Message),
			IsFromCustomer:  true,
			ParentMessageID: &root.MessageID,
		}
		if err := tx.Create(&reply).Error; err != nil {
			return fmt.Errorf("failed to create reply: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// ReplyAsStaff appends a staff reply to any thread and notifies the
// customer in the same transaction
func (s *MessageService) ReplyAsStaff(ctx context.Context, actor *models.StaffPrincipal, messageID string, req models.ReplyMessageRequest) (*models.CustomerMessage, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrValidation)
	}

	var reply models.CustomerMessage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		root, err := resolveThreadRoot(tx, messageID, nil)
		if err != nil {
			return err
		}

		reply = models.CustomerMessage{
			CustomerID:      root.CustomerID,
			UserID:          &actor.UserID,
			Subject:         "Re: " + root.Subject,
			Message:         strings.TrimSpace(req.Message),
			IsFromCustomer:  false,
			ParentMessageID: &root.MessageID,
		}
		if err := tx.Create(&reply).Error; err != nil {
			return fmt.Errorf("failed to create reply: %w", err)
		}

		return notifyCustomer(tx, root.CustomerID,
			"New Message from Support",
			fmt.Sprintf("Support replied to your message %q", root.Subject),
			models.NotificationSystem, "", root.MessageID)
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// resolveThreadRoot loads the thread root for a message ID, following a
// reply up to its parent. When ownedBy is non-nil the thread must belong
// to that customer; a foreign thread reads the same as a missing one.
func resolveThreadRoot(tx *gorm.DB, messageID string, ownedBy *string) (*models.CustomerMessage, error) {
	var message models.CustomerMessage
	query := tx.Where("message_id = ?", messageID)
	if ownedBy != nil {
		query = query.Where("customer_id = ?", *ownedBy)
	}
	if err := query.First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	if message.IsThreadRoot() {
		return &message, nil
	}

	var root models.CustomerMessage
	if err := tx.First(&root, "message_id = ?", *message.ParentMessageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thread root: %w", err)
	}
	return &root, nil
}

// ListThreadsForCustomer returns the acting customer's thread roots,
// newest first
func (s *MessageService) ListThreadsForCustomer(ctx context.Context, actor *models.CustomerPrincipal) ([]models.CustomerMessage, error) {
	var roots []models.CustomerMessage
	if err := s.db.WithContext(ctx).
		Where("customer_id = ? AND parent_message_id IS NULL", actor.CustomerID).
		Order("created_at DESC").
		Find(&roots).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return roots, nil
}

// ViewThreadAsCustomer returns a thread the acting customer owns and
// marks its unread staff replies as read. Opening the thread is the read
// receipt.
func (s *MessageService) ViewThreadAsCustomer(ctx context.Context, actor *models.CustomerPrincipal, messageID string) (*models.MessageThread, error) {
	return s.viewThread(ctx, messageID, &actor.CustomerID, false)
}

// ViewThreadAsStaff returns any thread and marks its unread customer
// messages as read
func (s *MessageService) ViewThreadAsStaff(ctx context.Context, messageID string) (*models.MessageThread, error) {
	return s.viewThread(ctx, messageID, nil, true)
}

func (s *MessageService) viewThread(ctx context.Context, messageID string, ownedBy *string, fromCustomer bool) (*models.MessageThread, error) {
	var thread models.MessageThread
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		root, err := resolveThreadRoot(tx, messageID, ownedBy)
		if err != nil {
			return err
		}
		thread.Root = *root

		if err := tx.Where("parent_message_id = ?", root.MessageID).
			Order("created_at").
			Find(&thread.Replies).Error; err != nil {
			return fmt.Errorf("failed to list replies: %w", err)
		}

		// Mark the other side's unread rows in this thread as read
		if err := tx.Model(&models.CustomerMessage{}).
			Where("(message_id = ? OR parent_message_id = ?) AND is_from_customer = ? AND is_read = ?",
				root.MessageID, root.MessageID, fromCustomer, false).
			Update("is_read", true).Error; err != nil {
			return fmt.Errorf("failed to mark messages read: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// ListThreads returns all thread roots for staff, unread-from-customer
// first, then newest first
func (s *MessageService) ListThreads(ctx context.Context, unreadOnly bool) ([]models.CustomerMessage, error) {
	query := s.db.WithContext(ctx).
		Where("parent_message_id IS NULL")
	if unreadOnly {
		query = query.Where("is_from_customer = ? AND is_read = ?", true, false)
	}

	var roots []models.CustomerMessage
	if err := query.Order("is_read, created_at DESC").Find(&roots).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return roots, nil
}
