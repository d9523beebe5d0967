package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerMessage is a row in a one-level support thread: a root has
// ParentMessageID nil, and every reply references the root directly. The
// service layer only ever attaches replies to roots, so threads never nest.
type CustomerMessage struct {
	MessageID       string    `gorm:"primarykey;column:message_id" json:"messageId"`
	CustomerID      string    `gorm:"column:customer_id;not null;index" json:"customerId"`
	UserID          *string   `gorm:"column:user_id" json:"userId,omitempty"`
	Subject         string    `gorm:"column:subject;not null" json:"subject"`
	Message         string    `gorm:"column:message;not null" json:"message"`
	IsFromCustomer  bool      `gorm:"column:is_from_customer;default:true" json:"isFromCustomer"`
	IsRead          bool      `gorm:"column:is_read;default:false" json:"isRead"`
	ParentMessageID *string   `gorm:"column:parent_message_id;index" json:"parentMessageId,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
}

// TableName sets the table name for GORM
func (CustomerMessage) TableName() string {
	return "customer_messages"
}

// BeforeCreate assigns a UUID primary key and stamps the creation time
func (m *CustomerMessage) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == "" {
		m.MessageID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return nil
}

// IsThreadRoot reports whether the row is a thread root
func (m *CustomerMessage) IsThreadRoot() bool {
	return m.ParentMessageID == nil
}

// MessageThread is the view returned when a thread is opened: the root plus
// its replies in chronological order.
type MessageThread struct {
	Root    CustomerMessage   `json:"root"`
	Replies []CustomerMessage `json:"replies"`
}
