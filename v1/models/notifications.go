package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is a pull-model inbox entry targeted at exactly one of a
// staff user or a customer. There is no delivery mechanism beyond
// persistence.
type Notification struct {
	NotificationID string    `gorm:"primarykey;column:notification_id" json:"notificationId"`
	UserID         *string   `gorm:"column:user_id;index" json:"userId,omitempty"`
	CustomerID     *string   `gorm:"column:customer_id;index" json:"customerId,omitempty"`
	Title          string    `gorm:"column:title;not null" json:"title"`
	Message        string    `gorm:"column:message;not null" json:"message"`
	Type           string    `gorm:"column:notification_type;not null" json:"type"`
	ReferenceType  string    `gorm:"column:reference_type" json:"referenceType"`
	ReferenceID    string    `gorm:"column:reference_id" json:"referenceId"`
	IsRead         bool      `gorm:"column:is_read;default:false" json:"isRead"`
	CreatedAt      time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
}

// TableName sets the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns a UUID primary key and stamps the creation time
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return nil
}
