package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceRequest represents a customer-initiated service request.
// Customers can only create and read requests; all status transitions are
// staff-driven.
type ServiceRequest struct {
	RequestID       string        `gorm:"primarykey;column:request_id" json:"requestId"`
	CustomerID      string        `gorm:"column:customer_id;not null;index" json:"customerId"`
	ConnectionID    *string       `gorm:"column:connection_id" json:"connectionId,omitempty"`
	RequestType     string        `gorm:"column:request_type;not null" json:"requestType"`
	Description     string        `gorm:"column:description" json:"description"`
	Status          RequestStatus `gorm:"column:status;type:varchar(50);default:submitted;index" json:"status"`
	Priority        string        `gorm:"column:priority;default:medium" json:"priority"`
	AssignedTo      *string       `gorm:"column:assigned_to" json:"assignedTo,omitempty"`
	SubmittedDate   time.Time     `gorm:"column:submitted_date;default:CURRENT_TIMESTAMP;index" json:"submittedDate"`
	ResolvedDate    *time.Time    `gorm:"column:resolved_date" json:"resolvedDate,omitempty"`
	ResolutionNotes string        `gorm:"column:resolution_notes" json:"resolutionNotes"`
}

// TableName sets the table name for GORM
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// BeforeCreate assigns a UUID primary key and stamps the submission date
func (r *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if r.SubmittedDate.IsZero() {
		r.SubmittedDate = time.Now()
	}
	return nil
}
