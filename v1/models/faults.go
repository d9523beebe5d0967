package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fault represents a fault report. The reporter is at most one of
// ReportedByCustomer / ReportedByUser; both may be nil for an unattributed
// staff-observed fault, but never both set.
type Fault struct {
	FaultID             string        `gorm:"primarykey;column:fault_id" json:"faultId"`
	ConnectionID        *string       `gorm:"column:connection_id;index" json:"connectionId,omitempty"`
	FaultType           string        `gorm:"column:fault_type;not null" json:"faultType"`
	Description         string        `gorm:"column:description;not null" json:"description"`
	LocationDescription string        `gorm:"column:location_description" json:"locationDescription"`
	LocationCoordinates string        `gorm:"column:location_coordinates" json:"locationCoordinates"`
	ReportedByCustomer  *string       `gorm:"column:reported_by_customer;index" json:"reportedByCustomer,omitempty"`
	ReportedByUser      *string       `gorm:"column:reported_by_user" json:"reportedByUser,omitempty"`
	ReportedDate        time.Time     `gorm:"column:reported_date;default:CURRENT_TIMESTAMP;index" json:"reportedDate"`
	Severity            FaultSeverity `gorm:"column:severity;type:varchar(50);default:medium" json:"severity"`
	Status              FaultStatus   `gorm:"column:status;type:varchar(50);default:reported;index" json:"status"`
	AssignedTo          *string       `gorm:"column:assigned_to;index" json:"assignedTo,omitempty"`
	AssignedDate        *time.Time    `gorm:"column:assigned_date" json:"assignedDate,omitempty"`
	ResolutionDate      *time.Time    `gorm:"column:resolution_date" json:"resolutionDate,omitempty"`
	ResolutionNotes     string        `gorm:"column:resolution_notes" json:"resolutionNotes"`
	AffectedCustomers   int           `gorm:"column:affected_customers;default:1" json:"affectedCustomers"`

	// Relationships
	Updates []FaultUpdate `gorm:"foreignKey:FaultID;references:FaultID;constraint:OnDelete:CASCADE" json:"updates,omitempty"`
}

// TableName sets the table name for GORM
func (Fault) TableName() string {
	return "faults"
}

// BeforeCreate assigns a UUID primary key and stamps the report date
func (f *Fault) BeforeCreate(tx *gorm.DB) error {
	if f.FaultID == "" {
		f.FaultID = uuid.NewString()
	}
	if f.ReportedDate.IsZero() {
		f.ReportedDate = time.Now()
	}
	return nil
}

// ResolutionTimeHours returns the hours between report and resolution, or
// nil when either timestamp is absent.
func (f *Fault) ResolutionTimeHours() *float64 {
	if f.ResolutionDate == nil || f.ReportedDate.IsZero() {
		return nil
	}
	hours := f.ResolutionDate.Sub(f.ReportedDate).Hours()
	return &hours
}

// FaultUpdate is an immutable audit log entry on a fault. Rows are only ever
// appended; they are removed solely by cascade with the parent fault.
type FaultUpdate struct {
	UpdateID       string          `gorm:"primarykey;column:update_id" json:"updateId"`
	FaultID        string          `gorm:"column:fault_id;not null;index" json:"faultId"`
	UpdatedBy      string          `gorm:"column:updated_by;not null" json:"updatedBy"`
	UpdateType     FaultUpdateType `gorm:"column:update_type;type:varchar(50);not null" json:"updateType"`
	PreviousStatus string          `gorm:"column:previous_status" json:"previousStatus"`
	NewStatus      string          `gorm:"column:new_status" json:"newStatus"`
	Notes          string          `gorm:"column:notes" json:"notes"`
	UpdateDate     time.Time       `gorm:"column:update_date;default:CURRENT_TIMESTAMP" json:"updateDate"`
}

// TableName sets the table name for GORM
func (FaultUpdate) TableName() string {
	return "fault_updates"
}

// BeforeCreate assigns a UUID primary key and stamps the update date
func (u *FaultUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.UpdateID == "" {
		u.UpdateID = uuid.NewString()
	}
	if u.UpdateDate.IsZero() {
		u.UpdateDate = time.Now()
	}
	return nil
}
