package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaintenanceSchedule represents planned maintenance work on equipment
type MaintenanceSchedule struct {
	MaintenanceID       string            `gorm:"primarykey;column:maintenance_id" json:"maintenanceId"`
	Title               string            `gorm:"column:title;not null" json:"title"`
	Description         string            `gorm:"column:description" json:"description"`
	MaintenanceType     string            `gorm:"column:maintenance_type;not null" json:"maintenanceType"`
	EquipmentType       string            `gorm:"column:equipment_type;not null" json:"equipmentType"`
	EquipmentID         string            `gorm:"column:equipment_id" json:"equipmentId"`
	LocationDescription string            `gorm:"column:location_description;not null" json:"locationDescription"`
	LocationCoordinates string            `gorm:"column:location_coordinates" json:"locationCoordinates"`
	ScheduledDate       time.Time         `gorm:"column:scheduled_date;not null;index" json:"scheduledDate"`
	ScheduledTime       string            `gorm:"column:scheduled_time" json:"scheduledTime"`
	EstimatedDuration   *int              `gorm:"column:estimated_duration" json:"estimatedDuration,omitempty"`
	AssignedTeam        string            `gorm:"column:assigned_team" json:"assignedTeam"`
	AssignedTo          *string           `gorm:"column:assigned_to;index" json:"assignedTo,omitempty"`
	Status              MaintenanceStatus `gorm:"column:status;type:varchar(50);default:scheduled;index" json:"status"`
	Priority            FaultSeverity     `gorm:"column:priority;type:varchar(50);default:medium" json:"priority"`
	CompletionDate      *time.Time        `gorm:"column:completion_date" json:"completionDate,omitempty"`
	CompletionNotes     string            `gorm:"column:completion_notes" json:"completionNotes"`
	CreatedBy           string            `gorm:"column:created_by;not null" json:"createdBy"`
	BaseModel

	// Relationships
	Logs []MaintenanceLog `gorm:"foreignKey:MaintenanceID;references:MaintenanceID;constraint:OnDelete:CASCADE" json:"logs,omitempty"`
}

// TableName sets the table name for GORM
func (MaintenanceSchedule) TableName() string {
	return "maintenance_schedules"
}

// BeforeCreate assigns a UUID primary key
func (m *MaintenanceSchedule) BeforeCreate(tx *gorm.DB) error {
	if m.MaintenanceID == "" {
		m.MaintenanceID = uuid.NewString()
	}
	return m.BaseModel.BeforeCreate(tx)
}

// MaintenanceLog is an immutable work record appended by field staff.
// Unlike FaultUpdate, rows are only written for explicit log calls, never
// for bare status changes.
type MaintenanceLog struct {
	LogID           string    `gorm:"primarykey;column:log_id" json:"logId"`
	MaintenanceID   string    `gorm:"column:maintenance_id;not null;index" json:"maintenanceId"`
	LoggedBy        string    `gorm:"column:logged_by;not null" json:"loggedBy"`
	WorkPerformed   string    `gorm:"column:work_performed;not null" json:"workPerformed"`
	PartsUsed       string    `gorm:"column:parts_used" json:"partsUsed"`
	IssuesFound     string    `gorm:"column:issues_found" json:"issuesFound"`
	Recommendations string    `gorm:"column:recommendations" json:"recommendations"`
	ActualDuration  *int      `gorm:"column:actual_duration" json:"actualDuration,omitempty"`
	LogDate         time.Time `gorm:"column:log_date;default:CURRENT_TIMESTAMP" json:"logDate"`
}

// TableName sets the table name for GORM
func (MaintenanceLog) TableName() string {
	return "maintenance_logs"
}

// BeforeCreate assigns a UUID primary key and stamps the log date
func (l *MaintenanceLog) BeforeCreate(tx *gorm.DB) error {
	if l.LogID == "" {
		l.LogID = uuid.NewString()
	}
	if l.LogDate.IsZero() {
		l.LogDate = time.Now()
	}
	return nil
}
