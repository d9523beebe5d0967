package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/gorm"
)

// MaintenanceService provides business logic for maintenance scheduling.
// Status changes here never write audit rows; the only history a schedule
// carries is the work logs field staff append explicitly.
type MaintenanceService struct {
	db *gorm.DB
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

func validateScheduleMaintenanceRequest(req models.ScheduleMaintenanceRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	switch req.MaintenanceType {
	case models.MaintenancePreventive, models.MaintenanceCorrective,
		models.MaintenanceEmergency, models.MaintenanceInspection:
	default:
		return fmt.Errorf("%w: unknown maintenance type %q", models.ErrValidation, req.MaintenanceType)
	}
	if strings.TrimSpace(req.EquipmentType) == "" {
		return fmt.Errorf("%w: equipment type is required", models.ErrValidation)
	}
	if strings.TrimSpace(req.LocationDescription) == "" {
		return fmt.Errorf("%w: location description is required", models.ErrValidation)
	}
	if req.ScheduledDate.IsZero() {
		return fmt.Errorf("%w: scheduled date is required", models.ErrValidation)
	}
	if req.Priority != "" && !models.FaultSeverity(req.Priority).IsValid() {
		return fmt.Errorf("%w: unknown priority %q", models.ErrValidation, req.Priority)
	}
	return nil
}

// ScheduleMaintenance creates a new maintenance schedule and notifies the
// assignee, when there is one, in the same transaction
func (s *MaintenanceService) ScheduleMaintenance(ctx context.Context, actor *models.StaffPrincipal, req models.ScheduleMaintenanceRequest) (*models.MaintenanceSchedule, error) {
	if err := validateScheduleMaintenanceRequest(req); err != nil {
		return nil, err
	}

	priority := models.SeverityMedium
	if req.Priority != "" {
		priority = models.FaultSeverity(req.Priority)
	}

	schedule := models.MaintenanceSchedule{
		Title:               strings.TrimSpace(req.Title),
		Description:         strings.TrimSpace(req.Description),
		MaintenanceType:     req.MaintenanceType,
		EquipmentType:       req.EquipmentType,
		EquipmentID:         strings.TrimSpace(req.EquipmentID),
		LocationDescription: strings.TrimSpace(req.LocationDescription),
		LocationCoordinates: strings.TrimSpace(req.LocationCoordinates),
		ScheduledDate:       req.ScheduledDate,
		ScheduledTime:       req.ScheduledTime,
		EstimatedDuration:   req.EstimatedDuration,
		AssignedTeam:        strings.TrimSpace(req.AssignedTeam),
		AssignedTo:          req.AssignedTo,
		Status:              models.MaintenanceScheduled,
		Priority:            priority,
		CreatedBy:           actor.UserID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.AssignedTo != nil {
			var assignee models.User
			if err := tx.First(&assignee, "user_id = ?", *req.AssignedTo).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: assignee not found", models.ErrValidation)
				}
				return fmt.Errorf("failed to get assignee: %w", err)
			}
		}

		if err := tx.Create(&schedule).Error; err != nil {
			return fmt.Errorf("failed to create maintenance schedule: %w", err)
		}

		if schedule.AssignedTo != nil {
			return notifyUser(tx, *schedule.AssignedTo,
				"Maintenance Assigned",
				fmt.Sprintf("You have been assigned maintenance work: %s on %s", schedule.Title, schedule.ScheduledDate.Format("2006-01-02")),
				models.NotificationMaintenanceReminder, models.ReferenceMaintenance, schedule.MaintenanceID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// MaintenanceFilter narrows ListMaintenance results
type MaintenanceFilter struct {
	Status        models.MaintenanceStatus
	EquipmentType string
	AssignedTo    string
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

// ListMaintenance returns a page of schedules ordered by scheduled date.
// Technicians only see schedules assigned to them.
func (s *MaintenanceService) ListMaintenance(ctx context.Context, actor *models.StaffPrincipal, filter MaintenanceFilter) ([]models.MaintenanceSchedule, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.MaintenanceSchedule{})

	if actor.Role == models.RoleTechnician {
		query = query.Where("assigned_to = ?", actor.UserID)
	}

	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown maintenance status %q", models.ErrValidation, filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EquipmentType != "" {
		query = query.Where("equipment_type = ?", filter.EquipmentType)
	}
	if filter.AssignedTo != "" {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.From != nil {
		query = query.Where("scheduled_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("scheduled_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count maintenance schedules: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}

	var schedules []models.MaintenanceSchedule
	if err := query.
		Order("scheduled_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&schedules).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list maintenance schedules: %w", err)
	}
	return schedules, total, nil
}

// GetMaintenance returns a schedule with its work logs, oldest first
func (s *MaintenanceService) GetMaintenance(ctx context.Context, maintenanceID string) (*models.MaintenanceSchedule, error) {
	var schedule models.MaintenanceSchedule
	if err := s.db.WithContext(ctx).
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("log_date")
		}).
		First(&schedule, "maintenance_id = ?", maintenanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get maintenance schedule: %w", err)
	}
	return &schedule, nil
}

// UpdateMaintenanceStatus transitions a schedule. Completion stamps the
// completion date and notes; no audit row is written for the transition
// itself.
func (s *MaintenanceService) UpdateMaintenanceStatus(ctx context.Context, maintenanceID string, req models.UpdateStatusRequest) (*models.MaintenanceSchedule, error) {
	newStatus := models.MaintenanceStatus(req.Status)
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown maintenance status %q", models.ErrValidation, req.Status)
	}

	var schedule models.MaintenanceSchedule
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&schedule, "maintenance_id = ?", maintenanceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get maintenance schedule: %w", err)
		}

		schedule.Status = newStatus
		if newStatus == models.MaintenanceCompleted {
			now := time.Now()
			schedule.CompletionDate = &now
			schedule.CompletionNotes = req.Notes
		}

		if err := tx.Save(&schedule).Error; err != nil {
			return fmt.Errorf("failed to update maintenance schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// AddMaintenanceLog appends a work record to a schedule
func (s *MaintenanceService) AddMaintenanceLog(ctx context.Context, actor *models.StaffPrincipal, maintenanceID string, req models.AddMaintenanceLogRequest) (*models.MaintenanceLog, error) {
	if strings.TrimSpace(req.WorkPerformed) == "" {
		return nil, fmt.Errorf("%w: work performed is required", models.ErrValidation)
	}

	var logEntry models.MaintenanceLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var schedule models.MaintenanceSchedule
		if err := tx.First(&schedule, "maintenance_id = ?", maintenanceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get maintenance schedule: %w", err)
		}

		logEntry = models.MaintenanceLog{
			MaintenanceID:   schedule.MaintenanceID,
			LoggedBy:        actor.UserID,
			WorkPerformed:   strings.TrimSpace(req.WorkPerformed),
			PartsUsed:       strings.TrimSpace(req.PartsUsed),
			IssuesFound:     strings.TrimSpace(req.IssuesFound),
			Recommendations: strings.TrimSpace(req.Recommendations),
			ActualDuration:  req.ActualDuration,
		}
		if err := tx.Create(&logEntry).Error; err != nil {
			return fmt.Errorf("failed to add maintenance log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &logEntry, nil
}

// CalendarEvents returns the schedules overlapping a date range shaped for
// the staff calendar, colored by status. The feed carries the same
// technician scoping as the list.
func (s *MaintenanceService) CalendarEvents(ctx context.Context, actor *models.StaffPrincipal, from, to time.Time) ([]models.CalendarEvent, error) {
	query := s.db.WithContext(ctx).Model(&models.MaintenanceSchedule{})
	if actor.Role == models.RoleTechnician {
		query = query.Where("assigned_to = ?", actor.UserID)
	}
	if !from.IsZero() {
		query = query.Where("scheduled_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("scheduled_date <= ?", to)
	}

	var schedules []models.MaintenanceSchedule
	if err := query.Order("scheduled_date").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("failed to list maintenance schedules: %w", err)
	}

	events := make([]models.CalendarEvent, 0, len(schedules))
	for _, schedule := range schedules {
		start := schedule.ScheduledDate.Format("2006-01-02")
		if schedule.ScheduledTime != "" {
			start = start + "T" + schedule.ScheduledTime
		}
		events = append(events, models.CalendarEvent{
			ID:              schedule.MaintenanceID,
			Title:           schedule.Title,
			Start:           start,
			BackgroundColor: models.MaintenanceStatusColor(schedule.Status),
			URL:             "/api/v1/maintenance/" + schedule.MaintenanceID,
		})
	}
	return events, nil
}
