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

// FaultService provides business logic for fault reports and their audit
// trail. Every status transition writes exactly one FaultUpdate row in the
// same transaction as the fault itself.
type FaultService struct {
	db *gorm.DB
}

// NewFaultService creates a new fault service
func NewFaultService(db *gorm.DB) *FaultService {
	return &FaultService{db: db}
}

func validateReportFaultRequest(req models.ReportFaultRequest) error {
	if strings.TrimSpace(req.FaultType) == "" {
		return fmt.Errorf("%w: fault type is required", models.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description is required", models.ErrValidation)
	}
	if req.Severity != "" && !models.FaultSeverity(req.Severity).IsValid() {
		return fmt.Errorf("%w: unknown severity %q", models.ErrValidation, req.Severity)
	}
	if req.AffectedCustomers < 0 {
		return fmt.Errorf("%w: affected customers must not be negative", models.ErrValidation)
	}
	return nil
}

func buildFault(req models.ReportFaultRequest) models.Fault {
	severity := models.SeverityMedium
	if req.Severity != "" {
		severity = models.FaultSeverity(req.Severity)
	}
	affected := req.AffectedCustomers
	if affected < 1 {
		affected = 1
	}
	return models.Fault{
		ConnectionID:        req.ConnectionID,
		FaultType:           req.FaultType,
		Description:         strings.TrimSpace(req.Description),
		LocationDescription: strings.TrimSpace(req.LocationDescription),
		LocationCoordinates: strings.TrimSpace(req.LocationCoordinates),
		Severity:            severity,
		Status:              models.FaultReported,
		AffectedCustomers:   affected,
	}
}

// ReportByStaff files a fault on behalf of the acting staff user.
// Managers are notified in the same transaction.
func (s *FaultService) ReportByStaff(ctx context.Context, actor *models.StaffPrincipal, req models.ReportFaultRequest) (*models.Fault, error) {
	if err := validateReportFaultRequest(req); err != nil {
		return nil, err
	}

	fault := buildFault(req)
	fault.ReportedByUser = &actor.UserID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&fault).Error; err != nil {
			return fmt.Errorf("failed to create fault: %w", err)
		}
		return notifyRole(tx, models.RoleManager,
			"New Fault Reported",
			fmt.Sprintf("%s reported a %s fault: %s", actor.FullName, fault.FaultType, fault.Description),
			models.NotificationFaultUpdate, models.ReferenceFault, fault.FaultID)
	})
	if err != nil {
		return nil, err
	}
	return &fault, nil
}

// ReportByCustomer files a fault from the portal. The connection, when
// given, must belong to the acting customer; a foreign connection reads
// the same as a missing one.
func (s *FaultService) ReportByCustomer(ctx context.Context, actor *models.CustomerPrincipal, req models.ReportFaultRequest) (*models.Fault, error) {
	if err := validateReportFaultRequest(req); err != nil {
		return nil, err
	}

	fault := buildFault(req)
	fault.ReportedByCustomer = &actor.CustomerID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.ConnectionID != nil {
			var connection models.Connection
			if err := tx.Where("connection_id = ? AND customer_id = ?", *req.ConnectionID, actor.CustomerID).
				First(&connection).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrNotFound
				}
				return fmt.Errorf("failed to get connection: %w", err)
			}
		}

		if err := tx.Create(&fault).Error; err != nil {
			return fmt.Errorf("failed to create fault: %w", err)
		}
		if err := notifyRole(tx, models.RoleManager,
			"New Fault Reported",
			fmt.Sprintf("Customer %s reported a %s fault: %s", actor.AccountNumber, fault.FaultType, fault.Description),
			models.NotificationFaultUpdate, models.ReferenceFault, fault.FaultID); err != nil {
			return err
		}
		// The reporter gets a receipt in the same transaction
		return notifyCustomer(tx, actor.CustomerID,
			"Fault Report Received",
			fmt.Sprintf("Your %s fault report has been received and will be attended to", fault.FaultType),
			models.NotificationFaultUpdate, models.ReferenceFault, fault.FaultID)
	})
	if err != nil {
		return nil, err
	}
	return &fault, nil
}

// FaultFilter narrows ListFaults results
type FaultFilter struct {
	Status     models.FaultStatus
	Severity   models.FaultSeverity
	AssignedTo string
	Page       int
	PageSize   int
}

// ListFaults returns a page of faults, newest first. Technicians only see
// faults they are assigned to or reported themselves.
func (s *FaultService) ListFaults(ctx context.Context, actor *models.StaffPrincipal, filter FaultFilter) ([]models.Fault, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Fault{})

	if actor.Role == models.RoleTechnician {
		query = query.Where("assigned_to = ? OR reported_by_user = ?", actor.UserID, actor.UserID)
	}

	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown fault status %q", models.ErrValidation, filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		if !filter.Severity.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown severity %q", models.ErrValidation, filter.Severity)
		}
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.AssignedTo != "" {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count faults: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}

	var faults []models.Fault
	if err := query.
		Order("reported_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&faults).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list faults: %w", err)
	}
	return faults, total, nil
}

// GetFault returns a fault with its audit trail, oldest entry first
func (s *FaultService) GetFault(ctx context.Context, faultID string) (*models.Fault, error) {
	var fault models.Fault
	if err := s.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("update_date")
		}).
		First(&fault, "fault_id = ?", faultID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fault: %w", err)
	}
	return &fault, nil
}

// ListFaultsForCustomer returns faults reported by the acting customer,
// newest first
func (s *FaultService) ListFaultsForCustomer(ctx context.Context, actor *models.CustomerPrincipal) ([]models.Fault, error) {
	var faults []models.Fault
	if err := s.db.WithContext(ctx).
		Where("reported_by_customer = ?", actor.CustomerID).
		Order("reported_date DESC").
		Find(&faults).Error; err != nil {
		return nil, fmt.Errorf("failed to list faults: %w", err)
	}
	return faults, nil
}

// GetFaultForCustomer returns a fault only when the acting customer
// reported it. A foreign fault reads the same as a missing one.
func (s *FaultService) GetFaultForCustomer(ctx context.Context, actor *models.CustomerPrincipal, faultID string) (*models.Fault, error) {
	var fault models.Fault
	if err := s.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("update_date")
		}).
		Where("fault_id = ? AND reported_by_customer = ?", faultID, actor.CustomerID).
		First(&fault).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fault: %w", err)
	}
	return &fault, nil
}

// AssignFault assigns a fault to a technician, moves it to assigned,
// writes the audit entry and notifies the technician, all atomically.
// The update carries an optimistic precondition on the previous status so
// two concurrent assignments cannot both win.
func (s *FaultService) AssignFault(ctx context.Context, actor *models.StaffPrincipal, faultID string, req models.AssignFaultRequest) (*models.Fault, error) {
	if strings.TrimSpace(req.TechnicianID) == "" {
		return nil, fmt.Errorf("%w: technician id is required", models.ErrValidation)
	}

	var fault models.Fault
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&fault, "fault_id = ?", faultID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get fault: %w", err)
		}

		var technician models.User
		if err := tx.Where("user_id = ? AND role = ?", req.TechnicianID, models.RoleTechnician).
			First(&technician).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: technician not found", models.ErrValidation)
			}
			return fmt.Errorf("failed to get technician: %w", err)
		}

		previousStatus := fault.Status
		now := time.Now()

		result := tx.Model(&models.Fault{}).
			Where("fault_id = ? AND status = ?", faultID, previousStatus).
			Updates(map[string]interface{}{
				"assigned_to":   technician.UserID,
				"assigned_date": now,
				"status":        models.FaultAssigned,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to assign fault: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.ErrStatusConflict
		}

		fault.AssignedTo = &technician.UserID
		fault.AssignedDate = &now
		fault.Status = models.FaultAssigned

		update := models.FaultUpdate{
			FaultID:        fault.FaultID,
			UpdatedBy:      actor.UserID,
			UpdateType:     models.UpdateAssignment,
			PreviousStatus: string(previousStatus),
			NewStatus:      string(models.FaultAssigned),
			Notes:          fmt.Sprintf("Assigned to %s", technician.FullName),
		}
		if err := tx.Create(&update).Error; err != nil {
			return fmt.Errorf("failed to record assignment: %w", err)
		}

		return notifyUser(tx, technician.UserID,
			"Fault Assigned",
			fmt.Sprintf("You have been assigned a %s fault: %s", fault.FaultType, fault.Description),
			models.NotificationFaultUpdate, models.ReferenceFault, fault.FaultID)
	})
	if err != nil {
		return nil, err
	}
	return &fault, nil
}

// UpdateFaultStatus transitions a fault and appends the audit entry. A
// transition to either terminal status stamps the resolution date and
// notes; notifying the reporting customer, when there is one, happens in
// the same transaction.
func (s *FaultService) UpdateFaultStatus(ctx context.Context, actor *models.StaffPrincipal, faultID string, req models.UpdateStatusRequest) (*models.Fault, error) {
	newStatus := models.FaultStatus(req.Status)
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown fault status %q", models.ErrValidation, req.Status)
	}

	var fault models.Fault
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&fault, "fault_id = ?", faultID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get fault: %w", err)
		}

		previousStatus := fault.Status
		updates := map[string]interface{}{"status": newStatus}

		if newStatus.IsTerminal() {
			now := time.Now()
			updates["resolution_date"] = now
			updates["resolution_notes"] = req.Notes
			fault.ResolutionDate = &now
			fault.ResolutionNotes = req.Notes
		}

		result := tx.Model(&models.Fault{}).
			Where("fault_id = ? AND status = ?", faultID, previousStatus).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update fault: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.ErrStatusConflict
		}
		fault.Status = newStatus

		update := models.FaultUpdate{
			FaultID:        fault.FaultID,
			UpdatedBy:      actor.UserID,
			UpdateType:     models.UpdateStatusChange,
			PreviousStatus: string(previousStatus),
			NewStatus:      string(newStatus),
			Notes:          req.Notes,
		}
		if err := tx.Create(&update).Error; err != nil {
			return fmt.Errorf("failed to record status change: %w", err)
		}

		if fault.ReportedByCustomer != nil {
			return notifyCustomer(tx, *fault.ReportedByCustomer,
				"Fault Status Updated",
				fmt.Sprintf("Your %s fault report is now %s", fault.FaultType, newStatus),
				models.NotificationFaultUpdate, models.ReferenceFault, fault.FaultID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fault, nil
}

// AddFaultNote appends a free-form note to a fault's audit trail without
// touching its status
func (s *FaultService) AddFaultNote(ctx context.Context, actor *models.StaffPrincipal, faultID string, req models.AddNoteRequest) (*models.FaultUpdate, error) {
	if strings.TrimSpace(req.Notes) == "" {
		return nil, fmt.Errorf("%w: notes are required", models.ErrValidation)
	}

	var update models.FaultUpdate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fault models.Fault
		if err := tx.First(&fault, "fault_id = ?", faultID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get fault: %w", err)
		}

		update = models.FaultUpdate{
			FaultID:        fault.FaultID,
			UpdatedBy:      actor.UserID,
			UpdateType:     models.UpdateNote,
			PreviousStatus: string(fault.Status),
			NewStatus:      string(fault.Status),
			Notes:          strings.TrimSpace(req.Notes),
		}
		if err := tx.Create(&update).Error; err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &update, nil
}
