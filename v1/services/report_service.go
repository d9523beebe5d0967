package services

import (
	"context"
	"fmt"
	"time"

	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/gorm"
)

// ReportService provides management reporting aggregates and the two
// dashboard views. All numbers are computed on demand; nothing is
// materialized.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// normalizeRange fills in the default reporting window: the last 30 days
func normalizeRange(from, to time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return from, to
}

func groupCount(query *gorm.DB, column string) ([]models.StatusCount, error) {
	var rows []models.StatusCount
	if err := query.
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate by %s: %w", column, err)
	}
	return rows, nil
}

// FaultReport aggregates fault activity over a date range
func (s *ReportService) FaultReport(ctx context.Context, from, to time.Time) (*models.FaultReport, error) {
	from, to = normalizeRange(from, to)
	report := &models.FaultReport{StartDate: from, EndDate: to}

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Fault{}).
			Where("reported_date BETWEEN ? AND ?", from, to)
	}

	if err := base().Count(&report.TotalFaults).Error; err != nil {
		return nil, fmt.Errorf("failed to count faults: %w", err)
	}
	if err := base().Where("status IN ?", []models.FaultStatus{models.FaultResolved, models.FaultClosed}).
		Count(&report.ResolvedFaults).Error; err != nil {
		return nil, fmt.Errorf("failed to count resolved faults: %w", err)
	}

	// Average resolution time over faults resolved in the window
	var resolved []models.Fault
	if err := base().Where("resolution_date IS NOT NULL").Find(&resolved).Error; err != nil {
		return nil, fmt.Errorf("failed to list resolved faults: %w", err)
	}
	if len(resolved) > 0 {
		var totalHours float64
		for _, fault := range resolved {
			if hours := fault.ResolutionTimeHours(); hours != nil {
				totalHours += *hours
			}
		}
		report.AvgResolutionHours = totalHours / float64(len(resolved))
	}

	var err error
	if report.FaultsBySeverity, err = groupCount(base(), "severity"); err != nil {
		return nil, err
	}
	if report.FaultsByType, err = groupCount(base(), "fault_type"); err != nil {
		return nil, err
	}
	if report.DailyTrend, err = groupCount(base(), "DATE(reported_date)"); err != nil {
		return nil, err
	}
	return report, nil
}

// MaintenanceReport aggregates maintenance activity over a date range
func (s *ReportService) MaintenanceReport(ctx context.Context, from, to time.Time) (*models.MaintenanceReport, error) {
	from, to = normalizeRange(from, to)
	report := &models.MaintenanceReport{StartDate: from, EndDate: to}

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.MaintenanceSchedule{}).
			Where("scheduled_date BETWEEN ? AND ?", from, to)
	}

	if err := base().Count(&report.TotalScheduled).Error; err != nil {
		return nil, fmt.Errorf("failed to count schedules: %w", err)
	}
	statusCounts := map[models.MaintenanceStatus]*int64{
		models.MaintenanceCompleted:  &report.Completed,
		models.MaintenanceInProgress: &report.InProgress,
		models.MaintenanceCancelled:  &report.Cancelled,
	}
	for status, target := range statusCounts {
		if err := base().Where("status = ?", status).Count(target).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s schedules: %w", status, err)
		}
	}

	var err error
	if report.ByType, err = groupCount(base(), "maintenance_type"); err != nil {
		return nil, err
	}
	if report.ByEquipment, err = groupCount(base(), "equipment_type"); err != nil {
		return nil, err
	}
	return report, nil
}

// PerformanceSnapshot computes the current-month operational overview
func (s *ReportService) PerformanceSnapshot(ctx context.Context) (*models.PerformanceSnapshot, error) {
	snapshot := &models.PerformanceSnapshot{}
	db := s.db.WithContext(ctx)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&snapshot.TotalCustomers, db.Model(&models.Customer{})},
		{&snapshot.ActiveConnections, db.Model(&models.Connection{}).Where("connection_status = ?", models.ConnectionActive)},
		{&snapshot.SuspendedConnections, db.Model(&models.Connection{}).Where("connection_status = ?", models.ConnectionSuspended)},
		{&snapshot.TotalFaultsMonth, db.Model(&models.Fault{}).Where("reported_date >= ?", monthStart)},
		{&snapshot.ResolvedFaultsMonth, db.Model(&models.Fault{}).
			Where("reported_date >= ? AND status IN ?", monthStart, []models.FaultStatus{models.FaultResolved, models.FaultClosed})},
		{&snapshot.MaintenanceCompletedMonth, db.Model(&models.MaintenanceSchedule{}).
			Where("completion_date >= ?", monthStart)},
		{&snapshot.PendingRequests, db.Model(&models.ServiceRequest{}).
			Where("status IN ?", []models.RequestStatus{models.RequestSubmitted, models.RequestUnderReview})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("failed to compute performance snapshot: %w", err)
		}
	}

	if snapshot.TotalFaultsMonth > 0 {
		snapshot.ResolutionRate = float64(snapshot.ResolvedFaultsMonth) / float64(snapshot.TotalFaultsMonth) * 100
	}
	return snapshot, nil
}

// StaffDashboard assembles the back-office landing page payload
func (s *ReportService) StaffDashboard(ctx context.Context) (*models.StaffDashboard, error) {
	dashboard := &models.StaffDashboard{}
	db := s.db.WithContext(ctx)

	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&dashboard.TotalCustomers, db.Model(&models.Customer{})},
		{&dashboard.ActiveConnections, db.Model(&models.Connection{}).Where("connection_status = ?", models.ConnectionActive)},
		{&dashboard.PendingFaults, db.Model(&models.Fault{}).
			Where("status NOT IN ?", []models.FaultStatus{models.FaultResolved, models.FaultClosed})},
		{&dashboard.ScheduledMaintenance, db.Model(&models.MaintenanceSchedule{}).
			Where("status = ?", models.MaintenanceScheduled)},
		{&dashboard.PendingRequests, db.Model(&models.ServiceRequest{}).
			Where("status IN ?", []models.RequestStatus{models.RequestSubmitted, models.RequestUnderReview})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("failed to compute dashboard counts: %w", err)
		}
	}

	if err := db.Model(&models.Fault{}).
		Order("reported_date DESC").Limit(5).
		Find(&dashboard.RecentFaults).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent faults: %w", err)
	}
	if err := db.Model(&models.MaintenanceSchedule{}).
		Where("scheduled_date >= ? AND status = ?", time.Now(), models.MaintenanceScheduled).
		Order("scheduled_date").Limit(5).
		Find(&dashboard.UpcomingMaintenance).Error; err != nil {
		return nil, fmt.Errorf("failed to list upcoming maintenance: %w", err)
	}
	return dashboard, nil
}

// CustomerDashboard assembles the portal landing page payload for the
// acting customer
func (s *ReportService) CustomerDashboard(ctx context.Context, actor *models.CustomerPrincipal) (*models.CustomerDashboard, error) {
	dashboard := &models.CustomerDashboard{}
	db := s.db.WithContext(ctx)

	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&dashboard.ActiveConnections, db.Model(&models.Connection{}).
			Where("customer_id = ? AND connection_status = ?", actor.CustomerID, models.ConnectionActive)},
		{&dashboard.PendingFaults, db.Model(&models.Fault{}).
			Where("reported_by_customer = ? AND status NOT IN ?", actor.CustomerID,
				[]models.FaultStatus{models.FaultResolved, models.FaultClosed})},
		{&dashboard.PendingRequests, db.Model(&models.ServiceRequest{}).
			Where("customer_id = ? AND status IN ?", actor.CustomerID,
				[]models.RequestStatus{models.RequestSubmitted, models.RequestUnderReview})},
		{&dashboard.UnreadNotifications, db.Model(&models.Notification{}).
			Where("customer_id = ? AND is_read = ?", actor.CustomerID, false)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("failed to compute dashboard counts: %w", err)
		}
	}

	if err := db.Model(&models.Fault{}).
		Where("reported_by_customer = ?", actor.CustomerID).
		Order("reported_date DESC").Limit(5).
		Find(&dashboard.RecentFaults).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent faults: %w", err)
	}
	if err := db.Model(&models.ServiceRequest{}).
		Where("customer_id = ?", actor.CustomerID).
		Order("submitted_date DESC").Limit(5).
		Find(&dashboard.RecentRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent requests: %w", err)
	}
	return dashboard, nil
}
