package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/gorm"
)

// ConnectionService provides business logic for electrical connections
type ConnectionService struct {
	db *gorm.DB
}

// NewConnectionService creates a new connection service
func NewConnectionService(db *gorm.DB) *ConnectionService {
	return &ConnectionService{db: db}
}

// nextMeterNumber derives the next meter number within a county prefix,
// e.g. MTR-NBI-000107. Runs inside the creation transaction so the count
// and the insert are atomic.
func nextMeterNumber(tx *gorm.DB, countyCode string) (string, error) {
	prefix := fmt.Sprintf("MTR-%s-", strings.ToUpper(countyCode))

	var count int64
	if err := tx.Model(&models.Connection{}).
		Where("meter_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count meters for county %s: %w", countyCode, err)
	}
	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

// CreateConnection installs a new connection for an existing customer and
// assigns a meter number
func (s *ConnectionService) CreateConnection(ctx context.Context, req models.CreateConnectionRequest) (*models.Connection, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer id is required", models.ErrValidation)
	}
	countyCode := strings.TrimSpace(req.CountyCode)
	if countyCode == "" {
		return nil, fmt.Errorf("%w: county code is required", models.ErrValidation)
	}
	switch req.ConnectionType {
	case models.ConnectionSinglePhase, models.ConnectionThreePhase:
	default:
		return nil, fmt.Errorf("%w: unknown connection type %q", models.ErrValidation, req.ConnectionType)
	}
	if req.LoadCapacity <= 0 {
		return nil, fmt.Errorf("%w: load capacity must be positive", models.ErrValidation)
	}

	status := models.ConnectionPending
	if req.Status != "" {
		status = models.ConnectionStatus(req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown connection status %q", models.ErrValidation, req.Status)
		}
	}

	connection := models.Connection{
		CustomerID:          req.CustomerID,
		ConnectionType:      req.ConnectionType,
		LoadCapacity:        req.LoadCapacity,
		InstallationDate:    req.InstallationDate,
		Status:              status,
		LocationCoordinates: strings.TrimSpace(req.LocationCoordinates),
		TransformerID:       strings.TrimSpace(req.TransformerID),
		FeederLine:          strings.TrimSpace(req.FeederLine),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, "customer_id = ?", req.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get customer: %w", err)
		}

		meterNumber, err := nextMeterNumber(tx, countyCode)
		if err != nil {
			return err
		}
		connection.MeterNumber = meterNumber

		if err := tx.Create(&connection).Error; err != nil {
			return fmt.Errorf("failed to create connection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &connection, nil
}

// ConnectionFilter narrows ListConnections results
type ConnectionFilter struct {
	Status   models.ConnectionStatus
	Search   string
	Page     int
	PageSize int
}

// ListConnections returns a page of connections with their owners preloaded
func (s *ConnectionService) ListConnections(ctx context.Context, filter ConnectionFilter) ([]models.Connection, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Connection{})

	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown connection status %q", models.ErrValidation, filter.Status)
		}
		query = query.Where("connection_status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("meter_number LIKE ? OR transformer_id LIKE ? OR feeder_line LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count connections: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}

	var connections []models.Connection
	if err := query.
		Preload("Customer").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&connections).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list connections: %w", err)
	}
	return connections, total, nil
}

// GetConnection returns a connection by ID with its owner preloaded
func (s *ConnectionService) GetConnection(ctx context.Context, connectionID string) (*models.Connection, error) {
	var connection models.Connection
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		First(&connection, "connection_id = ?", connectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &connection, nil
}

// UpdateConnectionStatus transitions a connection between lifecycle states
func (s *ConnectionService) UpdateConnectionStatus(ctx context.Context, connectionID string, status models.ConnectionStatus) (*models.Connection, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown connection status %q", models.ErrValidation, status)
	}

	var connection models.Connection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&connection, "connection_id = ?", connectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get connection: %w", err)
		}
		connection.Status = status
		if err := tx.Save(&connection).Error; err != nil {
			return fmt.Errorf("failed to update connection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &connection, nil
}

// GetOwnedConnection returns a connection only when it belongs to the
// acting customer. A foreign connection reads the same as a missing one.
func (s *ConnectionService) GetOwnedConnection(ctx context.Context, actor *models.CustomerPrincipal, connectionID string) (*models.Connection, error) {
	var connection models.Connection
	if err := s.db.WithContext(ctx).
		Where("connection_id = ? AND customer_id = ?", connectionID, actor.CustomerID).
		First(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &connection, nil
}

// ListOwnedConnections returns all connections belonging to the acting customer
func (s *ConnectionService) ListOwnedConnections(ctx context.Context, actor *models.CustomerPrincipal) ([]models.Connection, error) {
	var connections []models.Connection
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", actor.CustomerID).
		Order("created_at").
		Find(&connections).Error; err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return connections, nil
}
