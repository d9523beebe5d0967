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

// RequestService provides business logic for customer service requests.
// Customers create and read their own requests; every status transition
// is staff-driven.
type RequestService struct {
	db *gorm.DB
}

// NewRequestService creates a new service request service
func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

// CreateRequest submits a new service request from the portal. A
// connection reference must belong to the acting customer.
func (s *RequestService) CreateRequest(ctx context.Context, actor *models.CustomerPrincipal, req models.CreateServiceRequestRequest) (*models.ServiceRequest, error) {
	switch req.RequestType {
	case models.RequestNewConnection, models.RequestUpgrade, models.RequestDowngrade,
		models.RequestRelocation, models.RequestNameChange,
		models.RequestDisconnection, models.RequestReconnection:
	default:
		return nil, fmt.Errorf("%w: unknown request type %q", models.ErrValidation, req.RequestType)
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	request := models.ServiceRequest{
		CustomerID:   actor.CustomerID,
		ConnectionID: req.ConnectionID,
		RequestType:  req.RequestType,
		Description:  strings.TrimSpace(req.Description),
		Status:       models.RequestSubmitted,
		Priority:     priority,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.ConnectionID != nil {
			var connection models.Connection
			if err := tx.Where("connection_id = ? AND customer_id = ?", *req.ConnectionID, actor.CustomerID).
				First(&connection).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrInvalidConnection
				}
				return fmt.Errorf("failed to get connection: %w", err)
			}
		}

		if err := tx.Create(&request).Error; err != nil {
			return fmt.Errorf("failed to create service request: %w", err)
		}

		if err := notifyRole(tx, models.RoleCustomerService,
			"New Service Request",
			fmt.Sprintf("Customer %s submitted a %s request", actor.AccountNumber, request.RequestType),
			models.NotificationServiceUpdate, models.ReferenceServiceRequest, request.RequestID); err != nil {
			return err
		}
		// The submitter gets a confirmation in the same transaction
		return notifyCustomer(tx, actor.CustomerID,
			"Service Request Submitted",
			fmt.Sprintf("Your %s request has been submitted and is awaiting review", request.RequestType),
			models.NotificationServiceUpdate, models.ReferenceServiceRequest, request.RequestID)
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListRequestsForCustomer returns the acting customer's requests, newest
// first
func (s *RequestService) ListRequestsForCustomer(ctx context.Context, actor *models.CustomerPrincipal) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", actor.CustomerID).
		Order("submitted_date DESC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	return requests, nil
}

// GetRequestForCustomer returns a request only when the acting customer
// owns it. A foreign request reads the same as a missing one.
func (s *RequestService) GetRequestForCustomer(ctx context.Context, actor *models.CustomerPrincipal, requestID string) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	if err := s.db.WithContext(ctx).
		Where("request_id = ? AND customer_id = ?", requestID, actor.CustomerID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}
	return &request, nil
}

// RequestFilter narrows ListRequests results
type RequestFilter struct {
	Status   models.RequestStatus
	Type     string
	Page     int
	PageSize int
}

// ListRequests returns a page of service requests for staff, newest first
func (s *RequestService) ListRequests(ctx context.Context, filter RequestFilter) ([]models.ServiceRequest, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ServiceRequest{})

	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown request status %q", models.ErrValidation, filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("request_type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count service requests: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}

	var requests []models.ServiceRequest
	if err := query.
		Order("submitted_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list service requests: %w", err)
	}
	return requests, total, nil
}

// GetRequest returns a service request by ID for staff
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	if err := s.db.WithContext(ctx).First(&request, "request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}
	return &request, nil
}

// AssignRequest assigns a service request to a staff member
func (s *RequestService) AssignRequest(ctx context.Context, requestID string, req models.AssignServiceRequestRequest) (*models.ServiceRequest, error) {
	if strings.TrimSpace(req.AssigneeID) == "" {
		return nil, fmt.Errorf("%w: assignee id is required", models.ErrValidation)
	}

	var request models.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "request_id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get service request: %w", err)
		}

		var assignee models.User
		if err := tx.First(&assignee, "user_id = ?", req.AssigneeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: assignee not found", models.ErrValidation)
			}
			return fmt.Errorf("failed to get assignee: %w", err)
		}

		request.AssignedTo = &assignee.UserID
		if request.Status == models.RequestSubmitted {
			request.Status = models.RequestUnderReview
		}
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to assign service request: %w", err)
		}

		return notifyUser(tx, assignee.UserID,
			"Service Request Assigned",
			fmt.Sprintf("You have been assigned a %s request", request.RequestType),
			models.NotificationServiceUpdate, models.ReferenceServiceRequest, request.RequestID)
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateRequestStatus transitions a service request and notifies its
// owner. Terminal transitions stamp the resolution date and notes.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, requestID string, req models.UpdateStatusRequest) (*models.ServiceRequest, error) {
	newStatus := models.RequestStatus(req.Status)
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown request status %q", models.ErrValidation, req.Status)
	}

	var request models.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "request_id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get service request: %w", err)
		}

		request.Status = newStatus
		if newStatus.IsTerminal() {
			now := time.Now()
			request.ResolvedDate = &now
			request.ResolutionNotes = req.Notes
		}
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to update service request: %w", err)
		}

		return notifyCustomer(tx, request.CustomerID,
			"Service Request Updated",
			fmt.Sprintf("Your %s request is now %s", request.RequestType, newStatus),
			models.NotificationServiceUpdate, models.ReferenceServiceRequest, request.RequestID)
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}
