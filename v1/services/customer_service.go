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

// CustomerService provides business logic for the staff-side customer
// registry
type CustomerService struct {
	db *gorm.DB
}

// NewCustomerService creates a new customer service
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// nextAccountNumber derives the next account number for the current year,
// e.g. KP-2026-0042. It must run inside the creation transaction so the
// count and the insert are atomic.
func nextAccountNumber(tx *gorm.DB) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("KP-%d-", year)

	var count int64
	if err := tx.Model(&models.Customer{}).
		Where("account_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count accounts for year %d: %w", year, err)
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func validateCreateCustomerRequest(req models.CreateCustomerRequest) error {
	switch {
	case strings.TrimSpace(req.FirstName) == "":
		return fmt.Errorf("%w: first name is required", models.ErrValidation)
	case strings.TrimSpace(req.LastName) == "":
		return fmt.Errorf("%w: last name is required", models.ErrValidation)
	case strings.TrimSpace(req.Phone) == "":
		return fmt.Errorf("%w: phone is required", models.ErrValidation)
	case strings.TrimSpace(req.IDNumber) == "":
		return fmt.Errorf("%w: id number is required", models.ErrValidation)
	case strings.TrimSpace(req.Address) == "":
		return fmt.Errorf("%w: address is required", models.ErrValidation)
	case strings.TrimSpace(req.County) == "":
		return fmt.Errorf("%w: county is required", models.ErrValidation)
	case strings.TrimSpace(req.Town) == "":
		return fmt.Errorf("%w: town is required", models.ErrValidation)
	}
	switch req.CustomerType {
	case models.CustomerResidential, models.CustomerCommercial, models.CustomerIndustrial:
	default:
		return fmt.Errorf("%w: unknown customer type %q", models.ErrValidation, req.CustomerType)
	}
	return nil
}

// CreateCustomer registers a new customer and assigns an account number
func (s *CustomerService) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (*models.Customer, error) {
	if err := validateCreateCustomerRequest(req); err != nil {
		return nil, err
	}

	customer := models.Customer{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		IDNumber:     strings.TrimSpace(req.IDNumber),
		Address:      strings.TrimSpace(req.Address),
		County:       strings.TrimSpace(req.County),
		Town:         strings.TrimSpace(req.Town),
		PostalCode:   strings.TrimSpace(req.PostalCode),
		CustomerType: req.CustomerType,
		IsActive:     true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Customer{}).
			Where("id_number = ?", customer.IDNumber).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check for existing customer: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: id number already registered", models.ErrConflict)
		}

		accountNumber, err := nextAccountNumber(tx)
		if err != nil {
			return err
		}
		customer.AccountNumber = accountNumber

		if err := tx.Create(&customer).Error; err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CustomerFilter narrows ListCustomers results
type CustomerFilter struct {
	Search       string
	County       string
	CustomerType string
	Page         int
	PageSize     int
}

// ListCustomers returns a page of customers, newest first
func (s *CustomerService) ListCustomers(ctx context.Context, filter CustomerFilter) ([]models.Customer, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Customer{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"account_number LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR phone LIKE ? OR id_number LIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}
	if filter.County != "" {
		query = query.Where("county = ?", filter.County)
	}
	if filter.CustomerType != "" {
		query = query.Where("customer_type = ?", filter.CustomerType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}

	var customers []models.Customer
	if err := query.
		Order("registration_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

// GetCustomer returns a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

// UpdateCustomer edits an existing customer record. The account number
// and portal credential are never touched here.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID string, req models.UpdateCustomerRequest) (*models.Customer, error) {
	if req.CustomerType != "" {
		switch req.CustomerType {
		case models.CustomerResidential, models.CustomerCommercial, models.CustomerIndustrial:
		default:
			return nil, fmt.Errorf("%w: unknown customer type %q", models.ErrValidation, req.CustomerType)
		}
	}

	var customer models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, "customer_id = ?", customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("failed to get customer: %w", err)
		}

		if req.FirstName != "" {
			customer.FirstName = strings.TrimSpace(req.FirstName)
		}
		if req.LastName != "" {
			customer.LastName = strings.TrimSpace(req.LastName)
		}
		if req.Email != "" {
			customer.Email = strings.TrimSpace(req.Email)
		}
		if req.Phone != "" {
			customer.Phone = strings.TrimSpace(req.Phone)
		}
		if req.Address != "" {
			customer.Address = strings.TrimSpace(req.Address)
		}
		if req.County != "" {
			customer.County = strings.TrimSpace(req.County)
		}
		if req.Town != "" {
			customer.Town = strings.TrimSpace(req.Town)
		}
		if req.PostalCode != "" {
			customer.PostalCode = strings.TrimSpace(req.PostalCode)
		}
		if req.CustomerType != "" {
			customer.CustomerType = req.CustomerType
		}

		if err := tx.Save(&customer).Error; err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerConnections returns all connections owned by a customer
func (s *CustomerService) GetCustomerConnections(ctx context.Context, customerID string) ([]models.Connection, error) {
	var connections []models.Connection
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at").
		Find(&connections).Error; err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return connections, nil
}
