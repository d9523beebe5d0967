package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utility-oms/backoffice-api/v1/models"
)

func TestCustomerService_CreateCustomer(t *testing.T) {
	db := RequireTestDB(t)
	service := NewCustomerService(db)

	newRequest := func(idNumber string) models.CreateCustomerRequest {
		return models.CreateCustomerRequest{
			FirstName:    "John",
			LastName:     "Otieno",
			Email:        "john@example.com",
			Phone:        "0722111222",
			IDNumber:     idNumber,
			Address:      "45 Kenyatta Avenue",
			County:       "Kisumu",
			Town:         "Kisumu",
			CustomerType: models.CustomerResidential,
		}
	}

	t.Run("CreateCustomer_AssignsSequentialAccountNumbers", func(t *testing.T) {
		year := time.Now().Year()

		first, err := service.CreateCustomer(context.Background(), newRequest("11111111"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("KP-%d-0001", year), first.AccountNumber)

		second, err := service.CreateCustomer(context.Background(), newRequest("22222222"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("KP-%d-0002", year), second.AccountNumber)
	})

	t.Run("CreateCustomer_DuplicateIDNumber", func(t *testing.T) {
		_, err := service.CreateCustomer(context.Background(), newRequest("11111111"))
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("CreateCustomer_UnknownCustomerType", func(t *testing.T) {
		req := newRequest("33333333")
		req.CustomerType = "industrial-park"
		_, err := service.CreateCustomer(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("CreateCustomer_MissingRequiredField", func(t *testing.T) {
		req := newRequest("44444444")
		req.Phone = ""
		_, err := service.CreateCustomer(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestCustomerService_ListAndGet(t *testing.T) {
	db := RequireTestDB(t)
	service := NewCustomerService(db)

	for i := 0; i < 3; i++ {
		_, err := service.CreateCustomer(context.Background(), models.CreateCustomerRequest{
			FirstName:    fmt.Sprintf("Customer%d", i),
			LastName:     "Test",
			Phone:        fmt.Sprintf("07220000%02d", i),
			IDNumber:     fmt.Sprintf("5000000%d", i),
			Address:      "Address",
			County:       "Nakuru",
			Town:         "Nakuru",
			CustomerType: models.CustomerCommercial,
		})
		require.NoError(t, err)
	}

	t.Run("ListCustomers_Pagination", func(t *testing.T) {
		customers, total, err := service.ListCustomers(context.Background(), CustomerFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, customers, 2)
	})

	t.Run("ListCustomers_Search", func(t *testing.T) {
		customers, total, err := service.ListCustomers(context.Background(), CustomerFilter{Search: "Customer1"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, customers, 1)
		assert.Equal(t, "Customer1", customers[0].FirstName)
	})

	t.Run("GetCustomer_NotFound", func(t *testing.T) {
		_, err := service.GetCustomer(context.Background(), "missing-id")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
