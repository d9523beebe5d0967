package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/gorm"
)

func countNotificationsForCustomer(t *testing.T, db *gorm.DB, customerID string) int64 {
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("customer_id = ?", customerID).Count(&count).Error)
	return count
}

func TestRequestService_Create(t *testing.T) {
	db := RequireTestDB(t)
	service := NewRequestService(db)
	connections := NewConnectionService(db)

	clerk := seedStaff(t, db, "clerk", models.RoleCustomerService, true)
	owner := seedCustomer(t, db, "KP-2026-0001", "12345678", "0722000000")
	other := seedCustomer(t, db, "KP-2026-0002", "87654321", "0733000000")
	connection := seedConnection(t, db, connections, owner.CustomerID)

	t.Run("CreateRequest_NotifiesCustomerService", func(t *testing.T) {
		request, err := service.CreateRequest(context.Background(), customerPrincipal(owner), models.CreateServiceRequestRequest{
			RequestType:  models.RequestUpgrade,
			ConnectionID: &connection.ConnectionID,
			Description:  "Need three phase for workshop",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RequestSubmitted, request.Status)
		assert.Equal(t, "medium", request.Priority)
		assert.Equal(t, owner.CustomerID, request.CustomerID)

		// Customer service staff are alerted and the submitter gets a
		// confirmation, both in the creating transaction
		assert.EqualValues(t, 1, countNotificationsForUser(t, db, clerk.UserID))
		assert.EqualValues(t, 1, countNotificationsForCustomer(t, db, owner.CustomerID))
	})

	t.Run("CreateRequest_ForeignConnectionRejected", func(t *testing.T) {
		_, err := service.CreateRequest(context.Background(), customerPrincipal(other), models.CreateServiceRequestRequest{
			RequestType:  models.RequestUpgrade,
			ConnectionID: &connection.ConnectionID,
			Description:  "Upgrade please",
		})
		assert.ErrorIs(t, err, models.ErrInvalidConnection)
	})

	t.Run("CreateRequest_UnknownType", func(t *testing.T) {
		_, err := service.CreateRequest(context.Background(), customerPrincipal(owner), models.CreateServiceRequestRequest{
			RequestType: "teleportation",
			Description: "Move my meter instantly",
		})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("CreateRequest_NewConnectionNeedsNoConnection", func(t *testing.T) {
		request, err := service.CreateRequest(context.Background(), customerPrincipal(other), models.CreateServiceRequestRequest{
			RequestType: models.RequestNewConnection,
			Description: "New premises in Karen",
		})
		require.NoError(t, err)
		assert.Nil(t, request.ConnectionID)
	})

	t.Run("CreateRequest_AcceptsEveryDefinedType", func(t *testing.T) {
		for _, requestType := range []string{
			models.RequestDowngrade, models.RequestRelocation, models.RequestNameChange,
		} {
			request, err := service.CreateRequest(context.Background(), customerPrincipal(owner), models.CreateServiceRequestRequest{
				RequestType:  requestType,
				ConnectionID: &connection.ConnectionID,
				Description:  "Requesting " + requestType,
			})
			require.NoError(t, err)
			assert.Equal(t, requestType, request.RequestType)
		}
	})
}

func TestRequestService_Lifecycle(t *testing.T) {
	db := RequireTestDB(t)
	service := NewRequestService(db)

	clerk := seedStaff(t, db, "clerk", models.RoleCustomerService, true)
	customer := seedCustomer(t, db, "KP-2026-0001", "12345678", "0722000000")

	request, err := service.CreateRequest(context.Background(), customerPrincipal(customer), models.CreateServiceRequestRequest{
		RequestType: models.RequestReconnection,
		Description: "Cleared arrears, please reconnect",
	})
	require.NoError(t, err)

	t.Run("AssignRequest_MovesToUnderReview", func(t *testing.T) {
		assigned, err := service.AssignRequest(context.Background(), request.RequestID, models.AssignServiceRequestRequest{
			AssigneeID: clerk.UserID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RequestUnderReview, assigned.Status)
		assert.Equal(t, clerk.UserID, *assigned.AssignedTo)
		assert.EqualValues(t, 2, countNotificationsForUser(t, db, clerk.UserID))
	})

	t.Run("AssignRequest_ReassignKeepsStatus", func(t *testing.T) {
		second := seedStaff(t, db, "clerk2", models.RoleCustomerService, true)
		assigned, err := service.AssignRequest(context.Background(), request.RequestID, models.AssignServiceRequestRequest{
			AssigneeID: second.UserID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RequestUnderReview, assigned.Status)
		assert.Equal(t, second.UserID, *assigned.AssignedTo)
	})

	t.Run("UpdateRequestStatus_NonTerminalLeavesResolution", func(t *testing.T) {
		updated, err := service.UpdateRequestStatus(context.Background(), request.RequestID, models.UpdateStatusRequest{
			Status: string(models.RequestApproved),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.ResolvedDate)
		assert.Greater(t, countNotificationsForCustomer(t, db, customer.CustomerID), int64(0))
	})

	t.Run("UpdateRequestStatus_TerminalStampsResolution", func(t *testing.T) {
		updated, err := service.UpdateRequestStatus(context.Background(), request.RequestID, models.UpdateStatusRequest{
			Status: string(models.RequestCompleted),
			Notes:  "Reconnected on site",
		})
		require.NoError(t, err)
		require.NotNil(t, updated.ResolvedDate)
		assert.Equal(t, "Reconnected on site", updated.ResolutionNotes)
	})

	t.Run("UpdateRequestStatus_UnknownStatus", func(t *testing.T) {
		_, err := service.UpdateRequestStatus(context.Background(), request.RequestID, models.UpdateStatusRequest{
			Status: "done",
		})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("AssignRequest_UnknownAssignee", func(t *testing.T) {
		_, err := service.AssignRequest(context.Background(), request.RequestID, models.AssignServiceRequestRequest{
			AssigneeID: "missing-id",
		})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestRequestService_CustomerScope(t *testing.T) {
	db := RequireTestDB(t)
	service := NewRequestService(db)

	owner := seedCustomer(t, db, "KP-2026-0001", "12345678", "0722000000")
	other := seedCustomer(t, db, "KP-2026-0002", "87654321", "0733000000")

	request, err := service.CreateRequest(context.Background(), customerPrincipal(owner), models.CreateServiceRequestRequest{
		RequestType: models.RequestDisconnection,
		Description: "Moving out next month",
	})
	require.NoError(t, err)

	t.Run("ListRequestsForCustomer_OnlyOwn", func(t *testing.T) {
		requests, err := service.ListRequestsForCustomer(context.Background(), customerPrincipal(owner))
		require.NoError(t, err)
		require.Len(t, requests, 1)

		requests, err = service.ListRequestsForCustomer(context.Background(), customerPrincipal(other))
		require.NoError(t, err)
		assert.Empty(t, requests)
	})

	t.Run("GetRequestForCustomer_ForeignReadsAsNotFound", func(t *testing.T) {
		_, err := service.GetRequestForCustomer(context.Background(), customerPrincipal(other), request.RequestID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		got, err := service.GetRequestForCustomer(context.Background(), customerPrincipal(owner), request.RequestID)
		require.NoError(t, err)
		assert.Equal(t, request.RequestID, got.RequestID)
	})
}
