package service

import (
	"context"
	"testing"
	"time"

	"bloomkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func deliveredOrder(userID string) *model.Order {
	return &model.Order{
		ID:     uuid.New(),
		UserID: userID,
		Items: []model.OrderItem{
			{ProductID: "P001", Name: "Monstera", UnitPrice: decimal.RequireFromString("30.00"), Quantity: 2},
			{ProductID: "P002", Name: "Fiddle Leaf Fig", UnitPrice: decimal.RequireFromString("45.00"), Quantity: 1},
		},
		Subtotal:      decimal.RequireFromString("105.00"),
		TotalDiscount: decimal.Zero,
		FinalAmount:   decimal.RequireFromString("105.00"),
		Status:        model.OrderDelivered,
		UpdatedAt:     time.Now().Add(-48 * time.Hour),
	}
}

func createRequest(orderID uuid.UUID) *model.CreateReturnRequest {
	return &model.CreateReturnRequest{
		OrderID:       orderID,
		Items:         []model.ReturnItem{{ProductID: "P001", Quantity: 1, Reason: "damaged", Condition: "wilted"}},
		Reason:        "arrived damaged",
		Type:          model.ReturnRefund,
		PickupAddress: testAddress(),
	}
}

func TestReturnService_Create(t *testing.T) {
	ctx := context.Background()
	id := Identity{UserID: "user-1"}
	order := deliveredOrder("user-1")

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	mockReturnRepo := new(MockReturnRepository)
	mockReturnRepo.On("ExistsForOrder", ctx, order.ID).Return(false, nil)
	mockReturnRepo.On("Create", ctx, mock.AnythingOfType("*model.ReturnRequest")).Return(nil)

	svc := NewReturnService(mockReturnRepo, mockOrderRepo, zerolog.Nop())

	view, err := svc.Create(ctx, id, createRequest(order.ID))
	require.NoError(t, err)
	assert.Equal(t, model.ReturnRequested, view.Status)
	assert.Equal(t, "Return Requested", view.Display.Label)
	assert.True(t, view.RefundAmount.Equal(decimal.RequireFromString("30.00")))
	mockReturnRepo.AssertExpectations(t)
}

func TestReturnService_Create_RefundScaledByDiscount(t *testing.T) {
	ctx := context.Background()
	order := deliveredOrder("user-1")
	// the order was paid with a 10% discount
	order.TotalDiscount = decimal.RequireFromString("10.50")
	order.FinalAmount = decimal.RequireFromString("94.50")

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	mockReturnRepo := new(MockReturnRepository)
	mockReturnRepo.On("ExistsForOrder", ctx, order.ID).Return(false, nil)
	mockReturnRepo.On("Create", ctx, mock.AnythingOfType("*model.ReturnRequest")).Return(nil)

	svc := NewReturnService(mockReturnRepo, mockOrderRepo, zerolog.Nop())

	view, err := svc.Create(ctx, Identity{UserID: "user-1"}, createRequest(order.ID))
	require.NoError(t, err)
	// 30.00 * 0.9 = 27.00
	assert.True(t, view.RefundAmount.Equal(decimal.RequireFromString("27.00")), "got %s", view.RefundAmount)
}

func TestReturnService_Create_Ineligible(t *testing.T) {
	ctx := context.Background()
	id := Identity{UserID: "user-1"}

	tests := []struct {
		name   string
		prep   func(o *model.Order, returnRepo *MockReturnRepository)
		reason string
	}{
		{
			name: "not delivered",
			prep: func(o *model.Order, _ *MockReturnRepository) {
				o.Status = model.OrderShipped
			},
			reason: "Only delivered orders can be returned",
		},
		{
			name: "window closed",
			prep: func(o *model.Order, _ *MockReturnRepository) {
				o.UpdatedAt = time.Now().Add(-31 * 24 * time.Hour)
			},
			reason: "The 30-day return window for this order has closed",
		},
		{
			name: "return already open",
			prep: func(o *model.Order, returnRepo *MockReturnRepository) {
				returnRepo.On("ExistsForOrder", mock.Anything, o.ID).Return(true, nil)
			},
			reason: "A return request already exists for this order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := deliveredOrder("user-1")
			mockReturnRepo := new(MockReturnRepository)
			tt.prep(order, mockReturnRepo)

			mockOrderRepo := new(MockOrderRepository)
			mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

			svc := NewReturnService(mockReturnRepo, mockOrderRepo, zerolog.Nop())

			_, err := svc.Create(ctx, id, createRequest(order.ID))
			require.Error(t, err)
			var domainErr *model.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, model.ErrCodeNotEligible, domainErr.Code)
			assert.Equal(t, tt.reason, domainErr.Message)
			mockReturnRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestReturnService_Create_TooManyUnits(t *testing.T) {
	ctx := context.Background()
	order := deliveredOrder("user-1")

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	mockReturnRepo := new(MockReturnRepository)
	mockReturnRepo.On("ExistsForOrder", ctx, order.ID).Return(false, nil)

	svc := NewReturnService(mockReturnRepo, mockOrderRepo, zerolog.Nop())

	req := createRequest(order.ID)
	req.Items[0].Quantity = 5 // only 2 were ordered

	_, err := svc.Create(ctx, Identity{UserID: "user-1"}, req)
	require.Error(t, err)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInvalidQuantity, domainErr.Code)
}

func TestReturnService_Update_OnlyWhileRequested(t *testing.T) {
	ctx := context.Background()
	returnID := uuid.New()
	desc := "updated description"

	t.Run("requested can be edited", func(t *testing.T) {
		r := &model.ReturnRequest{ID: returnID, UserID: "user-1", Status: model.ReturnRequested}
		mockReturnRepo := new(MockReturnRepository)
		mockReturnRepo.On("GetByID", ctx, returnID).Return(r, nil)
		mockReturnRepo.On("Update", ctx, r).Return(nil)

		svc := NewReturnService(mockReturnRepo, new(MockOrderRepository), zerolog.Nop())

		view, err := svc.Update(ctx, Identity{UserID: "user-1"}, returnID, &model.UpdateReturnRequest{Description: &desc})
		require.NoError(t, err)
		assert.Equal(t, desc, view.Description)
	})

	t.Run("approved cannot be edited", func(t *testing.T) {
		r := &model.ReturnRequest{ID: returnID, UserID: "user-1", Status: model.ReturnApproved}
		mockReturnRepo := new(MockReturnRepository)
		mockReturnRepo.On("GetByID", ctx, returnID).Return(r, nil)

		svc := NewReturnService(mockReturnRepo, new(MockOrderRepository), zerolog.Nop())

		_, err := svc.Update(ctx, Identity{UserID: "user-1"}, returnID, &model.UpdateReturnRequest{Description: &desc})
		require.Error(t, err)
		mockReturnRepo.AssertNotCalled(t, "Update")
	})
}

func TestReturnService_Cancel(t *testing.T) {
	ctx := context.Background()
	returnID := uuid.New()

	t.Run("approved return cancels", func(t *testing.T) {
		r := &model.ReturnRequest{ID: returnID, UserID: "user-1", Status: model.ReturnApproved}
		mockReturnRepo := new(MockReturnRepository)
		mockReturnRepo.On("GetByID", ctx, returnID).Return(r, nil)
		mockReturnRepo.On("UpdateStatus", ctx, returnID, model.ReturnCancelled).Return(nil)

		svc := NewReturnService(mockReturnRepo, new(MockOrderRepository), zerolog.Nop())

		view, err := svc.Cancel(ctx, Identity{UserID: "user-1"}, returnID)
		require.NoError(t, err)
		assert.Equal(t, model.ReturnCancelled, view.Status)
	})

	t.Run("processing return cannot cancel", func(t *testing.T) {
		r := &model.ReturnRequest{ID: returnID, UserID: "user-1", Status: model.ReturnProcessing}
		mockReturnRepo := new(MockReturnRepository)
		mockReturnRepo.On("GetByID", ctx, returnID).Return(r, nil)

		svc := NewReturnService(mockReturnRepo, new(MockOrderRepository), zerolog.Nop())

		_, err := svc.Cancel(ctx, Identity{UserID: "user-1"}, returnID)
		require.Error(t, err)
		mockReturnRepo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("someone else's return is invisible", func(t *testing.T) {
		r := &model.ReturnRequest{ID: returnID, UserID: "someone-else", Status: model.ReturnRequested}
		mockReturnRepo := new(MockReturnRepository)
		mockReturnRepo.On("GetByID", ctx, returnID).Return(r, nil)

		svc := NewReturnService(mockReturnRepo, new(MockOrderRepository), zerolog.Nop())

		_, err := svc.Cancel(ctx, Identity{UserID: "user-1"}, returnID)
		assert.Equal(t, model.ErrReturnNotFound, err)
	})
}

func TestReturnService_AdminUpdateStatus(t *testing.T) {
	ctx := context.Background()
	returnID := uuid.New()

	t.Run("requested to approved", func(t *testing.T) {
		r := &model.ReturnRequest{ID: returnID, UserID: "user-1", Status: model.ReturnRequested}
		mockReturnRepo := new(MockReturnRepository)
		mockReturnRepo.On("GetByID", ctx, returnID).Return(r, nil)
		mockReturnRepo.On("UpdateStatus", ctx, returnID, model.ReturnApproved).Return(nil)

		svc := NewReturnService(mockReturnRepo, new(MockOrderRepository), zerolog.Nop())

		view, err := svc.AdminUpdateStatus(ctx, returnID, model.ReturnApproved)
		require.NoError(t, err)
		assert.Equal(t, model.ReturnApproved, view.Status)
		assert.Equal(t, "Approved", view.Display.Label)
	})

	t.Run("admin cannot cancel", func(t *testing.T) {
		r := &model.ReturnRequest{ID: returnID, UserID: "user-1", Status: model.ReturnRequested}
		mockReturnRepo := new(MockReturnRepository)
		mockReturnRepo.On("GetByID", ctx, returnID).Return(r, nil)

		svc := NewReturnService(mockReturnRepo, new(MockOrderRepository), zerolog.Nop())

		_, err := svc.AdminUpdateStatus(ctx, returnID, model.ReturnCancelled)
		require.Error(t, err)
		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeInvalidTransition, domainErr.Code)
	})
}

func TestReturnService_CheckEligibility(t *testing.T) {
	ctx := context.Background()
	order := deliveredOrder("user-1")

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	mockReturnRepo := new(MockReturnRepository)
	mockReturnRepo.On("ExistsForOrder", ctx, order.ID).Return(false, nil)

	svc := NewReturnService(mockReturnRepo, mockOrderRepo, zerolog.Nop())

	elig, err := svc.CheckEligibility(ctx, Identity{UserID: "user-1"}, order.ID)
	require.NoError(t, err)
	assert.True(t, elig.Eligible)
	assert.Empty(t, elig.Reason)
}
