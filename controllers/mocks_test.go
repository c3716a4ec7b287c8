package controllers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/smunch/smunch-backend/models"
	"github.com/smunch/smunch-backend/services"
)

type mockOrders struct{ mock.Mock }

func (m *mockOrders) GetFullOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *mockOrders) GetUserByID(ctx context.Context, id uint, fields ...string) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) VerifyPayment(ctx context.Context, order *models.Order) (bool, error) {
	args := m.Called(ctx, order)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendReceiptEmail(ctx context.Context, to string, order *models.Order) error {
	return m.Called(ctx, to, order).Error(0)
}

func (m *mockMailer) SendTestEmail(ctx context.Context, to string) error {
	return m.Called(ctx, to).Error(0)
}

var _ services.PaymentVerifier = (*mockVerifier)(nil)
