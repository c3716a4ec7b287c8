package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smunch/smunch-backend/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUserNotFound  = errors.New("user not found")
)

// OrderStore is the order and user data access used by the payment flow.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// GetFullOrderByID loads an order with its line items and menu names.
func (s *OrderStore) GetFullOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.MenuItem").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return &order, nil
}

// GetUserByID loads a user. When fields are given only those columns (plus id)
// are selected; the rest of the struct stays zero.
func (s *OrderStore) GetUserByID(ctx context.Context, id uint, fields ...string) (*models.User, error) {
	q := s.db.WithContext(ctx)
	if len(fields) > 0 {
		q = q.Select(append([]string{"id"}, fields...))
	}

	var user models.User
	err := q.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

// ListUnpaidOrders returns pending orders delivering after since that have not
// had their final call yet, with customer and items preloaded.
func (s *OrderStore) ListUnpaidOrders(ctx context.Context, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.MenuItem").
		Where("status = ? AND final_call_sent_at IS NULL", models.OrderStatusPendingPayment).
		Where("delivery_time > ?", since).
		Order("delivery_time").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list unpaid orders: %w", err)
	}
	return orders, nil
}

// MarkReminderSent records that a reminder of the given kind went out.
func (s *OrderStore) MarkReminderSent(ctx context.Context, orderID uint, kind ReminderKind, at time.Time) error {
	column := "reminder_sent_at"
	if kind == ReminderFinalCall {
		column = "final_call_sent_at"
	}
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update(column, at).Error
	if err != nil {
		return fmt.Errorf("mark %s for order %d: %w", kind, orderID, err)
	}
	return nil
}
