package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/smunch/smunch-backend/models"
)

// PaymentVerifier decides whether the transfer for an order has arrived.
// The order's PaymentReference is attached before VerifyPayment is called.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, order *models.Order) (bool, error)
}

// StubVerifier accepts every payment. Bank-side verification does not exist
// yet, so this is the default.
type StubVerifier struct{}

func (StubVerifier) VerifyPayment(context.Context, *models.Order) (bool, error) {
	return true, nil
}

// LedgerVerifier checks the payments table for a successful transfer
// carrying the order's reference and covering its total.
type LedgerVerifier struct {
	db *gorm.DB
}

func NewLedgerVerifier(db *gorm.DB) *LedgerVerifier {
	return &LedgerVerifier{db: db}
}

func (v *LedgerVerifier) VerifyPayment(ctx context.Context, order *models.Order) (bool, error) {
	var count int64
	err := v.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("order_id = ? AND reference_id = ? AND status = ? AND amount_cents >= ?",
			order.ID, order.PaymentReference, models.PaymentStatusSuccess, order.TotalAmountCents).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("verify payment for order %d: %w", order.ID, err)
	}
	return count > 0, nil
}

// NewPaymentVerifier picks a verifier by name: "stub" or "ledger".
func NewPaymentVerifier(kind string, db *gorm.DB) (PaymentVerifier, error) {
	switch kind {
	case "", "stub":
		return StubVerifier{}, nil
	case "ledger":
		return NewLedgerVerifier(db), nil
	default:
		return nil, fmt.Errorf("unknown payment verifier %q", kind)
	}
}
