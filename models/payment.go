package models

import (
	"time"
)

// Payment status values.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment is a reconciled bank transfer. Rows are written by the
// reconciliation job and only read here.
type Payment struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	OrderID     uint       `json:"order_id" gorm:"index"`
	ReferenceID string     `json:"reference_id" gorm:"type:varchar(64);index"`
	AmountCents int64      `json:"amount_cents"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	PaymentTime *time.Time `json:"payment_time"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
