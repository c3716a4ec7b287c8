package models

import (
	"time"
)

// Order status values.
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusCancelled      = "cancelled"
)

type Order struct {
	ID               uint        `gorm:"primaryKey" json:"order_id"`
	CustomerID       uint        `gorm:"not null;index" json:"customer_id"`
	Customer         *User       `gorm:"foreignKey:CustomerID" json:"-"`
	Status           string      `gorm:"type:varchar(20);not null;default:'pending_payment'" json:"status"`
	TotalAmountCents int64       `gorm:"not null;default:0" json:"total_amount_cents"`
	DeliveryFeeCents int64       `gorm:"not null;default:0" json:"delivery_fee_cents"`
	DeliveryTime     time.Time   `gorm:"not null;index" json:"delivery_time"`
	Building         string      `gorm:"type:varchar(100)" json:"building"`
	RoomType         string      `gorm:"type:varchar(50)" json:"room_type"`
	RoomNumber       string      `gorm:"type:varchar(20)" json:"room_number"`
	Items            []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	ReminderSentAt   *time.Time  `json:"reminder_sent_at,omitempty"`
	FinalCallSentAt  *time.Time  `json:"final_call_sent_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	// Attached while confirming a payment; never stored.
	PaymentReference string `gorm:"-" json:"payment_reference,omitempty"`
}

// DeliveryLocation is the human readable drop-off point, e.g. "SCIS SR 2-2".
func (o *Order) DeliveryLocation() string {
	return o.Building + " " + o.RoomType + " " + o.RoomNumber
}

// ItemsTotalCents sums quantity x unit price over all line items.
func (o *Order) ItemsTotalCents() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.LineTotalCents()
	}
	return total
}

// ComputedTotalCents is what TotalAmountCents should hold for a consistent order.
func (o *Order) ComputedTotalCents() int64 {
	return o.ItemsTotalCents() + o.DeliveryFeeCents
}
