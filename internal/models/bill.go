package models

import "time"

type PaymentStatus string

const (
	PaymentStatusNA      PaymentStatus = "N/A"     // nothing paid yet
	PaymentStatusPartial PaymentStatus = "Partial" // 0 < paid < total
	PaymentStatusOK      PaymentStatus = "OK"      // paid >= total
)

// Bill aggregates a customer's unbilled deliveries for one date. TotalAmount
// is fixed at generation; only PaidAmount (and the derived status) moves
// afterwards. Invariant: 0 <= PaidAmount <= TotalAmount.
type Bill struct {
	ID            uint `gorm:"primaryKey"`
	CustomerID    uint `gorm:"index;not null"`
	Customer      Customer
	Date          time.Time     `gorm:"index;not null"`
	TotalAmount   float64       `gorm:"type:decimal(10,2);not null"`
	PaidAmount    float64       `gorm:"type:decimal(10,2);not null;default:0"`
	PaymentStatus PaymentStatus `gorm:"size:10;not null;default:'N/A';index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Deliveries []Delivery `gorm:"foreignKey:BillID"`
}

// OutstandingBalance is derived, never stored.
func (b *Bill) OutstandingBalance() float64 {
	return b.TotalAmount - b.PaidAmount
}

// StatusFor derives the payment status from a cumulative paid amount.
func StatusFor(paid, total float64) PaymentStatus {
	switch {
	case paid <= 0:
		return PaymentStatusNA
	case paid >= total:
		return PaymentStatusOK
	default:
		return PaymentStatusPartial
	}
}
