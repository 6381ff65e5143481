package models

import "time"

// Delivery: stock handed to a customer, the billable unit. No natural-key
// uniqueness here -- the same item can be delivered to the same customer
// twice in a day (re-delivery) and bill generation simply sums the rows.
// Once BillID is set the row is frozen.
type Delivery struct {
	ID                uint `gorm:"primaryKey"`
	CustomerID        uint `gorm:"index;not null"`
	Customer          Customer
	ItemID            uint `gorm:"index;not null"`
	Item              Item
	Date              time.Time `gorm:"index;not null"`
	QuantityDelivered int       `gorm:"not null"`
	QuantityReturned  int       `gorm:"not null;default:0"`
	UnitPrice         float64   `gorm:"type:decimal(10,2);not null"`
	TotalAmount       float64   `gorm:"type:decimal(10,2);not null"` // (delivered - returned) * unit_price
	BillID            *uint     `gorm:"index"`                       // nil until picked up by bill generation
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
