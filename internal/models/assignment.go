package models

import "time"

// Assignment: stock handed to a salesperson for one item on one day.
// (salesperson, item, date) is a natural key; the unique index backs the
// duplicate check done at creation time.
type Assignment struct {
	ID               uint      `gorm:"primaryKey"`
	SalespersonID    uint      `gorm:"uniqueIndex:idx_assignments_natural;not null"`
	Salesperson      Salesperson
	ItemID           uint      `gorm:"uniqueIndex:idx_assignments_natural;not null"`
	Item             Item
	Date             time.Time `gorm:"uniqueIndex:idx_assignments_natural;not null"`
	QuantityAssigned int       `gorm:"not null"`
	QuantityReturned int       `gorm:"not null;default:0"`
	UnitPrice        float64   `gorm:"type:decimal(10,2);not null"` // item price at assignment time
	Revenue          float64   `gorm:"type:decimal(10,2);not null"` // (assigned - returned) * unit_price
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
