package models

import "time"

// Customer belongs to exactly one salesperson at a time. Reassignment is a
// plain field update; historical assignments and bills keep their old rows.
type Customer struct {
	ID            uint `gorm:"primaryKey"`
	SalespersonID uint `gorm:"index;not null"`
	Salesperson   Salesperson
	Name          string `gorm:"size:100;not null"`
	Phone         string `gorm:"size:20"`
	Address       string `gorm:"size:255"`
	Location      string `gorm:"size:100"` // route stop / area label
	IsActive      bool   `gorm:"not null"` // no column default, see Item.IsActive
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
