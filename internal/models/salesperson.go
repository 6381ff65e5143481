package models

import "time"

type Salesperson struct {
	ID            uint   `gorm:"primaryKey"`
	VehicleNumber string `gorm:"size:20;not null;unique"`
	Name          string `gorm:"size:100;not null"`
	Phone         string `gorm:"size:20"`
	IsActive      bool   `gorm:"not null"` // no column default, see Item.IsActive
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Customers []Customer
}
