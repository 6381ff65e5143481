package models

import "time"

type Item struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"size:100;not null;unique"`
	Price         float64 `gorm:"type:decimal(10,2);not null"` // current selling price; engines snapshot it per transaction
	Category      string  `gorm:"size:50"`                     // bread, bun, cake and so on
	StockQuantity int     `gorm:"not null;default:0"`
	// no column default: GORM drops zero values on insert, and a default:true
	// would silently overwrite an explicit false
	IsActive      bool    `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
