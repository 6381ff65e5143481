// Package delivery records stock handed to customers. Deliveries are the
// billable unit: rows stay open (bill_id null) until bill generation claims
// them, after which they are frozen.
//
// Unlike assignments there is no (customer, item, date) uniqueness. A second
// delivery of the same item on the same day is a legitimate re-delivery and
// bill generation sums all open rows for the date.
package delivery

import (
	"errors"
	"fmt"
	"time"

	"bakery-backend/internal/domain"
	"bakery-backend/internal/models"

	"gorm.io/gorm"
)

type Line struct {
	ItemID            uint
	QuantityDelivered int
	QuantityReturned  int // cumulative at drop-off, defaults to 0
}

// Create records one delivery per line in a single transaction, snapshotting
// the item price into each row. All lines commit or none do.
func Create(db *gorm.DB, customerID uint, date time.Time, lines []Line) ([]models.Delivery, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one item line is required", domain.ErrValidation)
	}

	var created []models.Delivery
	err := db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: customer %d", domain.ErrNotFound, customerID)
			}
			return err
		}
		if !customer.IsActive {
			return fmt.Errorf("%w: customer %q is inactive", domain.ErrValidation, customer.Name)
		}

		for _, line := range lines {
			if line.QuantityDelivered < 0 {
				return fmt.Errorf("%w: quantity_delivered cannot be negative", domain.ErrValidation)
			}
			if line.QuantityReturned < 0 {
				return fmt.Errorf("%w: quantity_returned cannot be negative", domain.ErrValidation)
			}
			if line.QuantityReturned > line.QuantityDelivered {
				return fmt.Errorf("%w: quantity_returned (%d) exceeds quantity_delivered (%d)",
					domain.ErrValidation, line.QuantityReturned, line.QuantityDelivered)
			}

			var item models.Item
			if err := tx.First(&item, line.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: item %d does not exist", domain.ErrValidation, line.ItemID)
				}
				return err
			}
			if !item.IsActive {
				return fmt.Errorf("%w: item %q is inactive", domain.ErrValidation, item.Name)
			}

			d := models.Delivery{
				CustomerID:        customerID,
				ItemID:            item.ID,
				Date:              date,
				QuantityDelivered: line.QuantityDelivered,
				QuantityReturned:  line.QuantityReturned,
				UnitPrice:         item.Price, // snapshot
				TotalAmount:       float64(line.QuantityDelivered-line.QuantityReturned) * item.Price,
			}
			if err := tx.Create(&d).Error; err != nil {
				return err
			}

			d.Item = item
			d.Customer = customer
			created = append(created, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type Filter struct {
	CustomerID uint
	Date       *time.Time
}

func List(db *gorm.DB, f Filter) ([]models.Delivery, error) {
	dbq := db.Model(&models.Delivery{}).Preload("Item").Preload("Customer")
	if f.CustomerID != 0 {
		dbq = dbq.Where("customer_id = ?", f.CustomerID)
	}
	if f.Date != nil {
		dbq = dbq.Where("date = ?", *f.Date)
	}

	var deliveries []models.Delivery
	if err := dbq.Order("date desc, id asc").Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}
