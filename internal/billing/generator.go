// Package billing turns open deliveries into bills and settles them.
//
// The correctness property everything here protects: every delivery is
// attached to exactly one bill, so the sum of bill totals for a customer
// always equals the sum of that customer's delivery totals.
package billing

import (
	"errors"
	"fmt"
	"time"

	"bakery-backend/internal/domain"
	"bakery-backend/internal/models"

	"gorm.io/gorm"
)

// Generate aggregates a customer's unbilled deliveries for a date into one
// bill. The attachment is a compare-and-set: only rows whose bill_id is still
// null get claimed, and losing any row to a concurrent generation aborts the
// whole transaction. A repeat call finds nothing open and fails with
// ErrNoDeliveries -- never a zero-value duplicate bill.
func Generate(db *gorm.DB, customerID uint, date time.Time) (*models.Bill, error) {
	var bill models.Bill
	err := db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: customer %d", domain.ErrNotFound, customerID)
			}
			return err
		}

		var deliveries []models.Delivery
		if err := tx.Where("customer_id = ? AND date = ? AND bill_id IS NULL", customerID, date).
			Order("id asc").
			Find(&deliveries).Error; err != nil {
			return err
		}
		if len(deliveries) == 0 {
			return fmt.Errorf("%w: customer %q has nothing to bill for %s",
				domain.ErrNoDeliveries, customer.Name, date.Format("2006-01-02"))
		}

		total := 0.0
		ids := make([]uint, 0, len(deliveries))
		for _, d := range deliveries {
			total += d.TotalAmount
			ids = append(ids, d.ID)
		}

		bill = models.Bill{
			CustomerID:    customerID,
			Date:          date,
			TotalAmount:   total,
			PaidAmount:    0,
			PaymentStatus: models.PaymentStatusNA,
		}
		if err := tx.Create(&bill).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Delivery{}).
			Where("id IN ? AND bill_id IS NULL", ids).
			Update("bill_id", bill.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("%w: deliveries were billed concurrently", domain.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Customer").Preload("Deliveries.Item").First(&bill, bill.ID).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}
