package billing

import (
	"errors"
	"fmt"

	"bakery-backend/internal/domain"
	"bakery-backend/internal/models"

	"gorm.io/gorm"
)

// RecordPayment sets the cumulative paid amount on a bill and re-derives its
// payment status. The value is the new total paid, not a delta; repeating the
// same value is a harmless no-op. Amounts above the bill total are rejected
// outright (no clamping), amounts below the current one are accepted as a
// correction -- refunds are not modeled, the audit log is the paper trail.
//
// The write is a compare-and-set on the previously read paid_amount, so two
// concurrent payments cannot silently overwrite each other.
func RecordPayment(db *gorm.DB, billID uint, paidAmount float64) (*models.Bill, error) {
	var bill models.Bill
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bill, billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: bill %d", domain.ErrNotFound, billID)
			}
			return err
		}

		if paidAmount < 0 {
			return fmt.Errorf("%w: paid_amount cannot be negative", domain.ErrValidation)
		}
		if paidAmount > bill.TotalAmount {
			return fmt.Errorf("%w: paid_amount (%.2f) exceeds total_amount (%.2f)",
				domain.ErrValidation, paidAmount, bill.TotalAmount)
		}

		newStatus := models.StatusFor(paidAmount, bill.TotalAmount)

		res := tx.Model(&models.Bill{}).
			Where("id = ? AND paid_amount = ?", bill.ID, bill.PaidAmount).
			Updates(map[string]interface{}{
				"paid_amount":    paidAmount,
				"payment_status": newStatus,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: bill %d was paid concurrently, retry", domain.ErrConflict, bill.ID)
		}

		bill.PaidAmount = paidAmount
		bill.PaymentStatus = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Customer").First(&bill, bill.ID).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

type Filter struct {
	PaymentStatus models.PaymentStatus
	CustomerID    uint
}

func List(db *gorm.DB, f Filter) ([]models.Bill, error) {
	dbq := db.Model(&models.Bill{}).Preload("Customer")
	if f.PaymentStatus != "" {
		dbq = dbq.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.CustomerID != 0 {
		dbq = dbq.Where("customer_id = ?", f.CustomerID)
	}

	var bills []models.Bill
	if err := dbq.Order("date desc, id desc").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func Get(db *gorm.DB, billID uint) (*models.Bill, error) {
	var bill models.Bill
	if err := db.Preload("Customer.Salesperson").Preload("Deliveries.Item").
		First(&bill, billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bill %d", domain.ErrNotFound, billID)
		}
		return nil, err
	}
	return &bill, nil
}
