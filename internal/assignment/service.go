// Package assignment implements daily stock assignments to salespeople.
// Assignment revenue is always (assigned - returned) * the unit price
// snapshotted at creation; later item price changes never touch it.
package assignment

import (
	"errors"
	"fmt"
	"time"

	"bakery-backend/internal/domain"
	"bakery-backend/internal/models"

	"gorm.io/gorm"
)

type Line struct {
	ItemID           uint
	QuantityAssigned int
}

func revenue(assigned, returned int, unitPrice float64) float64 {
	return float64(assigned-returned) * unitPrice
}

// Create records one assignment per line inside a single transaction: either
// every line commits or none does. The (salesperson, item, date) natural key
// is checked here and backed by the unique index, so a concurrent insert of
// the same key surfaces as ErrDuplicate instead of a second row.
func Create(db *gorm.DB, salespersonID uint, date time.Time, lines []Line) ([]models.Assignment, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one item line is required", domain.ErrValidation)
	}

	var created []models.Assignment
	err := db.Transaction(func(tx *gorm.DB) error {
		var sp models.Salesperson
		if err := tx.First(&sp, salespersonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: salesperson %d", domain.ErrNotFound, salespersonID)
			}
			return err
		}
		if !sp.IsActive {
			return fmt.Errorf("%w: salesperson %q is inactive", domain.ErrValidation, sp.Name)
		}

		for _, line := range lines {
			if line.QuantityAssigned < 0 {
				return fmt.Errorf("%w: quantity_assigned cannot be negative", domain.ErrValidation)
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

			var count int64
			if err := tx.Model(&models.Assignment{}).
				Where("salesperson_id = ? AND item_id = ? AND date = ?", salespersonID, line.ItemID, date).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("%w: assignment for item %q on %s already exists",
					domain.ErrDuplicate, item.Name, date.Format("2006-01-02"))
			}

			a := models.Assignment{
				SalespersonID:    salespersonID,
				ItemID:           item.ID,
				Date:             date,
				QuantityAssigned: line.QuantityAssigned,
				QuantityReturned: 0,
				UnitPrice:        item.Price, // snapshot
				Revenue:          revenue(line.QuantityAssigned, 0, item.Price),
			}
			// TODO: decrement item.StockQuantity here once depot-side stock
			// tracking goes live; it must stay inside this transaction.
			if err := tx.Create(&a).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: assignment for item %q on %s already exists",
						domain.ErrDuplicate, item.Name, date.Format("2006-01-02"))
				}
				return err
			}

			a.Item = item
			a.Salesperson = sp
			created = append(created, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RecordReturn sets the cumulative returned quantity and recomputes revenue.
// Re-submitting the same value is a no-op that yields the same state.
func RecordReturn(db *gorm.DB, id uint, quantityReturned int) (*models.Assignment, error) {
	var out models.Assignment
	err := db.Transaction(func(tx *gorm.DB) error {
		var a models.Assignment
		if err := tx.First(&a, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: assignment %d", domain.ErrNotFound, id)
			}
			return err
		}

		if quantityReturned < 0 {
			return fmt.Errorf("%w: quantity_returned cannot be negative", domain.ErrValidation)
		}
		if quantityReturned > a.QuantityAssigned {
			return fmt.Errorf("%w: quantity_returned (%d) exceeds quantity_assigned (%d)",
				domain.ErrValidation, quantityReturned, a.QuantityAssigned)
		}

		a.QuantityReturned = quantityReturned
		a.Revenue = revenue(a.QuantityAssigned, a.QuantityReturned, a.UnitPrice)

		if err := tx.Save(&a).Error; err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Item").Preload("Salesperson").First(&out, out.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Filter narrows List; zero values mean "no filter".
type Filter struct {
	SalespersonID uint
	Date          *time.Time
}

func List(db *gorm.DB, f Filter) ([]models.Assignment, error) {
	dbq := db.Model(&models.Assignment{}).Preload("Item").Preload("Salesperson")
	if f.SalespersonID != 0 {
		dbq = dbq.Where("salesperson_id = ?", f.SalespersonID)
	}
	if f.Date != nil {
		dbq = dbq.Where("date = ?", *f.Date)
	}

	var assignments []models.Assignment
	if err := dbq.Order("date desc, id asc").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// DailyReport returns one salesperson's assignments for a date plus their
// revenue total. An empty day is a valid report, not an error.
func DailyReport(db *gorm.DB, salespersonID uint, date time.Time) ([]models.Assignment, float64, error) {
	var assignments []models.Assignment
	if err := db.Preload("Item").Preload("Salesperson").
		Where("salesperson_id = ? AND date = ?", salespersonID, date).
		Order("id asc").
		Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	total := 0.0
	for _, a := range assignments {
		total += a.Revenue
	}
	return assignments, total, nil
}
