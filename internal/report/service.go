// Package report builds read-only projections over assignments and bills.
// Nothing here mutates state.
package report

import (
	"sort"
	"time"

	"bakery-backend/internal/models"

	"gorm.io/gorm"
)

type SalesRow struct {
	Salesperson  models.Salesperson
	TotalRevenue float64
}

// DailySales groups assignment revenue by salesperson for one date. Rows are
// ordered by revenue descending with salesperson id ascending as tie-break,
// so pagination and printed reports are stable.
func DailySales(db *gorm.DB, date time.Time) ([]SalesRow, float64, error) {
	type agg struct {
		SalespersonID uint
		TotalRevenue  float64
	}

	var sums []agg
	if err := db.Model(&models.Assignment{}).
		Select("salesperson_id, SUM(revenue) AS total_revenue").
		Where("date = ?", date).
		Group("salesperson_id").
		Scan(&sums).Error; err != nil {
		return nil, 0, err
	}
	if len(sums) == 0 {
		return []SalesRow{}, 0, nil
	}

	ids := make([]uint, 0, len(sums))
	for _, s := range sums {
		ids = append(ids, s.SalespersonID)
	}

	var people []models.Salesperson
	if err := db.Where("id IN ?", ids).Find(&people).Error; err != nil {
		return nil, 0, err
	}
	byID := make(map[uint]models.Salesperson, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}

	rows := make([]SalesRow, 0, len(sums))
	overall := 0.0
	for _, s := range sums {
		rows = append(rows, SalesRow{Salesperson: byID[s.SalespersonID], TotalRevenue: s.TotalRevenue})
		overall += s.TotalRevenue
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalRevenue != rows[j].TotalRevenue {
			return rows[i].TotalRevenue > rows[j].TotalRevenue
		}
		return rows[i].Salesperson.ID < rows[j].Salesperson.ID
	})

	return rows, overall, nil
}

// UnpaidDebts lists every bill that is not fully paid, with the sum of their
// outstanding balances.
func UnpaidDebts(db *gorm.DB) ([]models.Bill, float64, error) {
	var bills []models.Bill
	if err := db.Preload("Customer.Salesperson").
		Where("payment_status <> ?", models.PaymentStatusOK).
		Order("date asc, id asc").
		Find(&bills).Error; err != nil {
		return nil, 0, err
	}

	total := 0.0
	for i := range bills {
		total += bills[i].OutstandingBalance()
	}
	return bills, total, nil
}
