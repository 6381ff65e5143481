package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"bakery-backend/internal/assignment"
	"bakery-backend/internal/billing"
	"bakery-backend/internal/database"
	"bakery-backend/internal/delivery"
	"bakery-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedSalesperson(t *testing.T, db *gorm.DB, name, vehicle string) models.Salesperson {
	t.Helper()
	sp := models.Salesperson{Name: name, VehicleNumber: vehicle, IsActive: true}
	require.NoError(t, db.Create(&sp).Error)
	return sp
}

func seedItem(t *testing.T, db *gorm.DB, name string, price float64) models.Item {
	t.Helper()
	item := models.Item{Name: name, Price: price, IsActive: true}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailySalesOrdering(t *testing.T) {
	db := newTestDB(t)
	bread := seedItem(t, db, "Bread", 100)

	kamal := seedSalesperson(t, db, "Kamal", "WP-1111")
	nimal := seedSalesperson(t, db, "Nimal", "WP-2222")
	sunil := seedSalesperson(t, db, "Sunil", "WP-3333")
	date := day(2025, 12, 9)

	// kamal 3000, nimal 5000, sunil 3000 (ties with kamal)
	_, err := assignment.Create(db, kamal.ID, date, []assignment.Line{{ItemID: bread.ID, QuantityAssigned: 30}})
	require.NoError(t, err)
	_, err = assignment.Create(db, nimal.ID, date, []assignment.Line{{ItemID: bread.ID, QuantityAssigned: 50}})
	require.NoError(t, err)
	_, err = assignment.Create(db, sunil.ID, date, []assignment.Line{{ItemID: bread.ID, QuantityAssigned: 30}})
	require.NoError(t, err)

	rows, overall, err := DailySales(db, date)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 11000.0, overall)

	// revenue descending, lower id first on ties
	assert.Equal(t, nimal.ID, rows[0].Salesperson.ID)
	assert.Equal(t, 5000.0, rows[0].TotalRevenue)
	assert.Equal(t, kamal.ID, rows[1].Salesperson.ID)
	assert.Equal(t, sunil.ID, rows[2].Salesperson.ID)
	assert.Equal(t, rows[1].TotalRevenue, rows[2].TotalRevenue)
}

func TestDailySalesScopesByDate(t *testing.T) {
	db := newTestDB(t)
	bread := seedItem(t, db, "Bread", 100)
	sp := seedSalesperson(t, db, "Kamal", "WP-1111")

	_, err := assignment.Create(db, sp.ID, day(2025, 12, 9), []assignment.Line{{ItemID: bread.ID, QuantityAssigned: 10}})
	require.NoError(t, err)
	_, err = assignment.Create(db, sp.ID, day(2025, 12, 10), []assignment.Line{{ItemID: bread.ID, QuantityAssigned: 99}})
	require.NoError(t, err)

	rows, overall, err := DailySales(db, day(2025, 12, 9))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1000.0, overall)

	t.Run("empty day", func(t *testing.T) {
		rows, overall, err := DailySales(db, day(2025, 12, 25))
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Zero(t, overall)
	})
}

func TestUnpaidDebts(t *testing.T) {
	db := newTestDB(t)
	bread := seedItem(t, db, "Bread", 100)
	sp := seedSalesperson(t, db, "Kamal", "WP-1111")

	newBill := func(name string, qty int) models.Bill {
		cu := models.Customer{SalespersonID: sp.ID, Name: name, IsActive: true}
		require.NoError(t, db.Create(&cu).Error)
		_, err := delivery.Create(db, cu.ID, day(2025, 12, 9), []delivery.Line{
			{ItemID: bread.ID, QuantityDelivered: qty},
		})
		require.NoError(t, err)
		bill, err := billing.Generate(db, cu.ID, day(2025, 12, 9))
		require.NoError(t, err)
		return *bill
	}

	unpaid := newBill("Silva Stores", 10)   // 1000, nothing paid
	partial := newBill("Perera Hotel", 20)  // 2000, 500 paid
	settled := newBill("Fernando Cafe", 30) // 3000, fully paid

	_, err := billing.RecordPayment(db, partial.ID, 500)
	require.NoError(t, err)
	_, err = billing.RecordPayment(db, settled.ID, 3000)
	require.NoError(t, err)

	bills, total, err := UnpaidDebts(db)
	require.NoError(t, err)
	require.Len(t, bills, 2, "settled bills stay out of the debt report")

	assert.Equal(t, 1000.0+1500.0, total)

	ids := []uint{bills[0].ID, bills[1].ID}
	assert.Contains(t, ids, unpaid.ID)
	assert.Contains(t, ids, partial.ID)
	assert.NotContains(t, ids, settled.ID)

	for i := range bills {
		assert.NotEmpty(t, bills[i].Customer.Name)
		assert.Equal(t, "Kamal", bills[i].Customer.Salesperson.Name)
	}
}
