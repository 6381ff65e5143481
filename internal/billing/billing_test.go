package billing

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"bakery-backend/internal/database"
	"bakery-backend/internal/delivery"
	"bakery-backend/internal/domain"
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

func seedCustomer(t *testing.T, db *gorm.DB, name string) models.Customer {
	t.Helper()
	sp := models.Salesperson{Name: "Kamal", VehicleNumber: "WP-" + name, IsActive: true}
	require.NoError(t, db.Create(&sp).Error)
	cu := models.Customer{SalespersonID: sp.ID, Name: name, Phone: "0111234567", IsActive: true}
	require.NoError(t, db.Create(&cu).Error)
	return cu
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

func TestGenerateBill(t *testing.T) {
	db := newTestDB(t)
	cu := seedCustomer(t, db, "Silva Stores")
	bread := seedItem(t, db, "Bread", 120)
	date := day(2025, 12, 9)

	// two deliveries of 8x120 each for the same customer/date
	for i := 0; i < 2; i++ {
		_, err := delivery.Create(db, cu.ID, date, []delivery.Line{
			{ItemID: bread.ID, QuantityDelivered: 10, QuantityReturned: 2},
		})
		require.NoError(t, err)
	}

	bill, err := Generate(db, cu.ID, date)
	require.NoError(t, err)

	assert.Equal(t, 1920.0, bill.TotalAmount)
	assert.Equal(t, 0.0, bill.PaidAmount)
	assert.Equal(t, models.PaymentStatusNA, bill.PaymentStatus)
	assert.Equal(t, 1920.0, bill.OutstandingBalance())
	assert.Len(t, bill.Deliveries, 2)

	for _, d := range bill.Deliveries {
		require.NotNil(t, d.BillID)
		assert.Equal(t, bill.ID, *d.BillID)
	}
}

func TestGenerateBillExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	cu := seedCustomer(t, db, "Silva Stores")
	bread := seedItem(t, db, "Bread", 120)
	bun := seedItem(t, db, "Fish Bun", 80)
	date := day(2025, 12, 9)

	_, err := delivery.Create(db, cu.ID, date, []delivery.Line{
		{ItemID: bread.ID, QuantityDelivered: 10},
		{ItemID: bun.ID, QuantityDelivered: 20},
	})
	require.NoError(t, err)

	first, err := Generate(db, cu.ID, date)
	require.NoError(t, err)

	// nothing is left to bill, so a repeat call must fail instead of
	// producing an empty duplicate
	_, err = Generate(db, cu.ID, date)
	assert.ErrorIs(t, err, domain.ErrNoDeliveries)

	// a later delivery opens a new billable set for the same date
	_, err = delivery.Create(db, cu.ID, date, []delivery.Line{
		{ItemID: bread.ID, QuantityDelivered: 5},
	})
	require.NoError(t, err)

	second, err := Generate(db, cu.ID, date)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// conservation: sum of bill totals == sum of delivery totals
	var billSum, deliverySum float64
	require.NoError(t, db.Model(&models.Bill{}).Where("customer_id = ?", cu.ID).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&billSum).Error)
	require.NoError(t, db.Model(&models.Delivery{}).Where("customer_id = ?", cu.ID).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&deliverySum).Error)
	assert.Equal(t, deliverySum, billSum)

	// and no delivery is left unattached
	var open int64
	db.Model(&models.Delivery{}).Where("customer_id = ? AND bill_id IS NULL", cu.ID).Count(&open)
	assert.Zero(t, open)
}

func TestGenerateBillNoDeliveries(t *testing.T) {
	db := newTestDB(t)
	cu := seedCustomer(t, db, "Silva Stores")

	_, err := Generate(db, cu.ID, day(2025, 12, 9))
	assert.ErrorIs(t, err, domain.ErrNoDeliveries)

	_, err = Generate(db, 9999, day(2025, 12, 9))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var count int64
	db.Model(&models.Bill{}).Count(&count)
	assert.Zero(t, count, "no zero-value bill may be created")
}

func TestGenerateBillScopesByCustomerAndDate(t *testing.T) {
	db := newTestDB(t)
	cu := seedCustomer(t, db, "Silva Stores")
	other := seedCustomer(t, db, "Perera Hotel")
	bread := seedItem(t, db, "Bread", 120)
	date := day(2025, 12, 9)

	_, err := delivery.Create(db, cu.ID, date, []delivery.Line{{ItemID: bread.ID, QuantityDelivered: 10}})
	require.NoError(t, err)
	_, err = delivery.Create(db, other.ID, date, []delivery.Line{{ItemID: bread.ID, QuantityDelivered: 3}})
	require.NoError(t, err)
	_, err = delivery.Create(db, cu.ID, day(2025, 12, 10), []delivery.Line{{ItemID: bread.ID, QuantityDelivered: 7}})
	require.NoError(t, err)

	bill, err := Generate(db, cu.ID, date)
	require.NoError(t, err)
	assert.Equal(t, 10*120.0, bill.TotalAmount)
	assert.Len(t, bill.Deliveries, 1)
}

func TestRecordPayment(t *testing.T) {
	db := newTestDB(t)
	cu := seedCustomer(t, db, "Silva Stores")
	bread := seedItem(t, db, "Bread", 100)
	date := day(2025, 12, 9)

	_, err := delivery.Create(db, cu.ID, date, []delivery.Line{{ItemID: bread.ID, QuantityDelivered: 10}})
	require.NoError(t, err)
	bill, err := Generate(db, cu.ID, date)
	require.NoError(t, err)
	require.Equal(t, 1000.0, bill.TotalAmount)

	t.Run("partial payment", func(t *testing.T) {
		b, err := RecordPayment(db, bill.ID, 400)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPartial, b.PaymentStatus)
		assert.Equal(t, 600.0, b.OutstandingBalance())
	})

	t.Run("retry with same value is idempotent", func(t *testing.T) {
		b, err := RecordPayment(db, bill.ID, 400)
		require.NoError(t, err)
		assert.Equal(t, 400.0, b.PaidAmount)
		assert.Equal(t, models.PaymentStatusPartial, b.PaymentStatus)
	})

	t.Run("decrease is an accepted correction", func(t *testing.T) {
		b, err := RecordPayment(db, bill.ID, 100)
		require.NoError(t, err)
		assert.Equal(t, 100.0, b.PaidAmount)
		assert.Equal(t, models.PaymentStatusPartial, b.PaymentStatus)
	})

	t.Run("back to zero resets to N/A", func(t *testing.T) {
		b, err := RecordPayment(db, bill.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusNA, b.PaymentStatus)
	})

	t.Run("full payment in one step", func(t *testing.T) {
		b, err := RecordPayment(db, bill.ID, 1000)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusOK, b.PaymentStatus)
		assert.Equal(t, 0.0, b.OutstandingBalance())
	})

	t.Run("missing bill", func(t *testing.T) {
		_, err := RecordPayment(db, 9999, 10)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	db := newTestDB(t)
	cu := seedCustomer(t, db, "Silva Stores")
	bread := seedItem(t, db, "Bread", 100)
	date := day(2025, 12, 9)

	_, err := delivery.Create(db, cu.ID, date, []delivery.Line{{ItemID: bread.ID, QuantityDelivered: 5}})
	require.NoError(t, err)
	bill, err := Generate(db, cu.ID, date)
	require.NoError(t, err)
	require.Equal(t, 500.0, bill.TotalAmount)

	_, err = RecordPayment(db, bill.ID, 200)
	require.NoError(t, err)

	_, err = RecordPayment(db, bill.ID, 600)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = RecordPayment(db, bill.ID, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// rejected calls leave the bill untouched
	var b models.Bill
	require.NoError(t, db.First(&b, bill.ID).Error)
	assert.Equal(t, 200.0, b.PaidAmount)
	assert.Equal(t, models.PaymentStatusPartial, b.PaymentStatus)
	assert.GreaterOrEqual(t, b.PaidAmount, 0.0)
	assert.LessOrEqual(t, b.PaidAmount, b.TotalAmount)
}

func TestBuildPrintData(t *testing.T) {
	db := newTestDB(t)
	cu := seedCustomer(t, db, "Silva Stores")
	bread := seedItem(t, db, "Bread", 120)
	bun := seedItem(t, db, "Fish Bun", 80)
	date := day(2025, 12, 9)

	_, err := delivery.Create(db, cu.ID, date, []delivery.Line{
		{ItemID: bread.ID, QuantityDelivered: 10, QuantityReturned: 2},
		{ItemID: bun.ID, QuantityDelivered: 5},
	})
	require.NoError(t, err)
	bill, err := Generate(db, cu.ID, date)
	require.NoError(t, err)
	_, err = RecordPayment(db, bill.ID, 360)
	require.NoError(t, err)

	data, err := BuildPrintData(db, bill.ID)
	require.NoError(t, err)

	assert.Equal(t, "Silva Stores", data.CustomerName)
	assert.Equal(t, "2025-12-09", data.Date)
	require.Len(t, data.Items, 2)
	assert.Equal(t, "Bread", data.Items[0].ItemName)
	assert.Equal(t, 8, data.Items[0].Quantity)
	assert.Equal(t, 960.0, data.Items[0].LineTotal)
	assert.Equal(t, 1360.0, data.TotalAmount)
	assert.Equal(t, 1000.0, data.OutstandingBalance)

	require.NotEmpty(t, data.ThermalData)
	for _, line := range data.ThermalData {
		assert.Equal(t, "text", line.Type)
	}
}
