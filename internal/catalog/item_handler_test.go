package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bakery-backend/internal/database"
	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Handlers read the package-level database.DB, so these tests swap it for an
// in-memory sqlite instance and drive the routes through fiber's test client.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	app := fiber.New()
	app.Get("/items", ListItemsHandler())
	app.Post("/items", CreateItemHandler())
	app.Put("/items/:id", UpdateItemHandler())
	app.Delete("/items/:id", DeleteItemHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestItemCRUD(t *testing.T) {
	app := newTestApp(t)

	code := doJSON(t, app, "POST", "/items", fiber.Map{"name": "Bread", "price": 120.0})
	assert.Equal(t, fiber.StatusCreated, code)

	t.Run("duplicate name rejected", func(t *testing.T) {
		code := doJSON(t, app, "POST", "/items", fiber.Map{"name": "Bread", "price": 100.0})
		assert.Equal(t, fiber.StatusConflict, code)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		code := doJSON(t, app, "POST", "/items", fiber.Map{"name": "  ", "price": 100.0})
		assert.Equal(t, fiber.StatusBadRequest, code)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		code := doJSON(t, app, "POST", "/items", fiber.Map{"name": "Cake", "price": -5.0})
		assert.Equal(t, fiber.StatusBadRequest, code)
	})
}

func TestInactiveFlagPersists(t *testing.T) {
	app := newTestApp(t)

	code := doJSON(t, app, "POST", "/items", fiber.Map{"name": "Seasonal Cake", "price": 250.0, "is_active": false})
	assert.Equal(t, fiber.StatusCreated, code)

	var got models.Item
	require.NoError(t, database.DB.First(&got, "name = ?", "Seasonal Cake").Error)
	assert.False(t, got.IsActive, "an item created inactive must stay inactive")

	// the zero value must survive a direct create too, for every entity
	// carrying the flag
	t.Run("item", func(t *testing.T) {
		item := models.Item{Name: "Retired Bun", Price: 90}
		require.NoError(t, database.DB.Create(&item).Error)
		var reloaded models.Item
		require.NoError(t, database.DB.First(&reloaded, item.ID).Error)
		assert.False(t, reloaded.IsActive)
	})

	t.Run("salesperson", func(t *testing.T) {
		sp := models.Salesperson{Name: "Sunil", VehicleNumber: "WP-9999"}
		require.NoError(t, database.DB.Create(&sp).Error)
		var reloaded models.Salesperson
		require.NoError(t, database.DB.First(&reloaded, sp.ID).Error)
		assert.False(t, reloaded.IsActive)
	})

	t.Run("customer", func(t *testing.T) {
		sp := models.Salesperson{Name: "Kamal", VehicleNumber: "WP-8888", IsActive: true}
		require.NoError(t, database.DB.Create(&sp).Error)
		cu := models.Customer{SalespersonID: sp.ID, Name: "Closed Shop"}
		require.NoError(t, database.DB.Create(&cu).Error)
		var reloaded models.Customer
		require.NoError(t, database.DB.First(&reloaded, cu.ID).Error)
		assert.False(t, reloaded.IsActive)
	})
}

func TestItemDeleteGuard(t *testing.T) {
	app := newTestApp(t)

	item := models.Item{Name: "Bread", Price: 120, IsActive: true}
	require.NoError(t, database.DB.Create(&item).Error)
	unused := models.Item{Name: "Cake", Price: 300, IsActive: true}
	require.NoError(t, database.DB.Create(&unused).Error)

	sp := models.Salesperson{Name: "Kamal", VehicleNumber: "WP-1234", IsActive: true}
	require.NoError(t, database.DB.Create(&sp).Error)
	require.NoError(t, database.DB.Create(&models.Assignment{
		SalespersonID:    sp.ID,
		ItemID:           item.ID,
		Date:             time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC),
		QuantityAssigned: 10,
		UnitPrice:        120,
		Revenue:          1200,
	}).Error)

	// referenced by a financial record: deactivate, never delete
	code := doJSON(t, app, "DELETE", fmt.Sprintf("/items/%d", item.ID), nil)
	assert.Equal(t, fiber.StatusConflict, code)

	var count int64
	database.DB.Model(&models.Item{}).Where("id = ?", item.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	t.Run("unreferenced item deletes fine", func(t *testing.T) {
		code := doJSON(t, app, "DELETE", fmt.Sprintf("/items/%d", unused.ID), nil)
		assert.Equal(t, fiber.StatusNoContent, code)
	})
}

func TestItemPriceFrozenByHistory(t *testing.T) {
	app := newTestApp(t)

	item := models.Item{Name: "Bread", Price: 120, IsActive: true}
	require.NoError(t, database.DB.Create(&item).Error)

	t.Run("price changes before any history", func(t *testing.T) {
		code := doJSON(t, app, "PUT", fmt.Sprintf("/items/%d", item.ID), fiber.Map{"price": 130.0})
		assert.Equal(t, fiber.StatusOK, code)
	})

	sp := models.Salesperson{Name: "Kamal", VehicleNumber: "WP-1234", IsActive: true}
	require.NoError(t, database.DB.Create(&sp).Error)
	cu := models.Customer{SalespersonID: sp.ID, Name: "Silva Stores", IsActive: true}
	require.NoError(t, database.DB.Create(&cu).Error)
	require.NoError(t, database.DB.Create(&models.Delivery{
		CustomerID:        cu.ID,
		ItemID:            item.ID,
		Date:              time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC),
		QuantityDelivered: 5,
		UnitPrice:         130,
		TotalAmount:       650,
	}).Error)

	t.Run("price frozen once delivered", func(t *testing.T) {
		code := doJSON(t, app, "PUT", fmt.Sprintf("/items/%d", item.ID), fiber.Map{"price": 150.0})
		assert.Equal(t, fiber.StatusConflict, code)

		var got models.Item
		require.NoError(t, database.DB.First(&got, item.ID).Error)
		assert.Equal(t, 130.0, got.Price)
	})

	t.Run("non-price fields still editable", func(t *testing.T) {
		code := doJSON(t, app, "PUT", fmt.Sprintf("/items/%d", item.ID), fiber.Map{"is_active": false})
		assert.Equal(t, fiber.StatusOK, code)
	})
}
