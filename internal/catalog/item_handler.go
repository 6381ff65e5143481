package catalog

import (
	"fmt"
	"strings"

	"bakery-backend/internal/audit"
	"bakery-backend/internal/database"
	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ItemResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	StockQuantity int     `json:"stock_quantity"`
	IsActive      bool    `json:"is_active"`
}

type CreateItemRequest struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	StockQuantity int     `json:"stock_quantity"`
	IsActive      *bool   `json:"is_active"`
}

type UpdateItemRequest struct {
	Name          *string  `json:"name"`
	Price         *float64 `json:"price"`
	Category      *string  `json:"category"`
	StockQuantity *int     `json:"stock_quantity"`
	IsActive      *bool    `json:"is_active"`
}

func itemResponse(i *models.Item) ItemResponse {
	return ItemResponse{
		ID:            i.ID,
		Name:          i.Name,
		Price:         i.Price,
		Category:      i.Category,
		StockQuantity: i.StockQuantity,
		IsActive:      i.IsActive,
	}
}

// itemHasHistory reports whether the item participates in any financial record.
func itemHasHistory(itemID uint) bool {
	var count int64
	database.DB.Model(&models.Assignment{}).Where("item_id = ?", itemID).Count(&count)
	if count > 0 {
		return true
	}
	database.DB.Model(&models.Delivery{}).Where("item_id = ?", itemID).Count(&count)
	return count > 0
}

// GET /api/items
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.Item
		if err := database.DB.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Items could not be listed")
		}

		res := make([]ItemResponse, 0, len(items))
		for i := range items {
			res = append(res, itemResponse(&items[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/items
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
		}
		if body.StockQuantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stock quantity cannot be negative")
		}

		item := models.Item{
			Name:          body.Name,
			Price:         body.Price,
			Category:      strings.TrimSpace(body.Category),
			StockQuantity: body.StockQuantity,
			IsActive:      true,
		}
		if body.IsActive != nil {
			item.IsActive = *body.IsActive
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Item could not be created, name may already exist")
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "item",
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Item added: %s (Rs. %.2f)", item.Name, item.Price),
			After:       itemResponse(&item),
		})

		return c.Status(fiber.StatusCreated).JSON(itemResponse(&item))
	}
}

// PUT /api/items/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.Item
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := itemResponse(&item)

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			item.Name = name
		}
		if body.Price != nil && *body.Price != item.Price {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
			}
			// existing assignments/deliveries carry their own snapshot, but the
			// listed price is frozen once the item has financial history
			if itemHasHistory(item.ID) {
				return fiber.NewError(fiber.StatusConflict, "Price cannot change once the item has assignments or deliveries")
			}
			item.Price = *body.Price
		}
		if body.Category != nil {
			item.Category = strings.TrimSpace(*body.Category)
		}
		if body.StockQuantity != nil {
			if *body.StockQuantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Stock quantity cannot be negative")
			}
			item.StockQuantity = *body.StockQuantity
		}
		if body.IsActive != nil {
			item.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Item could not be updated")
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "item",
			EntityID:    item.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Item updated: %s", item.Name),
			Before:      before,
			After:       itemResponse(&item),
		})

		return c.JSON(itemResponse(&item))
	}
}

// DELETE /api/items/:id
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.Item
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}

		if itemHasHistory(item.ID) {
			return fiber.NewError(fiber.StatusConflict, "Item has assignments or deliveries and cannot be deleted, deactivate it instead")
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Item could not be deleted")
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "item",
			EntityID:    item.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Item deleted: %s", item.Name),
			Before:      itemResponse(&item),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
