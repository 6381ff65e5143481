package delivery

import (
	"fmt"
	"strconv"
	"time"

	"bakery-backend/internal/audit"
	"bakery-backend/internal/database"
	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateDeliveryRequest struct {
	CustomerID uint               `json:"customer_id"`
	Date       string             `json:"date"`
	Items      []DeliveryLineBody `json:"items"`
}

type DeliveryLineBody struct {
	ItemID            uint `json:"item_id"`
	QuantityDelivered int  `json:"quantity_delivered"`
	QuantityReturned  *int `json:"quantity_returned"` // optional, defaults to 0
}

type CustomerRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ItemRef struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type DeliveryResponse struct {
	ID                uint         `json:"id"`
	CustomerID        uint         `json:"customer_id"`
	ItemID            uint         `json:"item_id"`
	Date              string       `json:"date"`
	QuantityDelivered int          `json:"quantity_delivered"`
	QuantityReturned  int          `json:"quantity_returned"`
	UnitPrice         float64      `json:"unit_price"`
	TotalAmount       float64      `json:"total_amount"`
	BillID            *uint        `json:"bill_id,omitempty"`
	Customer          *CustomerRef `json:"customer,omitempty"`
	Item              *ItemRef     `json:"item,omitempty"`
}

func deliveryResponse(d *models.Delivery) DeliveryResponse {
	resp := DeliveryResponse{
		ID:                d.ID,
		CustomerID:        d.CustomerID,
		ItemID:            d.ItemID,
		Date:              d.Date.Format("2006-01-02"),
		QuantityDelivered: d.QuantityDelivered,
		QuantityReturned:  d.QuantityReturned,
		UnitPrice:         d.UnitPrice,
		TotalAmount:       d.TotalAmount,
		BillID:            d.BillID,
	}
	if d.Customer.ID != 0 {
		resp.Customer = &CustomerRef{ID: d.Customer.ID, Name: d.Customer.Name}
	}
	if d.Item.ID != 0 {
		resp.Item = &ItemRef{ID: d.Item.ID, Name: d.Item.Name, Price: d.Item.Price}
	}
	return resp
}

// POST /api/deliveries
func CreateDeliveryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDeliveryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
		}

		lines := make([]Line, 0, len(body.Items))
		for _, it := range body.Items {
			line := Line{ItemID: it.ItemID, QuantityDelivered: it.QuantityDelivered}
			if it.QuantityReturned != nil {
				line.QuantityReturned = *it.QuantityReturned
			}
			lines = append(lines, line)
		}

		created, err := Create(database.DB, body.CustomerID, date, lines)
		if err != nil {
			return err
		}

		resp := make([]DeliveryResponse, 0, len(created))
		for i := range created {
			resp = append(resp, deliveryResponse(&created[i]))
		}

		userID, userName := audit.ActorFromCtx(c)
		for i := range created {
			audit.Record(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "delivery",
				EntityID:    created[i].ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Delivered %d x %s to %s (Rs. %.2f)", created[i].QuantityDelivered, created[i].Item.Name, created[i].Customer.Name, created[i].TotalAmount),
				After:       resp[i],
			})
		}

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// GET /api/deliveries?customer_id=...&date=...
func ListDeliveriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f Filter

		if cuStr := c.Query("customer_id"); cuStr != "" {
			cuID, err := strconv.ParseUint(cuStr, 10, 32)
			if err != nil || cuID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "customer_id is invalid")
			}
			f.CustomerID = uint(cuID)
		}
		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
			}
			f.Date = &d
		}

		deliveries, err := List(database.DB, f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Deliveries could not be listed")
		}

		resp := make([]DeliveryResponse, 0, len(deliveries))
		for i := range deliveries {
			resp = append(resp, deliveryResponse(&deliveries[i]))
		}
		return c.JSON(resp)
	}
}
