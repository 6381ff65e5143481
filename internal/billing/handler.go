package billing

import (
	"fmt"
	"strconv"
	"time"

	"bakery-backend/internal/audit"
	"bakery-backend/internal/database"
	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type GenerateBillRequest struct {
	CustomerID uint   `json:"customer_id"`
	Date       string `json:"date"`
}

type UpdatePaymentRequest struct {
	PaidAmount *float64 `json:"paid_amount"` // new cumulative total, not a delta
}

type CustomerRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type BillResponse struct {
	ID                 uint                 `json:"id"`
	CustomerID         uint                 `json:"customer_id"`
	Date               string               `json:"date"`
	TotalAmount        float64              `json:"total_amount"`
	PaidAmount         float64              `json:"paid_amount"`
	OutstandingBalance float64              `json:"outstanding_balance"`
	PaymentStatus      models.PaymentStatus `json:"payment_status"`
	Customer           *CustomerRef         `json:"customer,omitempty"`
}

func billResponse(b *models.Bill) BillResponse {
	resp := BillResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		Date:               b.Date.Format("2006-01-02"),
		TotalAmount:        b.TotalAmount,
		PaidAmount:         b.PaidAmount,
		OutstandingBalance: b.OutstandingBalance(),
		PaymentStatus:      b.PaymentStatus,
	}
	if b.Customer.ID != 0 {
		resp.Customer = &CustomerRef{ID: b.Customer.ID, Name: b.Customer.Name, Phone: b.Customer.Phone}
	}
	return resp
}

// GET /api/bills?payment_status=...&customer_id=...
func ListBillsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f Filter

		if statusStr := c.Query("payment_status"); statusStr != "" {
			switch models.PaymentStatus(statusStr) {
			case models.PaymentStatusNA, models.PaymentStatusPartial, models.PaymentStatusOK:
				f.PaymentStatus = models.PaymentStatus(statusStr)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "payment_status must be 'N/A', 'Partial' or 'OK'")
			}
		}
		if cuStr := c.Query("customer_id"); cuStr != "" {
			cuID, err := strconv.ParseUint(cuStr, 10, 32)
			if err != nil || cuID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "customer_id is invalid")
			}
			f.CustomerID = uint(cuID)
		}

		bills, err := List(database.DB, f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bills could not be listed")
		}

		resp := make([]BillResponse, 0, len(bills))
		for i := range bills {
			resp = append(resp, billResponse(&bills[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/bills/generate
func GenerateBillHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GenerateBillRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
		}

		bill, err := Generate(database.DB, body.CustomerID, date)
		if err != nil {
			return err
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "bill",
			EntityID:    bill.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Bill generated for %s: Rs. %.2f (%d deliveries)", bill.Customer.Name, bill.TotalAmount, len(bill.Deliveries)),
			After:       billResponse(bill),
		})

		return c.Status(fiber.StatusCreated).JSON(billResponse(bill))
	}
}

// GET /api/bills/:id
func GetBillHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id64, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || id64 == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid bill id")
		}
		id := uint(id64)

		bill, err := Get(database.DB, id)
		if err != nil {
			return err
		}
		return c.JSON(billResponse(bill))
	}
}

// PUT /api/bills/:id/payment
func UpdatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id64, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || id64 == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid bill id")
		}
		id := uint(id64)

		var body UpdatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.PaidAmount == nil {
			return fiber.NewError(fiber.StatusBadRequest, "paid_amount is required")
		}

		before, err := Get(database.DB, id)
		if err != nil {
			return err
		}
		beforeResp := billResponse(before)

		bill, err := RecordPayment(database.DB, id, *body.PaidAmount)
		if err != nil {
			return err
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "bill",
			EntityID:    bill.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Payment recorded for %s: Rs. %.2f of Rs. %.2f (%s)", bill.Customer.Name, bill.PaidAmount, bill.TotalAmount, bill.PaymentStatus),
			Before:      beforeResp,
			After:       billResponse(bill),
		})

		return c.JSON(billResponse(bill))
	}
}

// GET /api/bills/:id/print
func PrintBillHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id64, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || id64 == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid bill id")
		}
		id := uint(id64)

		data, err := BuildPrintData(database.DB, id)
		if err != nil {
			return err
		}
		return c.JSON(data)
	}
}
