package assignment

import (
	"fmt"
	"strconv"
	"time"

	"bakery-backend/internal/audit"
	"bakery-backend/internal/database"
	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAssignmentRequest struct {
	SalespersonID uint                 `json:"salesperson_id"`
	Date          string               `json:"date"` // "2025-12-09"
	Items         []AssignmentLineBody `json:"items"`
}

type AssignmentLineBody struct {
	ItemID           uint `json:"item_id"`
	QuantityAssigned int  `json:"quantity_assigned"`
}

type UpdateAssignmentRequest struct {
	QuantityReturned *int `json:"quantity_returned"`
}

type ItemRef struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type SalespersonRef struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	VehicleNumber string `json:"vehicle_number"`
}

type AssignmentResponse struct {
	ID               uint            `json:"id"`
	SalespersonID    uint            `json:"salesperson_id"`
	ItemID           uint            `json:"item_id"`
	Date             string          `json:"date"`
	QuantityAssigned int             `json:"quantity_assigned"`
	QuantityReturned int             `json:"quantity_returned"`
	UnitPrice        float64         `json:"unit_price"`
	Revenue          float64         `json:"revenue"`
	Item             *ItemRef        `json:"item,omitempty"`
	Salesperson      *SalespersonRef `json:"salesperson,omitempty"`
}

type DailyReportResponse struct {
	SalespersonID uint                 `json:"salesperson_id"`
	Date          string               `json:"date"`
	Assignments   []AssignmentResponse `json:"assignments"`
	TotalRevenue  float64              `json:"total_revenue"`
}

func assignmentResponse(a *models.Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:               a.ID,
		SalespersonID:    a.SalespersonID,
		ItemID:           a.ItemID,
		Date:             a.Date.Format("2006-01-02"),
		QuantityAssigned: a.QuantityAssigned,
		QuantityReturned: a.QuantityReturned,
		UnitPrice:        a.UnitPrice,
		Revenue:          a.Revenue,
	}
	if a.Item.ID != 0 {
		resp.Item = &ItemRef{ID: a.Item.ID, Name: a.Item.Name, Price: a.Item.Price}
	}
	if a.Salesperson.ID != 0 {
		resp.Salesperson = &SalespersonRef{
			ID:            a.Salesperson.ID,
			Name:          a.Salesperson.Name,
			VehicleNumber: a.Salesperson.VehicleNumber,
		}
	}
	return resp
}

// POST /api/assignments
func CreateAssignmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAssignmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
		}

		lines := make([]Line, 0, len(body.Items))
		for _, it := range body.Items {
			lines = append(lines, Line{ItemID: it.ItemID, QuantityAssigned: it.QuantityAssigned})
		}

		created, err := Create(database.DB, body.SalespersonID, date, lines)
		if err != nil {
			return err
		}

		resp := make([]AssignmentResponse, 0, len(created))
		for i := range created {
			resp = append(resp, assignmentResponse(&created[i]))
		}

		userID, userName := audit.ActorFromCtx(c)
		for i := range created {
			audit.Record(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "assignment",
				EntityID:    created[i].ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Assigned %d x %s to %s", created[i].QuantityAssigned, created[i].Item.Name, created[i].Salesperson.Name),
				After:       resp[i],
			})
		}

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// GET /api/assignments?salesperson_id=...&date=...
func ListAssignmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f Filter

		if spStr := c.Query("salesperson_id"); spStr != "" {
			spID, err := strconv.ParseUint(spStr, 10, 32)
			if err != nil || spID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "salesperson_id is invalid")
			}
			f.SalespersonID = uint(spID)
		}
		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
			}
			f.Date = &d
		}

		assignments, err := List(database.DB, f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assignments could not be listed")
		}

		resp := make([]AssignmentResponse, 0, len(assignments))
		for i := range assignments {
			resp = append(resp, assignmentResponse(&assignments[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/assignments/:id -- records the cumulative returned quantity.
func UpdateAssignmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id64, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || id64 == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid assignment id")
		}
		id := uint(id64)

		var body UpdateAssignmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.QuantityReturned == nil {
			return fiber.NewError(fiber.StatusBadRequest, "quantity_returned is required")
		}

		updated, err := RecordReturn(database.DB, id, *body.QuantityReturned)
		if err != nil {
			return err
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "assignment",
			EntityID:    updated.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Return recorded: %d x %s from %s", updated.QuantityReturned, updated.Item.Name, updated.Salesperson.Name),
			After:       assignmentResponse(updated),
		})

		return c.JSON(assignmentResponse(updated))
	}
}

// GET /api/assignments/salesperson/:id/date/:date
func DailyReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id64, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || id64 == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid salesperson id")
		}
		spID := uint(id64)

		date, err := time.Parse("2006-01-02", c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
		}

		assignments, total, err := DailyReport(database.DB, spID, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Daily report could not be built")
		}

		resp := DailyReportResponse{
			SalespersonID: spID,
			Date:          date.Format("2006-01-02"),
			Assignments:   make([]AssignmentResponse, 0, len(assignments)),
			TotalRevenue:  total,
		}
		for i := range assignments {
			resp.Assignments = append(resp.Assignments, assignmentResponse(&assignments[i]))
		}
		return c.JSON(resp)
	}
}
