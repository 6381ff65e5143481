package catalog

import (
	"fmt"
	"strings"

	"bakery-backend/internal/audit"
	"bakery-backend/internal/database"
	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SalespersonResponse struct {
	ID            uint   `json:"id"`
	VehicleNumber string `json:"vehicle_number"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	IsActive      bool   `json:"is_active"`
}

type CreateSalespersonRequest struct {
	VehicleNumber string `json:"vehicle_number"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	IsActive      *bool  `json:"is_active"`
}

type UpdateSalespersonRequest struct {
	VehicleNumber *string `json:"vehicle_number"`
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	IsActive      *bool   `json:"is_active"`
}

func salespersonResponse(s *models.Salesperson) SalespersonResponse {
	return SalespersonResponse{
		ID:            s.ID,
		VehicleNumber: s.VehicleNumber,
		Name:          s.Name,
		Phone:         s.Phone,
		IsActive:      s.IsActive,
	}
}

func salespersonHasHistory(salespersonID uint) bool {
	var count int64
	database.DB.Model(&models.Assignment{}).Where("salesperson_id = ?", salespersonID).Count(&count)
	if count > 0 {
		return true
	}
	database.DB.Model(&models.Customer{}).Where("salesperson_id = ?", salespersonID).Count(&count)
	return count > 0
}

// GET /api/salespeople
func ListSalespeopleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var people []models.Salesperson
		if err := database.DB.Order("name asc").Find(&people).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Salespeople could not be listed")
		}

		res := make([]SalespersonResponse, 0, len(people))
		for i := range people {
			res = append(res, salespersonResponse(&people[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/salespeople
func CreateSalespersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSalespersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.VehicleNumber = strings.TrimSpace(body.VehicleNumber)

		if body.Name == "" || body.VehicleNumber == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name and vehicle number are required")
		}

		sp := models.Salesperson{
			VehicleNumber: body.VehicleNumber,
			Name:          body.Name,
			Phone:         strings.TrimSpace(body.Phone),
			IsActive:      true,
		}
		if body.IsActive != nil {
			sp.IsActive = *body.IsActive
		}

		if err := database.DB.Create(&sp).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Salesperson could not be created, vehicle number may already exist")
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "salesperson",
			EntityID:    sp.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Salesperson added: %s (%s)", sp.Name, sp.VehicleNumber),
			After:       salespersonResponse(&sp),
		})

		return c.Status(fiber.StatusCreated).JSON(salespersonResponse(&sp))
	}
}

// PUT /api/salespeople/:id
func UpdateSalespersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sp models.Salesperson
		if err := database.DB.First(&sp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Salesperson not found")
		}

		var body UpdateSalespersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := salespersonResponse(&sp)

		if body.VehicleNumber != nil {
			vn := strings.TrimSpace(*body.VehicleNumber)
			if vn == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Vehicle number cannot be empty")
			}
			sp.VehicleNumber = vn
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			sp.Name = name
		}
		if body.Phone != nil {
			sp.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.IsActive != nil {
			sp.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&sp).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Salesperson could not be updated, vehicle number may already exist")
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "salesperson",
			EntityID:    sp.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Salesperson updated: %s", sp.Name),
			Before:      before,
			After:       salespersonResponse(&sp),
		})

		return c.JSON(salespersonResponse(&sp))
	}
}

// DELETE /api/salespeople/:id
func DeleteSalespersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sp models.Salesperson
		if err := database.DB.First(&sp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Salesperson not found")
		}

		if salespersonHasHistory(sp.ID) {
			return fiber.NewError(fiber.StatusConflict, "Salesperson has assignments or customers and cannot be deleted, deactivate instead")
		}

		if err := database.DB.Delete(&sp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Salesperson could not be deleted")
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "salesperson",
			EntityID:    sp.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Salesperson deleted: %s", sp.Name),
			Before:      salespersonResponse(&sp),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
