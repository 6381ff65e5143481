package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bakery-backend/internal/audit"
	"bakery-backend/internal/database"
	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CustomerResponse struct {
	ID            uint                 `json:"id"`
	SalespersonID uint                 `json:"salesperson_id"`
	Name          string               `json:"name"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	Location      string               `json:"location"`
	IsActive      bool                 `json:"is_active"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at"`
	Salesperson   *SalespersonResponse `json:"salesperson,omitempty"`
}

type CreateCustomerRequest struct {
	SalespersonID uint   `json:"salesperson_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Location      string `json:"location"`
	IsActive      *bool  `json:"is_active"`
}

type UpdateCustomerRequest struct {
	SalespersonID *uint   `json:"salesperson_id"`
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Location      *string `json:"location"`
	IsActive      *bool   `json:"is_active"`
}

func customerResponse(cu *models.Customer, withSalesperson bool) CustomerResponse {
	resp := CustomerResponse{
		ID:            cu.ID,
		SalespersonID: cu.SalespersonID,
		Name:          cu.Name,
		Phone:         cu.Phone,
		Address:       cu.Address,
		Location:      cu.Location,
		IsActive:      cu.IsActive,
		CreatedAt:     cu.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     cu.UpdatedAt.Format(time.RFC3339),
	}
	if withSalesperson && cu.Salesperson.ID != 0 {
		sp := salespersonResponse(&cu.Salesperson)
		resp.Salesperson = &sp
	}
	return resp
}

func customerHasHistory(customerID uint) bool {
	var count int64
	database.DB.Model(&models.Delivery{}).Where("customer_id = ?", customerID).Count(&count)
	if count > 0 {
		return true
	}
	database.DB.Model(&models.Bill{}).Where("customer_id = ?", customerID).Count(&count)
	return count > 0
}

// GET /api/customers?salesperson_id=...
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Customer{}).Preload("Salesperson")

		if spStr := c.Query("salesperson_id"); spStr != "" {
			spID, err := strconv.ParseUint(spStr, 10, 32)
			if err != nil || spID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "salesperson_id is invalid")
			}
			dbq = dbq.Where("salesperson_id = ?", uint(spID))
		}

		var customers []models.Customer
		if err := dbq.Order("name asc").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Customers could not be listed")
		}

		res := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			res = append(res, customerResponse(&customers[i], true))
		}
		return c.JSON(res)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.Preload("Salesperson").First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		return c.JSON(customerResponse(&customer, true))
	}
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		var sp models.Salesperson
		if err := database.DB.First(&sp, "id = ?", body.SalespersonID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "salesperson_id does not exist")
		}

		customer := models.Customer{
			SalespersonID: sp.ID,
			Name:          body.Name,
			Phone:         strings.TrimSpace(body.Phone),
			Address:       strings.TrimSpace(body.Address),
			Location:      strings.TrimSpace(body.Location),
			IsActive:      true,
		}
		if body.IsActive != nil {
			customer.IsActive = *body.IsActive
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Customer could not be created")
		}
		customer.Salesperson = sp

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "customer",
			EntityID:    customer.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Customer added: %s (route %s)", customer.Name, sp.VehicleNumber),
			After:       customerResponse(&customer, false),
		})

		return c.Status(fiber.StatusCreated).JSON(customerResponse(&customer, true))
	}
}

// PUT /api/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := customerResponse(&customer, false)

		if body.SalespersonID != nil {
			// reassignment is a plain field update, history stays where it is
			var sp models.Salesperson
			if err := database.DB.First(&sp, "id = ?", *body.SalespersonID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "salesperson_id does not exist")
			}
			customer.SalespersonID = sp.ID
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			customer.Name = name
		}
		if body.Phone != nil {
			customer.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Address != nil {
			customer.Address = strings.TrimSpace(*body.Address)
		}
		if body.Location != nil {
			customer.Location = strings.TrimSpace(*body.Location)
		}
		if body.IsActive != nil {
			customer.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Customer could not be updated")
		}

		if err := database.DB.Preload("Salesperson").First(&customer, customer.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Customer could not be reloaded")
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "customer",
			EntityID:    customer.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Customer updated: %s", customer.Name),
			Before:      before,
			After:       customerResponse(&customer, false),
		})

		return c.JSON(customerResponse(&customer, true))
	}
}

// DELETE /api/customers/:id
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		if customerHasHistory(customer.ID) {
			return fiber.NewError(fiber.StatusConflict, "Customer has deliveries or bills and cannot be deleted, deactivate instead")
		}

		if err := database.DB.Delete(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Customer could not be deleted")
		}

		userID, userName := audit.ActorFromCtx(c)
		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "customer",
			EntityID:    customer.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Customer deleted: %s", customer.Name),
			Before:      customerResponse(&customer, false),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
