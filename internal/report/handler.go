package report

import (
	"time"

	"bakery-backend/internal/database"
	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SalespersonRef struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	VehicleNumber string `json:"vehicle_number"`
}

type DailySalesRow struct {
	Salesperson  SalespersonRef `json:"salesperson"`
	TotalRevenue float64        `json:"total_revenue"`
}

type DailySalesResponse struct {
	Date           string          `json:"date"`
	OverallRevenue float64         `json:"overall_revenue"`
	Report         []DailySalesRow `json:"report"`
}

type UnpaidCustomerRef struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Salesperson *SalespersonRef `json:"salesperson,omitempty"`
}

type UnpaidBill struct {
	ID                 uint                 `json:"id"`
	Date               string               `json:"date"`
	TotalAmount        float64              `json:"total_amount"`
	PaidAmount         float64              `json:"paid_amount"`
	OutstandingBalance float64              `json:"outstanding_balance"`
	PaymentStatus      models.PaymentStatus `json:"payment_status"`
	Customer           UnpaidCustomerRef    `json:"customer"`
}

type UnpaidDebtsResponse struct {
	TotalUnpaid float64      `json:"total_unpaid"`
	UnpaidBills []UnpaidBill `json:"unpaid_bills"`
}

// GET /api/reports/sales/daily?date=2025-12-09 (defaults to today)
func DailySalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var date time.Time
		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
			}
			date = d
		} else {
			now := time.Now()
			date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}

		rows, overall, err := DailySales(database.DB, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Daily sales report could not be built")
		}

		resp := DailySalesResponse{
			Date:           date.Format("2006-01-02"),
			OverallRevenue: overall,
			Report:         make([]DailySalesRow, 0, len(rows)),
		}
		for _, r := range rows {
			resp.Report = append(resp.Report, DailySalesRow{
				Salesperson: SalespersonRef{
					ID:            r.Salesperson.ID,
					Name:          r.Salesperson.Name,
					VehicleNumber: r.Salesperson.VehicleNumber,
				},
				TotalRevenue: r.TotalRevenue,
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/reports/unpaid
func UnpaidDebtsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bills, total, err := UnpaidDebts(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Unpaid debts report could not be built")
		}

		resp := UnpaidDebtsResponse{
			TotalUnpaid: total,
			UnpaidBills: make([]UnpaidBill, 0, len(bills)),
		}
		for i := range bills {
			b := &bills[i]
			cust := UnpaidCustomerRef{
				ID:    b.Customer.ID,
				Name:  b.Customer.Name,
				Phone: b.Customer.Phone,
			}
			if b.Customer.Salesperson.ID != 0 {
				cust.Salesperson = &SalespersonRef{
					ID:            b.Customer.Salesperson.ID,
					Name:          b.Customer.Salesperson.Name,
					VehicleNumber: b.Customer.Salesperson.VehicleNumber,
				}
			}
			resp.UnpaidBills = append(resp.UnpaidBills, UnpaidBill{
				ID:                 b.ID,
				Date:               b.Date.Format("2006-01-02"),
				TotalAmount:        b.TotalAmount,
				PaidAmount:         b.PaidAmount,
				OutstandingBalance: b.OutstandingBalance(),
				PaymentStatus:      b.PaymentStatus,
				Customer:           cust,
			})
		}
		return c.JSON(resp)
	}
}
