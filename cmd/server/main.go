package main

import (
	"strings"

	"bakery-backend/internal/assignment"
	"bakery-backend/internal/audit"
	"bakery-backend/internal/auth"
	"bakery-backend/internal/billing"
	"bakery-backend/internal/catalog"
	"bakery-backend/internal/config"
	"bakery-backend/internal/database"
	"bakery-backend/internal/delivery"
	"bakery-backend/internal/domain"
	"bakery-backend/internal/models"
	"bakery-backend/internal/report"
	"bakery-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.Must(logger.New())
	defer log.Sync() //nolint:errcheck

	database.Init(cfg, log)
	audit.Init(log)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			// engines return domain errors, map them in one place
			if domain.IsDomain(err) {
				return c.Status(domain.StatusCode(err)).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			log.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Post("/logout", auth.LogoutHandler())
	protected.Get("/auth/me", auth.MeHandler())

	// Catalog: items
	protected.Get("/items", catalog.ListItemsHandler())
	protected.Post("/items", catalog.CreateItemHandler())
	protected.Put("/items/:id", catalog.UpdateItemHandler())
	protected.Delete("/items/:id", catalog.DeleteItemHandler())

	// Catalog: salespeople
	protected.Get("/salespeople", catalog.ListSalespeopleHandler())
	protected.Post("/salespeople", catalog.CreateSalespersonHandler())
	protected.Put("/salespeople/:id", catalog.UpdateSalespersonHandler())
	protected.Delete("/salespeople/:id", catalog.DeleteSalespersonHandler())

	// Catalog: customers
	protected.Get("/customers", catalog.ListCustomersHandler())
	protected.Get("/customers/:id", catalog.GetCustomerHandler())
	protected.Post("/customers", catalog.CreateCustomerHandler())
	protected.Put("/customers/:id", catalog.UpdateCustomerHandler())
	protected.Delete("/customers/:id", catalog.DeleteCustomerHandler())

	// Daily assignments
	protected.Post("/assignments", assignment.CreateAssignmentHandler())
	protected.Get("/assignments", assignment.ListAssignmentsHandler())
	protected.Put("/assignments/:id", assignment.UpdateAssignmentHandler())
	protected.Get("/assignments/salesperson/:id/date/:date", assignment.DailyReportHandler())

	// Deliveries
	protected.Post("/deliveries", delivery.CreateDeliveryHandler())
	protected.Get("/deliveries", delivery.ListDeliveriesHandler())

	// Bills & payments
	protected.Get("/bills", billing.ListBillsHandler())
	protected.Post("/bills/generate", billing.GenerateBillHandler())
	protected.Get("/bills/:id", billing.GetBillHandler())
	protected.Put("/bills/:id/payment", billing.UpdatePaymentHandler())
	protected.Get("/bills/:id/print", billing.PrintBillHandler())

	// Reports
	protected.Get("/reports/sales/daily", report.DailySalesHandler())
	protected.Get("/reports/unpaid", report.UnpaidDebtsHandler())

	// Audit trail (admin only)
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
