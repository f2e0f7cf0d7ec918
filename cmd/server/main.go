package main

import (
	"strings"

	"fluxstock-backend/internal/admin"
	"fluxstock-backend/internal/audit"
	"fluxstock-backend/internal/auth"
	"fluxstock-backend/internal/catalog"
	"fluxstock-backend/internal/config"
	"fluxstock-backend/internal/dashboard"
	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/logger"
	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/purchase"
	"fluxstock-backend/internal/reports"
	"fluxstock-backend/internal/stock"
	"fluxstock-backend/internal/supplier"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	log := logger.Get()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.WithFields(logrus.Fields{"path": c.Path()}).Error("unexpected error: " + err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
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
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin-only routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Post("/settings", admin.UpdateSettingsHandler())

	// Settings read is open to all authenticated users
	protected.Get("/admin/settings", admin.GetSettingsHandler())

	// Writes to the catalog and suppliers need MANAGER or above,
	// destructive actions need ADMIN. Reads are open to all roles.
	managerRoutes := protected.Group("")
	managerRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager))
	adminOnly := protected.Group("")
	adminOnly.Use(auth.RequireRole(models.RoleAdmin))

	// Product catalog
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	managerRoutes.Post("/products", catalog.CreateProductHandler())
	managerRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminOnly.Delete("/products/:id", catalog.ArchiveProductHandler())

	// Suppliers
	protected.Get("/suppliers", supplier.ListHandler())
	protected.Get("/suppliers/:id", supplier.GetHandler())
	managerRoutes.Post("/suppliers", supplier.CreateHandler())
	managerRoutes.Put("/suppliers/:id", supplier.UpdateHandler())
	adminOnly.Delete("/suppliers/:id", supplier.DeleteHandler())

	// Stock ledger
	protected.Post("/stock", stock.RecordMovementHandler())
	protected.Get("/stock/history", stock.HistoryHandler())

	// Purchases
	protected.Post("/purchases", purchase.CreateHandler())
	protected.Get("/purchases", purchase.ListHandler())

	// Dashboard & reports
	protected.Get("/dashboard", dashboard.StatsHandler())
	protected.Get("/reports/purchases", reports.PurchasesHandler())
	protected.Get("/reports/export", reports.ExportInventoryHandler())

	// Audit trail for out-of-band writes
	protected.Get("/audit-logs", audit.ListHandler())

	log.WithFields(logrus.Fields{"port": cfg.HTTPPort}).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
