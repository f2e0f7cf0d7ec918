package admin

import (
	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/logger"
	"fluxstock-backend/internal/settings"
	"fluxstock-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type UpdateSettingsRequest struct {
	SiteName           string `json:"site_name" validate:"required,min=1"`
	Currency           string `json:"currency" validate:"required,min=1"`
	LowStockThreshold  int    `json:"low_stock_threshold" validate:"gte=0"`
	AllowNegativeStock bool   `json:"allow_negative_stock"`
}

// GET /api/admin/settings
func GetSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := settings.Get(database.DB)
		if err != nil {
			logger.LogError("admin", "GetSettingsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load settings")
		}
		return c.JSON(s)
	}
}

// POST /api/admin/settings (ADMIN only)
func UpdateSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateSettingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s, err := settings.Get(database.DB)
		if err != nil {
			logger.LogError("admin", "UpdateSettingsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load settings")
		}

		s.SiteName = body.SiteName
		s.Currency = body.Currency
		s.LowStockThreshold = body.LowStockThreshold
		s.AllowNegativeStock = body.AllowNegativeStock

		if err := database.DB.Save(s).Error; err != nil {
			logger.LogError("admin", "UpdateSettingsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save settings")
		}

		return c.JSON(s)
	}
}
