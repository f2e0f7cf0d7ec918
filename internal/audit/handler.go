package audit

import (
	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/logger"
	"fluxstock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=product&entity_id=3
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.AuditLog{}).
			Order("created_at DESC, id DESC").
			Limit(200)

		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}
		if eid := c.QueryInt("entity_id"); eid > 0 {
			q = q.Where("entity_id = ?", eid)
		}

		var logs []models.AuditLog
		if err := q.Find(&logs).Error; err != nil {
			logger.LogError("audit", "ListHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load audit logs")
		}

		return c.JSON(logs)
	}
}
