package stock

import (
	"errors"

	"fluxstock-backend/internal/auth"
	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/logger"
	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RecordMovementRequest struct {
	Type        string `json:"type" validate:"required,oneof=IN OUT ADJUST"`
	ProductID   uint   `json:"product_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Reason      string `json:"reason"`
	ReferenceID *uint  `json:"reference_id"`
}

type MovementHistoryItem struct {
	ID             uint                `json:"id"`
	Type           models.MovementType `json:"type"`
	Quantity       int                 `json:"quantity"`
	Reason         string              `json:"reason"`
	ReferenceID    *uint               `json:"reference_id"`
	BeforeQuantity int                 `json:"before_quantity"`
	AfterQuantity  int                 `json:"after_quantity"`
	CreatedAt      string              `json:"created_at"`
	ProductID      uint                `json:"product_id"`
	ProductName    string              `json:"product_name"`
	ProductSKU     string              `json:"product_sku"`
	UserID         uint                `json:"user_id"`
	UserName       string              `json:"user_name"`
}

// POST /api/stock
func RecordMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body RecordMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := RecordMovement(database.DB, MovementInput{
			Type:        models.MovementType(body.Type),
			ProductID:   body.ProductID,
			UserID:      userID,
			Quantity:    body.Quantity,
			Reason:      body.Reason,
			ReferenceID: body.ReferenceID,
		})
		if err != nil {
			return HTTPError("stock", "RecordMovementHandler", err)
		}

		return c.JSON(result)
	}
}

// GET /api/stock/history?type=IN&product_id=3
func HistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.StockMovement{}).
			Preload("Product").
			Preload("User").
			Order("created_at DESC, id DESC").
			Limit(100)

		if t := c.Query("type"); t != "" && t != "ALL" {
			q = q.Where("type = ?", t)
		}
		if pid := c.QueryInt("product_id"); pid > 0 {
			q = q.Where("product_id = ?", pid)
		}

		var movements []models.StockMovement
		if err := q.Find(&movements).Error; err != nil {
			logger.LogError("stock", "HistoryHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stock history")
		}

		items := make([]MovementHistoryItem, 0, len(movements))
		for _, m := range movements {
			items = append(items, MovementHistoryItem{
				ID:             m.ID,
				Type:           m.Type,
				Quantity:       m.Quantity,
				Reason:         m.Reason,
				ReferenceID:    m.ReferenceID,
				BeforeQuantity: m.BeforeQuantity,
				AfterQuantity:  m.AfterQuantity,
				CreatedAt:      m.CreatedAt.Format("2006-01-02 15:04:05"),
				ProductID:      m.ProductID,
				ProductName:    m.Product.Name,
				ProductSKU:     m.Product.SKU,
				UserID:         m.UserID,
				UserName:       m.User.Name,
			})
		}

		return c.JSON(items)
	}
}

// HTTPError maps ledger errors onto HTTP responses. Validation-class
// failures keep their message; anything else is logged server-side and
// returned as an opaque 500.
func HTTPError(module, funcName string, err error) error {
	var vErr *ValidationError
	var stockErr *InsufficientStockError

	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	case errors.As(err, &stockErr):
		return fiber.NewError(fiber.StatusConflict, stockErr.Error())
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		logger.LogError(module, funcName, err, logrus.Fields{"kind": "persistence"})
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}
