package dashboard

import (
	"time"

	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/logger"
	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SalesPoint struct {
	Name  string          `json:"name"` // weekday short name
	Sales decimal.Decimal `json:"sales"`
}

type StatsResponse struct {
	TotalProducts   int64                  `json:"total_products"`
	LowStockCount   int64                  `json:"low_stock_count"`
	RecentActivity  []models.StockMovement `json:"recent_activity"`
	TotalStockValue decimal.Decimal        `json:"total_stock_value"`
	TotalPurchases  decimal.Decimal        `json:"total_purchases"`
	SalesData       []SalesPoint           `json:"sales_data"`
}

// GET /api/dashboard
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg, err := settings.Get(database.DB)
		if err != nil {
			logger.LogError("dashboard", "StatsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load settings")
		}

		var res StatsResponse

		if err := database.DB.Model(&models.Product{}).
			Where("status <> ?", models.ProductArchived).
			Count(&res.TotalProducts).Error; err != nil {
			logger.LogError("dashboard", "StatsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stats")
		}

		if err := database.DB.Model(&models.Product{}).
			Where("status <> ? AND quantity <= ?", models.ProductArchived, cfg.LowStockThreshold).
			Count(&res.LowStockCount).Error; err != nil {
			logger.LogError("dashboard", "StatsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stats")
		}

		if err := database.DB.
			Preload("Product").
			Preload("User").
			Order("created_at DESC, id DESC").
			Limit(5).
			Find(&res.RecentActivity).Error; err != nil {
			logger.LogError("dashboard", "StatsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recent activity")
		}

		var products []models.Product
		if err := database.DB.
			Where("status <> ?", models.ProductArchived).
			Find(&products).Error; err != nil {
			logger.LogError("dashboard", "StatsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}
		res.TotalStockValue = decimal.Zero
		for _, p := range products {
			res.TotalStockValue = res.TotalStockValue.Add(p.SellingPrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
		}

		type netSum struct {
			Total decimal.Decimal
		}
		var sum netSum
		if err := database.DB.Model(&models.Purchase{}).
			Select("COALESCE(SUM(net_amount), 0) AS total").
			Scan(&sum).Error; err != nil {
			logger.LogError("dashboard", "StatsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load purchase totals")
		}
		res.TotalPurchases = sum.Total

		res.SalesData, err = weeklySales(products)
		if err != nil {
			logger.LogError("dashboard", "StatsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sales data")
		}

		return c.JSON(res)
	}
}

// weeklySales estimates sales over the last seven days from OUT
// movements, valued at the product's current selling price.
func weeklySales(products []models.Product) ([]SalesPoint, error) {
	priceByID := make(map[uint]decimal.Decimal, len(products))
	for _, p := range products {
		priceByID[p.ID] = p.SellingPrice
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	var movements []models.StockMovement
	if err := database.DB.
		Where("type = ? AND created_at >= ?", models.MovementOut, weekAgo).
		Find(&movements).Error; err != nil {
		return nil, err
	}

	byDay := make(map[string]decimal.Decimal, 7)
	order := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i).Format("Mon")
		byDay[day] = decimal.Zero
		order = append(order, day)
	}

	for _, m := range movements {
		day := m.CreatedAt.Format("Mon")
		price, ok := priceByID[m.ProductID]
		if !ok {
			continue
		}
		byDay[day] = byDay[day].Add(price.Mul(decimal.NewFromInt(int64(m.Quantity))))
	}

	points := make([]SalesPoint, 0, len(order))
	for _, day := range order {
		points = append(points, SalesPoint{Name: day, Sales: byDay[day]})
	}
	return points, nil
}
