package reports

import (
	"fmt"
	"time"

	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/logger"
	"fluxstock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type SpendingByMethod struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Total         decimal.Decimal      `json:"total"`
}

type SupplierSpending struct {
	SupplierID    uint            `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	PurchaseCount int             `json:"purchase_count"`
	Total         decimal.Decimal `json:"total"`
}

type PurchaseReportRow struct {
	ID            uint            `json:"id"`
	PurchaseDate  string          `json:"purchase_date"`
	SupplierName  string          `json:"supplier_name"`
	UserName      string          `json:"user_name"`
	InvoiceNumber string          `json:"invoice_number"`
	ItemCount     int             `json:"item_count"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	Paid          decimal.Decimal `json:"paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// GET /api/reports/purchases?from=2026-01-01&to=2026-01-31 returns the
// purchases in the window (all time when omitted) plus spending grouped
// by supplier and by payment method. Outstanding balances are reporting
// only, nothing enforces that payments cover the net amount.
func PurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		purchases, err := loadPurchases(from, to)
		if err != nil {
			logger.LogError("reports", "PurchasesHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build purchase report")
		}

		type methodSum struct {
			Method models.PaymentMethod
			Total  decimal.Decimal
		}
		var sums []methodSum
		if err := database.DB.Model(&models.Payment{}).
			Select("method, COALESCE(SUM(amount), 0) AS total").
			Group("method").
			Scan(&sums).Error; err != nil {
			logger.LogError("reports", "PurchasesHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build spending summary")
		}

		summary := make([]SpendingByMethod, 0, len(sums))
		for _, s := range sums {
			summary = append(summary, SpendingByMethod{PaymentMethod: s.Method, Total: s.Total})
		}

		return c.JSON(fiber.Map{
			"transactions":      purchaseRows(purchases),
			"supplier_summary":  supplierSummary(purchases),
			"spending_summary":  summary,
		})
	}
}

func dateRange(c *fiber.Ctx) (from, to time.Time, err error) {
	if v := c.Query("from"); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, fmt.Errorf("from must be 'YYYY-MM-DD'")
		}
	}
	if v := c.Query("to"); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, fmt.Errorf("to must be 'YYYY-MM-DD'")
		}
		// Inclusive end of day.
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// GET /api/reports/export streams the inventory snapshot as XLSX.
func ExportInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			logger.LogError("reports", "ExportInventoryHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		f := excelize.NewFile()
		const sheet = "Sheet1"

		headers := []string{"ID", "Name", "SKU", "Category", "Brand", "Quantity", "Selling Price", "Min Quantity", "Status", "Total Value"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for row, p := range products {
			totalValue := p.SellingPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
			values := []any{
				p.ID, p.Name, p.SKU, string(p.Category), p.Brand,
				p.Quantity, p.SellingPrice.InexactFloat64(), p.MinQuantity,
				string(p.Status), totalValue.InexactFloat64(),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			logger.LogError("reports", "ExportInventoryHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export file")
		}

		filename := fmt.Sprintf("inventory_export_%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.Send(buf.Bytes())
	}
}

func loadPurchases(from, to time.Time) ([]models.Purchase, error) {
	q := database.DB.
		Preload("Supplier").
		Preload("User").
		Preload("Items").
		Preload("Payments").
		Order("purchase_date DESC, id DESC")

	if !from.IsZero() {
		q = q.Where("purchase_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("purchase_date < ?", to)
	}
	if from.IsZero() && to.IsZero() {
		q = q.Limit(50)
	}

	var purchases []models.Purchase
	if err := q.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func purchaseRows(purchases []models.Purchase) []PurchaseReportRow {
	rows := make([]PurchaseReportRow, 0, len(purchases))
	for _, p := range purchases {
		paid := decimal.Zero
		for _, payment := range p.Payments {
			if payment.Status == models.PaymentStatusSuccess {
				paid = paid.Add(payment.Amount)
			}
		}
		rows = append(rows, PurchaseReportRow{
			ID:            p.ID,
			PurchaseDate:  p.PurchaseDate.Format("2006-01-02"),
			SupplierName:  p.Supplier.Name,
			UserName:      p.User.Name,
			InvoiceNumber: p.InvoiceNumber,
			ItemCount:     len(p.Items),
			NetAmount:     p.NetAmount,
			Paid:          paid,
			Outstanding:   p.NetAmount.Sub(paid),
		})
	}
	return rows
}

func supplierSummary(purchases []models.Purchase) []SupplierSpending {
	byID := make(map[uint]*SupplierSpending)
	order := make([]uint, 0)
	for _, p := range purchases {
		s, ok := byID[p.SupplierID]
		if !ok {
			s = &SupplierSpending{
				SupplierID:   p.SupplierID,
				SupplierName: p.Supplier.Name,
				Total:        decimal.Zero,
			}
			byID[p.SupplierID] = s
			order = append(order, p.SupplierID)
		}
		s.PurchaseCount++
		s.Total = s.Total.Add(p.NetAmount)
	}

	summary := make([]SupplierSpending, 0, len(order))
	for _, id := range order {
		summary = append(summary, *byID[id])
	}
	return summary
}
