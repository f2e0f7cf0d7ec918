package purchase

import (
	"time"

	"fluxstock-backend/internal/auth"
	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/stock"
	"fluxstock-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ItemRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitCost  float64 `json:"unit_cost" validate:"gte=0"`
}

type PaymentRequest struct {
	Amount    float64 `json:"amount" validate:"gte=0"`
	Method    string  `json:"method" validate:"required,oneof=CASH TRANSFER POS MOBILE_MONEY CREDIT_CARD DEBIT_CARD CHEQUE OTHER"`
	Reference string  `json:"reference"`
	BankName  string  `json:"bank_name"`
}

type CreatePurchaseRequest struct {
	SupplierID    uint             `json:"supplier_id" validate:"required"`
	InvoiceNumber string           `json:"invoice_number"`
	PurchaseDate  string           `json:"purchase_date"` // "2006-01-02", optional
	Items         []ItemRequest    `json:"items" validate:"required,min=1,dive"`
	Payments      []PaymentRequest `json:"payments" validate:"dive"`
	Discount      float64          `json:"discount" validate:"gte=0"`
	Tax           float64          `json:"tax" validate:"gte=0"`
	Notes         string           `json:"notes"`
}

// POST /api/purchases
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var purchaseDate time.Time
		if body.PurchaseDate != "" {
			purchaseDate, err = time.Parse("2006-01-02", body.PurchaseDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "purchase_date must be 'YYYY-MM-DD'")
			}
		}

		in := CreateInput{
			SupplierID:    body.SupplierID,
			UserID:        userID,
			InvoiceNumber: body.InvoiceNumber,
			PurchaseDate:  purchaseDate,
			Discount:      decimal.NewFromFloat(body.Discount),
			Tax:           decimal.NewFromFloat(body.Tax),
			Notes:         body.Notes,
		}
		for _, item := range body.Items {
			in.Items = append(in.Items, ItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitCost:  decimal.NewFromFloat(item.UnitCost),
			})
		}
		for _, p := range body.Payments {
			in.Payments = append(in.Payments, PaymentInput{
				Amount:    decimal.NewFromFloat(p.Amount),
				Method:    models.PaymentMethod(p.Method),
				Reference: p.Reference,
				BankName:  p.BankName,
			})
		}

		purchase, err := Create(database.DB, in)
		if err != nil {
			return stock.HTTPError("purchase", "CreateHandler", err)
		}

		return c.Status(fiber.StatusCreated).JSON(purchase)
	}
}

// GET /api/purchases
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		purchases, err := List(database.DB)
		if err != nil {
			return stock.HTTPError("purchase", "ListHandler", err)
		}
		return c.JSON(purchases)
	}
}
