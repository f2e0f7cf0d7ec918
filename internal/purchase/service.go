package purchase

import (
	"errors"
	"fmt"
	"time"

	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/settings"
	"fluxstock-backend/internal/stock"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemInput struct {
	ProductID uint
	Quantity  int
	UnitCost  decimal.Decimal
}

type PaymentInput struct {
	Amount    decimal.Decimal
	Method    models.PaymentMethod
	Reference string
	BankName  string
}

type CreateInput struct {
	SupplierID    uint
	UserID        uint
	InvoiceNumber string
	PurchaseDate  time.Time // zero value means "now"
	Items         []ItemInput
	Payments      []PaymentInput
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Notes         string
}

// Create records a supplier acquisition as one atomic unit: the
// purchase header, every line item, one stock-IN movement per line
// item, and every payment. If anything fails, none of it is persisted.
//
// Items are applied strictly in input order: when two items target the
// same product, the second one's before-quantity reflects the first.
func Create(db *gorm.DB, in CreateInput) (*models.Purchase, error) {
	if len(in.Items) == 0 {
		return nil, &stock.ValidationError{Msg: "a purchase needs at least one item"}
	}
	if in.UserID == 0 {
		return nil, &stock.ValidationError{Msg: "acting user is required"}
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, &stock.ValidationError{Msg: fmt.Sprintf("item %d: quantity must be a positive integer", i)}
		}
		if item.UnitCost.IsNegative() {
			return nil, &stock.ValidationError{Msg: fmt.Sprintf("item %d: unit cost cannot be negative", i)}
		}
	}
	for i, p := range in.Payments {
		if p.Amount.IsNegative() {
			return nil, &stock.ValidationError{Msg: fmt.Sprintf("payment %d: amount cannot be negative", i)}
		}
	}
	if in.Discount.IsNegative() || in.Tax.IsNegative() {
		return nil, &stock.ValidationError{Msg: "discount and tax cannot be negative"}
	}

	var supplier models.Supplier
	if err := db.First(&supplier, "id = ?", in.SupplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &stock.ValidationError{Msg: fmt.Sprintf("supplier %d not found", in.SupplierID)}
		}
		return nil, &stock.PersistenceError{Op: "read supplier", Err: err}
	}

	cfg, err := settings.Get(db)
	if err != nil {
		return nil, &stock.PersistenceError{Op: "load system settings", Err: err}
	}

	totalAmount := decimal.Zero
	for _, item := range in.Items {
		totalAmount = totalAmount.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	netAmount := totalAmount.Sub(in.Discount).Add(in.Tax)

	purchaseDate := in.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	var purchase models.Purchase
	err = db.Transaction(func(tx *gorm.DB) error {
		purchase = models.Purchase{
			SupplierID:    in.SupplierID,
			UserID:        in.UserID,
			InvoiceNumber: in.InvoiceNumber,
			PurchaseDate:  purchaseDate,
			TotalAmount:   totalAmount,
			Discount:      in.Discount,
			Tax:           in.Tax,
			NetAmount:     netAmount,
			Status:        models.PurchaseCompleted,
			Notes:         in.Notes,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return &stock.PersistenceError{Op: "create purchase", Err: err}
		}

		for i, item := range in.Items {
			purchaseItem := models.PurchaseItem{
				PurchaseID: purchase.ID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitCost:   item.UnitCost,
				TotalCost:  item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))),
			}
			if err := tx.Create(&purchaseItem).Error; err != nil {
				return &stock.PersistenceError{Op: fmt.Sprintf("create purchase item %d", i), Err: err}
			}

			refID := purchase.ID
			if _, err := stock.ApplyMovementTx(tx, stock.MovementInput{
				Type:        models.MovementIn,
				ProductID:   item.ProductID,
				UserID:      in.UserID,
				Quantity:    item.Quantity,
				Reason:      "Purchase",
				ReferenceID: &refID,
			}, cfg.AllowNegativeStock); err != nil {
				return fmt.Errorf("item %d (product %d): %w", i, item.ProductID, err)
			}

			purchase.Items = append(purchase.Items, purchaseItem)
		}

		for i, p := range in.Payments {
			payment := models.Payment{
				PurchaseID:  purchase.ID,
				Amount:      p.Amount,
				Method:      p.Method,
				Reference:   p.Reference,
				BankName:    p.BankName,
				Status:      models.PaymentStatusSuccess,
				PaymentDate: time.Now(),
			}
			if err := tx.Create(&payment).Error; err != nil {
				return &stock.PersistenceError{Op: fmt.Sprintf("create payment %d", i), Err: err}
			}
			purchase.Payments = append(purchase.Payments, payment)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

// List returns purchases newest first with their suppliers, items and
// payments attached.
func List(db *gorm.DB) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := db.
		Preload("Supplier").
		Preload("User").
		Preload("Items.Product").
		Preload("Payments").
		Order("purchase_date DESC, id DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, &stock.PersistenceError{Op: "list purchases", Err: err}
	}
	return purchases, nil
}
