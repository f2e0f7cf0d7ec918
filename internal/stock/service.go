package stock

import (
	"errors"
	"fmt"

	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/settings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovementInput struct {
	Type        models.MovementType
	ProductID   uint
	UserID      uint
	Quantity    int
	Reason      string
	ReferenceID *uint
}

type MovementResult struct {
	Movement models.StockMovement `json:"movement"`
	Product  models.Product       `json:"product"`
}

// RecordMovement applies a single stock movement as one atomic unit:
// read the product, compute before/after, persist the new quantity and
// the movement row, commit. Any failure rolls the whole thing back.
func RecordMovement(db *gorm.DB, in MovementInput) (*MovementResult, error) {
	if in.Quantity <= 0 {
		return nil, &ValidationError{Msg: "quantity must be a positive integer"}
	}
	switch in.Type {
	case models.MovementIn, models.MovementOut, models.MovementAdjust:
	default:
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown movement type %q", in.Type)}
	}
	if in.UserID == 0 {
		return nil, &ValidationError{Msg: "acting user is required"}
	}

	cfg, err := settings.Get(db)
	if err != nil {
		return nil, &PersistenceError{Op: "load system settings", Err: err}
	}

	var res *MovementResult
	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		res, txErr = ApplyMovementTx(tx, in, cfg.AllowNegativeStock)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ApplyMovementTx runs the read-compute-persist-record sequence on the
// caller's transaction. The purchase orchestrator reuses it so that an
// entire purchase shares one transaction; everyone else goes through
// RecordMovement.
func ApplyMovementTx(tx *gorm.DB, in MovementInput, allowNegative bool) (*MovementResult, error) {
	product, err := lockProduct(tx, in.ProductID)
	if err != nil {
		return nil, err
	}

	applied, err := Apply(product.ID, product.Quantity, in.Type, in.Quantity, allowNegative)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"quantity": applied.After}
	if applied.StatusChanged {
		updates["status"] = applied.Status
	}
	if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
		return nil, &PersistenceError{Op: "update product quantity", Err: err}
	}

	movement := models.StockMovement{
		Type:           in.Type,
		ProductID:      product.ID,
		UserID:         in.UserID,
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		ReferenceID:    in.ReferenceID,
		BeforeQuantity: applied.Before,
		AfterQuantity:  applied.After,
	}
	if err := appendMovement(tx, &movement); err != nil {
		return nil, err
	}

	product.Quantity = applied.After
	if applied.StatusChanged {
		product.Status = applied.Status
	}

	return &MovementResult{Movement: movement, Product: product}, nil
}

// lockProduct reads the product row with a row-level write lock so that
// concurrent movements on the same product serialize instead of both
// computing from the same stale quantity. SQLite rejects FOR UPDATE and
// serializes writers on its own, so the clause is skipped there.
func lockProduct(tx *gorm.DB, productID uint) (models.Product, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	if err := q.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, fmt.Errorf("%w (id %d)", ErrProductNotFound, productID)
		}
		return models.Product{}, &PersistenceError{Op: "read product", Err: err}
	}
	if product.Status == models.ProductArchived {
		return models.Product{}, fmt.Errorf("%w (id %d is archived)", ErrProductNotFound, productID)
	}
	return product, nil
}
