package stock

import (
	"fluxstock-backend/internal/models"

	"gorm.io/gorm"
)

// appendMovement persists one immutable StockMovement row. Pure append:
// no reads, no business logic. Must be called with the transaction that
// also carries the product update so both commit or roll back together.
func appendMovement(tx *gorm.DB, m *models.StockMovement) error {
	if err := tx.Create(m).Error; err != nil {
		return &PersistenceError{Op: "record stock movement", Err: err}
	}
	return nil
}
