package stock

import (
	"fmt"

	"fluxstock-backend/internal/models"
)

// ApplyResult is the computed outcome of one movement. The caller
// persists it together with the movement row; Apply itself never
// touches state.
type ApplyResult struct {
	Before int
	After  int

	// Status the product should carry after the movement. StatusChanged
	// is false when the movement leaves the status alone.
	Status        models.ProductStatus
	StatusChanged bool
}

// Apply computes the before/after quantity pair for a single movement.
//
// IN and ADJUST add the magnitude; ADJUST is an additive correction
// only, subtractions go through OUT. OUT subtracts and fails with
// InsufficientStockError when the result would be negative and
// allowNegative is off.
//
// A product that reaches exactly zero is marked OUT_OF_STOCK. The
// reverse transition is deliberately not made here: replenishment does
// not flip a product back to ACTIVE, the catalog owns that.
func Apply(productID uint, current int, movementType models.MovementType, magnitude int, allowNegative bool) (ApplyResult, error) {
	if magnitude <= 0 {
		return ApplyResult{}, &ValidationError{Msg: "movement quantity must be a positive integer"}
	}

	res := ApplyResult{Before: current}

	switch movementType {
	case models.MovementIn, models.MovementAdjust:
		res.After = current + magnitude
	case models.MovementOut:
		res.After = current - magnitude
		if res.After < 0 && !allowNegative {
			return ApplyResult{}, &InsufficientStockError{
				ProductID: productID,
				Available: current,
				Requested: magnitude,
			}
		}
	default:
		return ApplyResult{}, &ValidationError{Msg: fmt.Sprintf("unknown movement type %q", movementType)}
	}

	if res.After == 0 {
		res.Status = models.ProductOutOfStock
		res.StatusChanged = true
	}

	return res, nil
}
