package stock

import (
	"errors"
	"testing"

	"fluxstock-backend/internal/models"
)

func TestApplyInAddsMagnitude(t *testing.T) {
	res, err := Apply(1, 10, models.MovementIn, 4, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Before != 10 || res.After != 14 {
		t.Fatalf("got before=%d after=%d, want 10/14", res.Before, res.After)
	}
	if res.StatusChanged {
		t.Fatal("status should not change on a plain IN")
	}
}

func TestApplyAdjustIsAdditive(t *testing.T) {
	res, err := Apply(1, 7, models.MovementAdjust, 3, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.After != 10 {
		t.Fatalf("ADJUST should add: got after=%d, want 10", res.After)
	}
}

func TestApplyOutSubtracts(t *testing.T) {
	// quantity=5, OUT 3 -> before=5 after=2
	res, err := Apply(1, 5, models.MovementOut, 3, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Before != 5 || res.After != 2 {
		t.Fatalf("got before=%d after=%d, want 5/2", res.Before, res.After)
	}
}

func TestApplyOutInsufficientStock(t *testing.T) {
	// quantity=2, OUT 5 with negative stock disallowed
	_, err := Apply(42, 2, models.MovementOut, 5, false)
	var insufficientErr *InsufficientStockError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if insufficientErr.Shortfall() != 3 {
		t.Fatalf("shortfall = %d, want 3", insufficientErr.Shortfall())
	}
	if insufficientErr.ProductID != 42 {
		t.Fatalf("product id = %d, want 42", insufficientErr.ProductID)
	}
}

func TestApplyOutNegativeStockAllowed(t *testing.T) {
	res, err := Apply(1, 2, models.MovementOut, 5, true)
	if err != nil {
		t.Fatalf("Apply with negative stock enabled: %v", err)
	}
	if res.After != -3 {
		t.Fatalf("got after=%d, want -3", res.After)
	}
	if res.StatusChanged {
		t.Fatal("negative quantity must not trigger the zero-status transition")
	}
}

func TestApplyZeroMarksOutOfStock(t *testing.T) {
	res, err := Apply(1, 3, models.MovementOut, 3, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.StatusChanged || res.Status != models.ProductOutOfStock {
		t.Fatalf("reaching zero must mark OUT_OF_STOCK, got changed=%v status=%s", res.StatusChanged, res.Status)
	}
}

func TestApplyReplenishmentDoesNotRevertStatus(t *testing.T) {
	res, err := Apply(1, 0, models.MovementIn, 10, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.StatusChanged {
		t.Fatal("replenishing from zero must leave the status alone")
	}
}

func TestApplyRejectsNonPositiveMagnitude(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, err := Apply(1, 5, models.MovementIn, qty, false)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("magnitude %d: want ValidationError, got %v", qty, err)
		}
	}
}

func TestApplyRejectsUnknownType(t *testing.T) {
	_, err := Apply(1, 5, models.MovementType("TRANSFER"), 1, false)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}
