package models

import "time"

type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
)

// StockMovement is one audited quantity change. Rows are append-only:
// created once inside the same transaction as the product update,
// never modified or deleted afterwards. Replaying a product's movements
// in creation order reconstructs its current quantity.
type StockMovement struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Type      MovementType `gorm:"size:10;not null;index" json:"type"`
	ProductID uint         `gorm:"index;not null" json:"product_id"`
	Product   Product      `json:"product"`
	UserID    uint         `gorm:"index;not null" json:"user_id"`
	User      User         `json:"user"`

	// Magnitude of the change, always positive. Direction comes from Type.
	Quantity int `gorm:"not null" json:"quantity"`

	Reason      string `gorm:"size:255" json:"reason"`
	ReferenceID *uint  `gorm:"index" json:"reference_id"` // originating purchase, if any

	BeforeQuantity int `gorm:"not null" json:"before_quantity"`
	AfterQuantity  int `gorm:"not null" json:"after_quantity"`

	CreatedAt time.Time `json:"created_at"`
}
