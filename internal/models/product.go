package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive       ProductStatus = "ACTIVE"
	ProductOutOfStock   ProductStatus = "OUT_OF_STOCK"
	ProductDiscontinued ProductStatus = "DISCONTINUED"
	ProductArchived     ProductStatus = "ARCHIVED"
)

type ProductCategory string

const (
	CategoryPhone     ProductCategory = "PHONE"
	CategoryAccessory ProductCategory = "ACCESSORY"
	CategoryPart      ProductCategory = "PART"
	CategoryOther     ProductCategory = "OTHER"
)

type ProductCondition string

const (
	ConditionNew     ProductCondition = "NEW"
	ConditionUsed    ProductCondition = "USED"
	ConditionDamaged ProductCondition = "DAMAGED"
)

type Product struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Name          string           `gorm:"size:100;not null" json:"name"`
	SKU           string           `gorm:"size:50;uniqueIndex;not null" json:"sku"`
	Description   string           `gorm:"size:500" json:"description"`
	Brand         string           `gorm:"size:100" json:"brand"`
	Category      ProductCategory  `gorm:"size:20;not null;default:ACCESSORY;index" json:"category"`
	SubCategory   string           `gorm:"size:50" json:"sub_category"`
	UnitOfMeasure string           `gorm:"size:20;not null;default:pcs" json:"unit_of_measure"`
	Condition     ProductCondition `gorm:"size:20;not null;default:NEW" json:"condition"`

	// Quantity and Status are only ever written by the stock ledger,
	// except for the out-of-band catalog edit path which is audit-logged.
	Quantity    int           `gorm:"not null;default:0" json:"quantity"`
	MinQuantity int           `gorm:"not null;default:5" json:"min_quantity"`
	Status      ProductStatus `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`

	CostPrice     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"cost_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"selling_price"`
	TaxApplicable bool            `gorm:"not null;default:false" json:"tax_applicable"`

	ExpiryDate  *time.Time `json:"expiry_date"`
	BatchNumber string     `gorm:"size:50" json:"batch_number"`

	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"size:500;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
