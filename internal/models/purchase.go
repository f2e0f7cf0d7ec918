package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchaseCompleted PurchaseStatus = "COMPLETED"
	PurchaseCancelled PurchaseStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentTransfer    PaymentMethod = "TRANSFER"
	PaymentPOS         PaymentMethod = "POS"
	PaymentMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentCreditCard  PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard   PaymentMethod = "DEBIT_CARD"
	PaymentCheque      PaymentMethod = "CHEQUE"
	PaymentOther       PaymentMethod = "OTHER"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Purchase is a supplier acquisition. The header, its items, its
// payments and the resulting stock movements are committed in a single
// transaction; items and payments are write-once.
type Purchase struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SupplierID    uint           `gorm:"index;not null" json:"supplier_id"`
	Supplier      Supplier       `json:"supplier"`
	UserID        uint           `gorm:"index;not null" json:"user_id"`
	User          User           `json:"user"`
	InvoiceNumber string         `gorm:"size:50" json:"invoice_number"`
	PurchaseDate  time.Time      `gorm:"index;not null" json:"purchase_date"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	Discount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"discount"`
	Tax         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"tax"`
	NetAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"net_amount"`

	Status PurchaseStatus `gorm:"size:20;not null" json:"status"`
	Notes  string         `gorm:"size:500" json:"notes"`

	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:RESTRICT" json:"items"`
	Payments []Payment      `gorm:"foreignKey:PurchaseID;constraint:OnDelete:RESTRICT" json:"payments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PurchaseItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	PurchaseID uint            `gorm:"index;not null" json:"purchase_id"`
	ProductID  uint            `gorm:"index;not null" json:"product_id"`
	Product    Product         `json:"product"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_cost"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_cost"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Payment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PurchaseID  uint            `gorm:"index;not null" json:"purchase_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Method      PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Reference   string          `gorm:"size:100" json:"reference"`
	BankName    string          `gorm:"size:100" json:"bank_name"`
	Status      PaymentStatus   `gorm:"size:20;not null" json:"status"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
}
