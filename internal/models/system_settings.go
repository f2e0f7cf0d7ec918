package models

import "time"

// SystemSettings is a singleton row (ID always 1), created lazily with
// defaults on first read.
type SystemSettings struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	SiteName           string `gorm:"size:100;not null" json:"site_name"`
	Currency           string `gorm:"size:10;not null" json:"currency"`
	LowStockThreshold  int    `gorm:"not null" json:"low_stock_threshold"`
	AllowNegativeStock bool   `gorm:"not null" json:"allow_negative_stock"`
	UpdatedAt          time.Time `json:"updated_at"`
}
