package models

import "time"

type Supplier struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	ContactName string `gorm:"size:100" json:"contact_name"`
	Email       string `gorm:"size:100" json:"email"`
	Phone       string `gorm:"size:30" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
