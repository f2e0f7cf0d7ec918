package settings

import (
	"errors"

	"fluxstock-backend/internal/models"

	"gorm.io/gorm"
)

const singletonID = 1

// Get returns the system settings row, creating it with defaults on
// first access.
func Get(db *gorm.DB) (*models.SystemSettings, error) {
	var s models.SystemSettings
	err := db.First(&s, "id = ?", singletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = defaults()
		if err := db.Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func defaults() models.SystemSettings {
	return models.SystemSettings{
		ID:                 singletonID,
		SiteName:           "FluxStock",
		Currency:           "₦",
		LowStockThreshold:  5,
		AllowNegativeStock: false,
	}
}
