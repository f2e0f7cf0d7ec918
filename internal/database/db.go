package database

import (
	"log"

	"fluxstock-backend/internal/config"
	"fluxstock-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected. Migration complete.")
}

// Migrate is shared with the test suites, which run it against an
// in-memory sqlite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.Product{},
		&models.ProductImage{},
		&models.StockMovement{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Payment{},
		&models.SystemSettings{},
		&models.AuditLog{},
	)
}
