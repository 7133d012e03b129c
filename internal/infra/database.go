package infra

import (
	"fmt"

	"brigade/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create or update all tables. pgcrypto must be available for
// gen_random_uuid() defaults.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}
	return db, nil
}

// RunMigrations applies the schema. Shared with the seed command.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Ingredient{},
		&model.Preparation{},
		&model.Dish{},
		&model.RecipeIngredient{},
		&model.RecipePreparation{},
		&model.DiningTable{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
	); err != nil {
		return err
	}
	// Ticket numbers come from a sequence: concurrent sales each get their own
	// number instead of racing on MAX(ticket_number)+1.
	return db.Exec(`CREATE SEQUENCE IF NOT EXISTS sales_ticket_number_seq`).Error
}
