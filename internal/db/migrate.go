package db

import (
	"shop_backend/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library
)

// Models lists every collection managed by the store
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Address{},
		&domain.Product{},
		&domain.Category{},
		&domain.Banner{},
		&domain.Order{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
