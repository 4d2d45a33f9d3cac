package db

import (
	"github.com/NabirasulA/Galaxy/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Position{},
		&models.PortfolioSnapshot{},
		&models.SystemSetting{},
	)
}
