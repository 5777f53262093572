package db

import (
	"github.com/cyra-app/cyra/internal/models"
	"gorm.io/gorm"
)

func migrateSchema(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Cycle{},
		&models.DailyLog{},
		&models.AppState{},
	)
}
