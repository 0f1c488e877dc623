package database

import (
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.Vehicle{},
		&models.Reminder{},
		&models.LogEntry{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate model", "model", model, "error", err)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_reminders_vehicle_completed ON reminders(vehicle_id, is_completed)",
		"CREATE INDEX IF NOT EXISTS idx_reminders_due_open ON reminders(due_date) WHERE is_completed = false",
		"CREATE INDEX IF NOT EXISTS idx_log_entries_vehicle_date ON log_entries(vehicle_id, date DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
