package initialize

import (
	"github.com/simonlarsson92/GreaseMonkeyJournal/config"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"

	"gorm.io/gorm"
)

// InitializeTables seeds essential production data. The journal has no
// reference tables today, so this is a hook for future lookup data.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	log.Info("Table initialization complete")
	return nil
}
