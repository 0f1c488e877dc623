package seed

import (
	"time"

	"github.com/simonlarsson92/GreaseMonkeyJournal/config"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"
	. "github.com/simonlarsson92/GreaseMonkeyJournal/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	vehicles := []Vehicle{
		{
			Make:         "Toyota",
			Model:        "Corolla",
			Year:         2019,
			Registration: "ABC123",
			OdometerUnit: OdometerUnitMiles,
		},
		{
			Make:         "Volvo",
			Model:        "V60",
			Year:         2021,
			Registration: "XYZ789",
			OdometerUnit: OdometerUnitKilometers,
		},
	}

	for i := range vehicles {
		var existing Vehicle
		if err := db.First(&existing, "registration = ?", vehicles[i].Registration).Error; err == nil {
			log.Info("Vehicle already exists", "registration", vehicles[i].Registration)
			vehicles[i] = existing
			continue
		}
		log.Info("Seeding vehicle", "registration", vehicles[i].Registration)
		if err := db.Create(&vehicles[i]).Error; err != nil {
			return log.Err("failed to create vehicle", err, "registration", vehicles[i].Registration)
		}
	}

	logEntries := []LogEntry{
		{
			VehicleID:   vehicles[0].ID,
			Description: "Oil and filter change",
			Type:        EntryTypeMaintenance,
			Cost:        decimal.NewFromFloat(64.50),
			Odometer:    intPtr(42150),
			Notes:       stringPtr("5W-30 full synthetic"),
			Date:        time.Now().AddDate(0, -3, 0),
		},
		{
			VehicleID:   vehicles[1].ID,
			Description: "Replaced worn front brake pads",
			Type:        EntryTypeRepair,
			Cost:        decimal.NewFromFloat(212.00),
			Odometer:    intPtr(30480),
			Date:        time.Now().AddDate(0, -1, 0),
		},
	}

	for _, entry := range logEntries {
		log.Info("Seeding log entry", "description", entry.Description)
		if err := db.Create(&entry).Error; err != nil {
			return log.Err("failed to create log entry", err, "description", entry.Description)
		}
	}

	reminders := []Reminder{
		{
			VehicleID:   vehicles[0].ID,
			Description: "Oil and filter change",
			Type:        EntryTypeMaintenance,
			DueDate:     time.Now().AddDate(0, 3, 0),
			DueOdometer: intPtr(47150),
		},
		{
			VehicleID:   vehicles[0].ID,
			Description: "Annual inspection",
			Type:        EntryTypeMaintenance,
			DueDate:     time.Now().AddDate(0, 1, 0),
		},
		{
			VehicleID:   vehicles[1].ID,
			Description: "Tire rotation",
			Type:        EntryTypeMaintenance,
			DueDate:     time.Now().AddDate(0, 0, 14),
			DueOdometer: intPtr(35000),
		},
	}

	for _, reminder := range reminders {
		log.Info("Seeding reminder", "description", reminder.Description)
		if err := db.Create(&reminder).Error; err != nil {
			return log.Err("failed to create reminder", err, "description", reminder.Description)
		}
	}

	return nil
}
