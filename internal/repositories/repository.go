package repositories

import (
	"errors"

	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
)

var (
	// ErrInvalidID is returned before any query when a non-positive identifier is supplied
	ErrInvalidID = errors.New("invalid id")

	// ErrNilEntity is returned when a create or update receives a nil entity
	ErrNilEntity = errors.New("nil entity")
)

type Repository struct {
	Vehicle  VehicleRepository
	LogEntry LogEntryRepository
	Reminder ReminderRepository
}

func New(db database.DB) Repository {
	return Repository{
		Vehicle:  NewVehicleRepository(),
		LogEntry: NewLogEntryRepository(db.Cache.Vehicles),
		Reminder: NewReminderRepository(db.Cache.Vehicles),
	}
}
