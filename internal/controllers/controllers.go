package controllers

import (
	"github.com/simonlarsson92/GreaseMonkeyJournal/config"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/events"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/repositories"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/services"

	logEntriesController "github.com/simonlarsson92/GreaseMonkeyJournal/internal/controllers/logentries"
	remindersController "github.com/simonlarsson92/GreaseMonkeyJournal/internal/controllers/reminders"
	vehiclesController "github.com/simonlarsson92/GreaseMonkeyJournal/internal/controllers/vehicles"
)

type Controllers struct {
	Vehicle  vehiclesController.VehicleControllerInterface
	LogEntry logEntriesController.LogEntryControllerInterface
	Reminder remindersController.ReminderControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Vehicle:  vehiclesController.New(repos, eventBus, config, db),
		LogEntry: logEntriesController.New(repos, config, db),
		Reminder: remindersController.New(repos, services.Transaction, eventBus, config, db),
	}
}
