package app

import (
	"context"

	"github.com/simonlarsson92/GreaseMonkeyJournal/config"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/controllers"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/events"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/handlers/middleware"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/jobs"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/repositories"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/services"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	service := services.New(db)
	repos := repositories.New(db)
	middleware := middleware.New(db, eventBus, config)
	controllers := controllers.New(service, repos, eventBus, config, db)

	if config.SchedulerEnabled {
		dueReminderJob := jobs.NewDueReminderJob(
			repos.Reminder,
			eventBus,
			db,
			services.Daily,
		)
		if err := service.Scheduler.AddJob(dueReminderJob); err != nil {
			return &App{}, log.Err("failed to register due reminder job", err)
		}
		log.Info("Registered due reminder job with scheduler")
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		EventBus:    eventBus,
		Services:    service,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) StartScheduler(ctx context.Context) error {
	if !a.Config.SchedulerEnabled {
		return nil
	}
	return a.Services.Scheduler.Start(ctx)
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Repos.Vehicle,
		a.Repos.LogEntry,
		a.Repos.Reminder,
		a.Controllers.Vehicle,
		a.Controllers.LogEntry,
		a.Controllers.Reminder,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
