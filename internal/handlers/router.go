package handlers

import (
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/app"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/handlers/middleware"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewVehicleHandler(*app, api).Register()
	NewLogEntryHandler(*app, api).Register()
	NewReminderHandler(*app, api).Register()

	return nil
}
