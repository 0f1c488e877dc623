package handlers

import (
	"errors"
	"strconv"

	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/app"
	logEntriesController "github.com/simonlarsson92/GreaseMonkeyJournal/internal/controllers/logentries"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type LogEntryHandler struct {
	Handler
	logEntryController logEntriesController.LogEntryControllerInterface
}

func NewLogEntryHandler(app app.App, router fiber.Router) *LogEntryHandler {
	log := logger.New("handlers").File("logEntry_handler")
	return &LogEntryHandler{
		logEntryController: app.Controllers.LogEntry,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *LogEntryHandler) Register() {
	logs := h.router.Group("/logs")
	logs.Get("", h.getLogEntries)
	logs.Get("/:id", h.getLogEntry)
	logs.Post("", h.createLogEntry)
	logs.Put("/:id", h.updateLogEntry)
	logs.Delete("/:id", h.deleteLogEntry)

	h.router.Get("/vehicles/:id/logs", h.getVehicleLogEntries)
}

func logEntryErrorStatus(err error) int {
	switch {
	case errors.Is(err, logEntriesController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, logEntriesController.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *LogEntryHandler) getLogEntries(c *fiber.Ctx) error {
	logEntries, err := h.logEntryController.GetLogEntries(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get log entries",
		})
	}

	return c.JSON(fiber.Map{
		"logEntries": logEntries,
	})
}

func (h *LogEntryHandler) getLogEntry(c *fiber.Ctx) error {
	logEntryID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid log entry ID",
		})
	}

	logEntry, err := h.logEntryController.GetLogEntry(c.UserContext(), logEntryID)
	if err != nil {
		return c.Status(logEntryErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"logEntry": logEntry,
	})
}

func (h *LogEntryHandler) getVehicleLogEntries(c *fiber.Ctx) error {
	vehicleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	logEntries, err := h.logEntryController.GetLogEntriesByVehicle(c.UserContext(), vehicleID)
	if err != nil {
		return c.Status(logEntryErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"logEntries": logEntries,
	})
}

func (h *LogEntryHandler) createLogEntry(c *fiber.Ctx) error {
	var req logEntriesController.CreateLogEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	logEntry, err := h.logEntryController.CreateLogEntry(c.UserContext(), &req)
	if err != nil {
		return c.Status(logEntryErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"logEntry": logEntry,
	})
}

func (h *LogEntryHandler) updateLogEntry(c *fiber.Ctx) error {
	logEntryID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid log entry ID",
		})
	}

	var req logEntriesController.UpdateLogEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	logEntry, err := h.logEntryController.UpdateLogEntry(c.UserContext(), logEntryID, &req)
	if err != nil {
		return c.Status(logEntryErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"logEntry": logEntry,
	})
}

func (h *LogEntryHandler) deleteLogEntry(c *fiber.Ctx) error {
	logEntryID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid log entry ID",
		})
	}

	if err := h.logEntryController.DeleteLogEntry(c.UserContext(), logEntryID); err != nil {
		return c.Status(logEntryErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
