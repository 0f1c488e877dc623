package handlers

import (
	"errors"
	"strconv"

	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/app"
	remindersController "github.com/simonlarsson92/GreaseMonkeyJournal/internal/controllers/reminders"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type ReminderHandler struct {
	Handler
	reminderController remindersController.ReminderControllerInterface
}

func NewReminderHandler(app app.App, router fiber.Router) *ReminderHandler {
	log := logger.New("handlers").File("reminder_handler")
	return &ReminderHandler{
		reminderController: app.Controllers.Reminder,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReminderHandler) Register() {
	reminders := h.router.Group("/reminders")
	reminders.Get("", h.getReminders)
	reminders.Get("/:id", h.getReminder)
	reminders.Post("", h.createReminder)
	reminders.Put("/:id", h.updateReminder)
	reminders.Delete("/:id", h.deleteReminder)
	reminders.Post("/:id/complete", h.completeReminder)

	h.router.Get("/vehicles/:id/reminders", h.getVehicleReminders)
}

func reminderErrorStatus(err error) int {
	switch {
	case errors.Is(err, remindersController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, remindersController.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, remindersController.ErrAlreadyCompleted):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *ReminderHandler) getReminders(c *fiber.Ctx) error {
	reminders, err := h.reminderController.GetReminders(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get reminders",
		})
	}

	return c.JSON(fiber.Map{
		"reminders": reminders,
	})
}

func (h *ReminderHandler) getReminder(c *fiber.Ctx) error {
	reminderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	reminder, err := h.reminderController.GetReminder(c.UserContext(), reminderID)
	if err != nil {
		return c.Status(reminderErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"reminder": reminder,
	})
}

func (h *ReminderHandler) getVehicleReminders(c *fiber.Ctx) error {
	vehicleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	reminders, err := h.reminderController.GetRemindersByVehicle(c.UserContext(), vehicleID)
	if err != nil {
		return c.Status(reminderErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"reminders": reminders,
	})
}

func (h *ReminderHandler) createReminder(c *fiber.Ctx) error {
	var req remindersController.CreateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reminder, err := h.reminderController.CreateReminder(c.UserContext(), &req)
	if err != nil {
		return c.Status(reminderErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reminder": reminder,
	})
}

func (h *ReminderHandler) updateReminder(c *fiber.Ctx) error {
	reminderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	var req remindersController.UpdateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reminder, err := h.reminderController.UpdateReminder(c.UserContext(), reminderID, &req)
	if err != nil {
		return c.Status(reminderErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"reminder": reminder,
	})
}

func (h *ReminderHandler) deleteReminder(c *fiber.Ctx) error {
	reminderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	if err := h.reminderController.DeleteReminder(c.UserContext(), reminderID); err != nil {
		return c.Status(reminderErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *ReminderHandler) completeReminder(c *fiber.Ctx) error {
	reminderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	var req remindersController.CompleteReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.ReminderID = reminderID

	if err := h.reminderController.CompleteReminder(c.UserContext(), &req); err != nil {
		return c.Status(reminderErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
