package remindersController

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/simonlarsson92/GreaseMonkeyJournal/config"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/events"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"
	. "github.com/simonlarsson92/GreaseMonkeyJournal/internal/models"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/repositories"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/services"

	"gorm.io/gorm"
)

const (
	MaxDescriptionLength = 500
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("reminder already completed")
)

type ReminderController struct {
	reminderRepo repositories.ReminderRepository
	logEntryRepo repositories.LogEntryRepository
	vehicleRepo  repositories.VehicleRepository
	transaction  services.TransactionExecutor
	eventBus     *events.EventBus
	db           database.DB
	Config       config.Config
}

type CreateReminderRequest struct {
	VehicleID   int       `json:"vehicleId"`
	Description string    `json:"description"`
	Type        EntryType `json:"type,omitempty"`
	DueDate     string    `json:"dueDate"`
	DueOdometer *int      `json:"dueOdometer,omitempty"`
}

type UpdateReminderRequest struct {
	Description *string    `json:"description,omitempty"`
	Type        *EntryType `json:"type,omitempty"`
	DueDate     *string    `json:"dueDate,omitempty"`
	DueOdometer *int       `json:"dueOdometer,omitempty"`
}

// CompleteReminderRequest closes out a reminder: the reminder flips to
// completed, a log entry with LogDescription/LogDate is recorded against the
// reminder's vehicle, and when Recreate is set a successor reminder for the
// same task is scheduled at NewDueDate. NewDueDate is required with Recreate
// and rejected without it.
type CompleteReminderRequest struct {
	ReminderID     int     `json:"reminderId"`
	LogDescription string  `json:"logDescription"`
	LogDate        string  `json:"logDate"`
	Recreate       bool    `json:"recreate"`
	NewDueDate     *string `json:"newDueDate,omitempty"`
}

type ReminderControllerInterface interface {
	GetReminders(ctx context.Context) ([]*Reminder, error)
	GetRemindersByVehicle(ctx context.Context, vehicleID int) ([]*Reminder, error)
	GetReminder(ctx context.Context, reminderID int) (*Reminder, error)
	CreateReminder(ctx context.Context, request *CreateReminderRequest) (*Reminder, error)
	UpdateReminder(ctx context.Context, reminderID int, request *UpdateReminderRequest) (*Reminder, error)
	DeleteReminder(ctx context.Context, reminderID int) error
	CompleteReminder(ctx context.Context, request *CompleteReminderRequest) error
}

func New(
	repos repositories.Repository,
	transaction services.TransactionExecutor,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) ReminderControllerInterface {
	return &ReminderController{
		reminderRepo: repos.Reminder,
		logEntryRepo: repos.LogEntry,
		vehicleRepo:  repos.Vehicle,
		transaction:  transaction,
		eventBus:     eventBus,
		db:           db,
		Config:       config,
	}
}

func parseDateTime(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, errors.New("datetime is required")
	}

	t, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return time.Time{}, errors.New("invalid datetime format, expected RFC3339")
	}

	return t, nil
}

func (c *ReminderController) GetReminders(ctx context.Context) ([]*Reminder, error) {
	log := logger.NewWithContext(ctx, "reminderController").Function("GetReminders")

	reminders, err := c.reminderRepo.GetAllWithVehicle(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to get reminders", err)
	}

	return reminders, nil
}

func (c *ReminderController) GetRemindersByVehicle(
	ctx context.Context,
	vehicleID int,
) ([]*Reminder, error) {
	log := logger.NewWithContext(ctx, "reminderController").Function("GetRemindersByVehicle")

	if vehicleID <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "vehicleId must be positive")
	}

	reminders, err := c.reminderRepo.GetByVehicleID(ctx, c.db.SQL, vehicleID)
	if err != nil {
		return nil, log.Err("failed to get vehicle reminders", err, "vehicleID", vehicleID)
	}

	return reminders, nil
}

func (c *ReminderController) GetReminder(ctx context.Context, reminderID int) (*Reminder, error) {
	log := logger.NewWithContext(ctx, "reminderController").Function("GetReminder")

	if reminderID <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "reminderId must be positive")
	}

	reminder, err := c.reminderRepo.GetByIDWithVehicle(ctx, c.db.SQL, reminderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "reminder not found")
		}
		return nil, log.Err("failed to get reminder", err, "reminderID", reminderID)
	}

	return reminder, nil
}

func (c *ReminderController) CreateReminder(
	ctx context.Context,
	request *CreateReminderRequest,
) (*Reminder, error) {
	log := logger.NewWithContext(ctx, "reminderController").Function("CreateReminder")

	if request.VehicleID <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "vehicleId must be positive")
	}

	if strings.TrimSpace(request.Description) == "" {
		return nil, log.ErrorWithType(ErrValidation, "description is required")
	}

	if len(request.Description) > MaxDescriptionLength {
		return nil, log.ErrorWithType(
			ErrValidation,
			"description exceeds maximum length",
			"length", len(request.Description),
			"max", MaxDescriptionLength,
		)
	}

	entryType := request.Type
	if entryType == "" {
		entryType = EntryTypeMaintenance
	}
	if !entryType.IsValid() {
		return nil, log.ErrorWithType(ErrValidation, "invalid reminder type", "type", entryType)
	}

	dueDate, err := parseDateTime(request.DueDate)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid dueDate", "error", err)
	}

	if _, err := c.vehicleRepo.GetByID(ctx, c.db.SQL, request.VehicleID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "vehicle not found")
		}
		return nil, log.Err("failed to verify vehicle", err, "vehicleID", request.VehicleID)
	}

	reminder := &Reminder{
		VehicleID:   request.VehicleID,
		Description: request.Description,
		Type:        entryType,
		DueDate:     dueDate,
		DueOdometer: request.DueOdometer,
		IsCompleted: false,
	}

	if err := c.reminderRepo.Create(ctx, c.db.SQL, reminder); err != nil {
		return nil, log.Err("failed to create reminder", err, "vehicleID", request.VehicleID)
	}

	c.publishEvent(events.REMINDER_CREATED, reminder)

	log.Info("Reminder created", "reminderID", reminder.ID, "vehicleID", reminder.VehicleID)
	return reminder, nil
}

func (c *ReminderController) UpdateReminder(
	ctx context.Context,
	reminderID int,
	request *UpdateReminderRequest,
) (*Reminder, error) {
	log := logger.NewWithContext(ctx, "reminderController").Function("UpdateReminder")

	if reminderID <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "reminderId must be positive")
	}

	reminder, err := c.reminderRepo.GetByID(ctx, c.db.SQL, reminderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "reminder not found")
		}
		return nil, log.Err("failed to get reminder", err, "reminderID", reminderID)
	}

	changed := false

	if request.Description != nil {
		if strings.TrimSpace(*request.Description) == "" {
			return nil, log.ErrorWithType(ErrValidation, "description cannot be empty")
		}
		if len(*request.Description) > MaxDescriptionLength {
			return nil, log.ErrorWithType(
				ErrValidation,
				"description exceeds maximum length",
				"length", len(*request.Description),
				"max", MaxDescriptionLength,
			)
		}
		reminder.Description = *request.Description
		changed = true
	}

	if request.Type != nil {
		if !request.Type.IsValid() {
			return nil, log.ErrorWithType(ErrValidation, "invalid reminder type", "type", *request.Type)
		}
		reminder.Type = *request.Type
		changed = true
	}

	if request.DueDate != nil {
		dueDate, err := parseDateTime(*request.DueDate)
		if err != nil {
			return nil, log.ErrorWithType(ErrValidation, "invalid dueDate", "error", err)
		}
		reminder.DueDate = dueDate
		changed = true
	}

	if request.DueOdometer != nil {
		reminder.DueOdometer = request.DueOdometer
		changed = true
	}

	if !changed {
		return nil, log.ErrorWithType(ErrValidation, "no fields to update")
	}

	if err := c.reminderRepo.Update(ctx, c.db.SQL, reminder); err != nil {
		return nil, log.Err("failed to update reminder", err, "reminderID", reminderID)
	}

	return reminder, nil
}

func (c *ReminderController) DeleteReminder(ctx context.Context, reminderID int) error {
	log := logger.NewWithContext(ctx, "reminderController").Function("DeleteReminder")

	if reminderID <= 0 {
		return log.ErrorWithType(ErrValidation, "reminderId must be positive")
	}

	if err := c.reminderRepo.Delete(ctx, c.db.SQL, reminderID); err != nil {
		return log.Err("failed to delete reminder", err, "reminderID", reminderID)
	}

	log.Info("Reminder deleted", "reminderID", reminderID)
	return nil
}

// CompleteReminder transitions an active reminder to completed, records a log
// entry for the work performed, and optionally schedules the next occurrence.
// The flag flip, log insert and successor insert run in one transaction; the
// flip itself is guarded on is_completed so a concurrent duplicate completion
// loses cleanly with ErrAlreadyCompleted.
func (c *ReminderController) CompleteReminder(
	ctx context.Context,
	request *CompleteReminderRequest,
) error {
	log := logger.NewWithContext(ctx, "reminderController").Function("CompleteReminder")

	if request.ReminderID <= 0 {
		return log.ErrorWithType(ErrValidation, "reminderId must be positive")
	}

	if strings.TrimSpace(request.LogDescription) == "" {
		return log.ErrorWithType(ErrValidation, "logDescription is required")
	}

	if len(request.LogDescription) > MaxDescriptionLength {
		return log.ErrorWithType(
			ErrValidation,
			"logDescription exceeds maximum length",
			"length", len(request.LogDescription),
			"max", MaxDescriptionLength,
		)
	}

	logDate, err := parseDateTime(request.LogDate)
	if err != nil {
		return log.ErrorWithType(ErrValidation, "invalid logDate", "error", err)
	}

	if logDate.After(time.Now()) {
		return log.ErrorWithType(ErrValidation, "logDate cannot be in the future")
	}

	var newDueDate time.Time
	if request.Recreate {
		if request.NewDueDate == nil {
			return log.ErrorWithType(ErrValidation, "newDueDate is required when recreate is set")
		}
		newDueDate, err = parseDateTime(*request.NewDueDate)
		if err != nil {
			return log.ErrorWithType(ErrValidation, "invalid newDueDate", "error", err)
		}
	} else if request.NewDueDate != nil {
		return log.ErrorWithType(ErrValidation, "newDueDate is only allowed when recreate is set")
	}

	reminder, err := c.reminderRepo.GetByIDWithVehicle(ctx, c.db.SQL, request.ReminderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return log.ErrorWithType(ErrNotFound, "reminder not found")
		}
		return log.Err("failed to get reminder", err, "reminderID", request.ReminderID)
	}

	if reminder.IsCompleted {
		return log.ErrorWithType(
			ErrAlreadyCompleted,
			"reminder is already completed",
			"reminderID", reminder.ID,
		)
	}

	// Abort before the first write if the caller has already given up
	if err := ctx.Err(); err != nil {
		return log.Err("context cancelled before completion", err, "reminderID", reminder.ID)
	}

	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		won, err := c.reminderRepo.Complete(ctx, tx, reminder.ID)
		if err != nil {
			return log.Err(
				"failed to mark reminder completed",
				err,
				"reminderID", reminder.ID,
			)
		}

		if !won {
			// A concurrent completion committed between our read and this write
			return log.ErrorWithType(
				ErrAlreadyCompleted,
				"reminder was completed concurrently",
				"reminderID", reminder.ID,
			)
		}

		logEntry := &LogEntry{
			VehicleID:   reminder.VehicleID,
			ReminderID:  &reminder.ID,
			Description: request.LogDescription,
			Type:        reminder.Type,
			Date:        logDate,
		}

		if err := c.logEntryRepo.Create(ctx, tx, logEntry); err != nil {
			return log.Err(
				"failed to create log entry for completed reminder",
				err,
				"reminderID", reminder.ID,
				"vehicleID", reminder.VehicleID,
			)
		}

		if request.Recreate {
			successor := &Reminder{
				VehicleID:   reminder.VehicleID,
				Description: reminder.Description,
				Type:        reminder.Type,
				DueDate:     newDueDate,
				DueOdometer: reminder.DueOdometer,
				IsCompleted: false,
			}

			if err := c.reminderRepo.Create(ctx, tx, successor); err != nil {
				return log.Err(
					"failed to create successor reminder",
					err,
					"reminderID", reminder.ID,
					"vehicleID", reminder.VehicleID,
				)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	c.publishEvent(events.REMINDER_COMPLETED, reminder)

	log.Info(
		"Reminder completed",
		"reminderID", reminder.ID,
		"vehicleID", reminder.VehicleID,
		"recreated", request.Recreate,
	)

	return nil
}

// publishEvent is best effort; a broker hiccup never fails the workflow
func (c *ReminderController) publishEvent(messageType events.MessageType, reminder *Reminder) {
	if c.eventBus == nil {
		return
	}

	err := c.eventBus.Publish(events.REMINDERS_CHANNEL, events.Event{
		Type:      messageType,
		VehicleID: &reminder.VehicleID,
		Data: map[string]any{
			"reminderId":  reminder.ID,
			"description": reminder.Description,
			"type":        reminder.Type,
		},
	})
	if err != nil {
		logger.New("reminderController").
			Warn("failed to publish reminder event", "type", messageType, "error", err)
	}
}
