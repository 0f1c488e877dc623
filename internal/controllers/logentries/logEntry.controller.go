package logEntriesController

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/simonlarsson92/GreaseMonkeyJournal/config"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"
	. "github.com/simonlarsson92/GreaseMonkeyJournal/internal/models"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MaxNotesLength       = 1000
	MaxDescriptionLength = 500
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type LogEntryController struct {
	logEntryRepo repositories.LogEntryRepository
	vehicleRepo  repositories.VehicleRepository
	db           database.DB
	Config       config.Config
}

type CreateLogEntryRequest struct {
	VehicleID   int             `json:"vehicleId"`
	Description string          `json:"description"`
	Type        EntryType       `json:"type,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	Notes       *string         `json:"notes,omitempty"`
	Odometer    *int            `json:"odometer,omitempty"`
	Date        string          `json:"date"`
}

type UpdateLogEntryRequest struct {
	Description *string          `json:"description,omitempty"`
	Type        *EntryType       `json:"type,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Odometer    *int             `json:"odometer,omitempty"`
	Date        *string          `json:"date,omitempty"`
}

type LogEntryControllerInterface interface {
	GetLogEntries(ctx context.Context) ([]*LogEntry, error)
	GetLogEntry(ctx context.Context, logEntryID int) (*LogEntry, error)
	GetLogEntriesByVehicle(ctx context.Context, vehicleID int) ([]*LogEntry, error)
	CreateLogEntry(ctx context.Context, request *CreateLogEntryRequest) (*LogEntry, error)
	UpdateLogEntry(ctx context.Context, logEntryID int, request *UpdateLogEntryRequest) (*LogEntry, error)
	DeleteLogEntry(ctx context.Context, logEntryID int) error
}

func New(
	repos repositories.Repository,
	config config.Config,
	db database.DB,
) LogEntryControllerInterface {
	return &LogEntryController{
		logEntryRepo: repos.LogEntry,
		vehicleRepo:  repos.Vehicle,
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

func (c *LogEntryController) GetLogEntries(ctx context.Context) ([]*LogEntry, error) {
	log := logger.NewWithContext(ctx, "logEntryController").Function("GetLogEntries")

	logEntries, err := c.logEntryRepo.GetAll(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to get log entries", err)
	}

	return logEntries, nil
}

func (c *LogEntryController) GetLogEntry(ctx context.Context, logEntryID int) (*LogEntry, error) {
	log := logger.NewWithContext(ctx, "logEntryController").Function("GetLogEntry")

	if logEntryID <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "logEntryId must be positive")
	}

	logEntry, err := c.logEntryRepo.GetByID(ctx, c.db.SQL, logEntryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "log entry not found")
		}
		return nil, log.Err("failed to get log entry", err, "logEntryID", logEntryID)
	}

	return logEntry, nil
}

func (c *LogEntryController) GetLogEntriesByVehicle(
	ctx context.Context,
	vehicleID int,
) ([]*LogEntry, error) {
	log := logger.NewWithContext(ctx, "logEntryController").Function("GetLogEntriesByVehicle")

	if vehicleID <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "vehicleId must be positive")
	}

	logEntries, err := c.logEntryRepo.GetByVehicleID(ctx, c.db.SQL, vehicleID)
	if err != nil {
		return nil, log.Err("failed to get vehicle log entries", err, "vehicleID", vehicleID)
	}

	return logEntries, nil
}

func (c *LogEntryController) CreateLogEntry(
	ctx context.Context,
	request *CreateLogEntryRequest,
) (*LogEntry, error) {
	log := logger.NewWithContext(ctx, "logEntryController").Function("CreateLogEntry")

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
		return nil, log.ErrorWithType(ErrValidation, "invalid entry type", "type", entryType)
	}

	if request.Cost.IsNegative() {
		return nil, log.ErrorWithType(ErrValidation, "cost cannot be negative")
	}

	if request.Notes != nil && len(*request.Notes) > MaxNotesLength {
		return nil, log.ErrorWithType(
			ErrValidation,
			"notes exceed maximum length",
			"length", len(*request.Notes),
			"max", MaxNotesLength,
		)
	}

	if request.Odometer != nil && *request.Odometer < 0 {
		return nil, log.ErrorWithType(ErrValidation, "odometer cannot be negative")
	}

	date, err := parseDateTime(request.Date)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid date", "error", err)
	}

	if date.After(time.Now()) {
		return nil, log.ErrorWithType(ErrValidation, "date cannot be in the future")
	}

	if _, err := c.vehicleRepo.GetByID(ctx, c.db.SQL, request.VehicleID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "vehicle not found")
		}
		return nil, log.Err("failed to verify vehicle", err, "vehicleID", request.VehicleID)
	}

	logEntry := &LogEntry{
		VehicleID:   request.VehicleID,
		Description: request.Description,
		Type:        entryType,
		Cost:        request.Cost,
		Notes:       request.Notes,
		Odometer:    request.Odometer,
		Date:        date,
	}

	if err := c.logEntryRepo.Create(ctx, c.db.SQL, logEntry); err != nil {
		return nil, log.Err("failed to create log entry", err, "vehicleID", request.VehicleID)
	}

	log.Info("Log entry created", "logEntryID", logEntry.ID, "vehicleID", logEntry.VehicleID)
	return logEntry, nil
}

func (c *LogEntryController) UpdateLogEntry(
	ctx context.Context,
	logEntryID int,
	request *UpdateLogEntryRequest,
) (*LogEntry, error) {
	log := logger.NewWithContext(ctx, "logEntryController").Function("UpdateLogEntry")

	if logEntryID <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "logEntryId must be positive")
	}

	logEntry, err := c.logEntryRepo.GetByID(ctx, c.db.SQL, logEntryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "log entry not found")
		}
		return nil, log.Err("failed to get log entry", err, "logEntryID", logEntryID)
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
		logEntry.Description = *request.Description
		changed = true
	}

	if request.Type != nil {
		if !request.Type.IsValid() {
			return nil, log.ErrorWithType(ErrValidation, "invalid entry type", "type", *request.Type)
		}
		logEntry.Type = *request.Type
		changed = true
	}

	if request.Cost != nil {
		if request.Cost.IsNegative() {
			return nil, log.ErrorWithType(ErrValidation, "cost cannot be negative")
		}
		logEntry.Cost = *request.Cost
		changed = true
	}

	if request.Notes != nil {
		if len(*request.Notes) > MaxNotesLength {
			return nil, log.ErrorWithType(
				ErrValidation,
				"notes exceed maximum length",
				"length", len(*request.Notes),
				"max", MaxNotesLength,
			)
		}
		logEntry.Notes = request.Notes
		changed = true
	}

	if request.Odometer != nil {
		if *request.Odometer < 0 {
			return nil, log.ErrorWithType(ErrValidation, "odometer cannot be negative")
		}
		logEntry.Odometer = request.Odometer
		changed = true
	}

	if request.Date != nil {
		date, err := parseDateTime(*request.Date)
		if err != nil {
			return nil, log.ErrorWithType(ErrValidation, "invalid date", "error", err)
		}
		if date.After(time.Now()) {
			return nil, log.ErrorWithType(ErrValidation, "date cannot be in the future")
		}
		logEntry.Date = date
		changed = true
	}

	if !changed {
		return nil, log.ErrorWithType(ErrValidation, "no fields to update")
	}

	if err := c.logEntryRepo.Update(ctx, c.db.SQL, logEntry); err != nil {
		return nil, log.Err("failed to update log entry", err, "logEntryID", logEntryID)
	}

	return logEntry, nil
}

func (c *LogEntryController) DeleteLogEntry(ctx context.Context, logEntryID int) error {
	log := logger.NewWithContext(ctx, "logEntryController").Function("DeleteLogEntry")

	if logEntryID <= 0 {
		return log.ErrorWithType(ErrValidation, "logEntryId must be positive")
	}

	if err := c.logEntryRepo.Delete(ctx, c.db.SQL, logEntryID); err != nil {
		return log.Err("failed to delete log entry", err, "logEntryID", logEntryID)
	}

	log.Info("Log entry deleted", "logEntryID", logEntryID)
	return nil
}
