package vehiclesController

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

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinVehicleYear = 1900
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type VehicleController struct {
	vehicleRepo repositories.VehicleRepository
	eventBus    *events.EventBus
	db          database.DB
	Config      config.Config
}

type CreateVehicleRequest struct {
	Make         string         `json:"make"`
	Model        string         `json:"model"`
	Year         int            `json:"year"`
	Registration string         `json:"registration"`
	OdometerUnit OdometerUnit   `json:"odometerUnit,omitempty"`
	Specs        datatypes.JSON `json:"specs,omitempty"`
}

type UpdateVehicleRequest struct {
	Make         *string         `json:"make,omitempty"`
	Model        *string         `json:"model,omitempty"`
	Year         *int            `json:"year,omitempty"`
	Registration *string         `json:"registration,omitempty"`
	OdometerUnit *OdometerUnit   `json:"odometerUnit,omitempty"`
	Specs        *datatypes.JSON `json:"specs,omitempty"`
}

type VehicleControllerInterface interface {
	GetVehicles(ctx context.Context) ([]*Vehicle, error)
	GetVehicle(ctx context.Context, vehicleID int) (*Vehicle, error)
	CreateVehicle(ctx context.Context, request *CreateVehicleRequest) (*Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicleID int, request *UpdateVehicleRequest) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, vehicleID int) error
}

func New(
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) VehicleControllerInterface {
	return &VehicleController{
		vehicleRepo: repos.Vehicle,
		eventBus:    eventBus,
		db:          db,
		Config:      config,
	}
}

func validateYear(year int) error {
	if year < MinVehicleYear || year > time.Now().Year()+1 {
		return errors.New("year out of range")
	}
	return nil
}

func (c *VehicleController) GetVehicles(ctx context.Context) ([]*Vehicle, error) {
	log := logger.NewWithContext(ctx, "vehicleController").Function("GetVehicles")

	vehicles, err := c.vehicleRepo.GetAll(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to get vehicles", err)
	}

	return vehicles, nil
}

func (c *VehicleController) GetVehicle(ctx context.Context, vehicleID int) (*Vehicle, error) {
	log := logger.NewWithContext(ctx, "vehicleController").Function("GetVehicle")

	if vehicleID <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "vehicleId must be positive")
	}

	vehicle, err := c.vehicleRepo.GetByID(ctx, c.db.SQL, vehicleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "vehicle not found")
		}
		return nil, log.Err("failed to get vehicle", err, "vehicleID", vehicleID)
	}

	return vehicle, nil
}

func (c *VehicleController) CreateVehicle(
	ctx context.Context,
	request *CreateVehicleRequest,
) (*Vehicle, error) {
	log := logger.NewWithContext(ctx, "vehicleController").Function("CreateVehicle")

	if strings.TrimSpace(request.Make) == "" {
		return nil, log.ErrorWithType(ErrValidation, "make is required")
	}

	if strings.TrimSpace(request.Model) == "" {
		return nil, log.ErrorWithType(ErrValidation, "model is required")
	}

	if err := validateYear(request.Year); err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid year", "year", request.Year)
	}

	if strings.TrimSpace(request.Registration) == "" {
		return nil, log.ErrorWithType(ErrValidation, "registration is required")
	}

	odometerUnit := request.OdometerUnit
	if odometerUnit == "" {
		odometerUnit = OdometerUnitMiles
	}
	if !odometerUnit.IsValid() {
		return nil, log.ErrorWithType(ErrValidation, "invalid odometer unit", "unit", odometerUnit)
	}

	vehicle := &Vehicle{
		Make:         request.Make,
		Model:        request.Model,
		Year:         request.Year,
		Registration: request.Registration,
		OdometerUnit: odometerUnit,
		Specs:        request.Specs,
	}

	if err := c.vehicleRepo.Create(ctx, c.db.SQL, vehicle); err != nil {
		return nil, log.Err(
			"failed to create vehicle",
			err,
			"make", request.Make,
			"model", request.Model,
		)
	}

	log.Info("Vehicle created", "vehicleID", vehicle.ID, "registration", vehicle.Registration)
	return vehicle, nil
}

func (c *VehicleController) UpdateVehicle(
	ctx context.Context,
	vehicleID int,
	request *UpdateVehicleRequest,
) (*Vehicle, error) {
	log := logger.NewWithContext(ctx, "vehicleController").Function("UpdateVehicle")

	if vehicleID <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "vehicleId must be positive")
	}

	vehicle, err := c.vehicleRepo.GetByID(ctx, c.db.SQL, vehicleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "vehicle not found")
		}
		return nil, log.Err("failed to get vehicle", err, "vehicleID", vehicleID)
	}

	changed := false

	if request.Make != nil {
		if strings.TrimSpace(*request.Make) == "" {
			return nil, log.ErrorWithType(ErrValidation, "make cannot be empty")
		}
		vehicle.Make = *request.Make
		changed = true
	}

	if request.Model != nil {
		if strings.TrimSpace(*request.Model) == "" {
			return nil, log.ErrorWithType(ErrValidation, "model cannot be empty")
		}
		vehicle.Model = *request.Model
		changed = true
	}

	if request.Year != nil {
		if err := validateYear(*request.Year); err != nil {
			return nil, log.ErrorWithType(ErrValidation, "invalid year", "year", *request.Year)
		}
		vehicle.Year = *request.Year
		changed = true
	}

	if request.Registration != nil {
		if strings.TrimSpace(*request.Registration) == "" {
			return nil, log.ErrorWithType(ErrValidation, "registration cannot be empty")
		}
		vehicle.Registration = *request.Registration
		changed = true
	}

	if request.OdometerUnit != nil {
		if !request.OdometerUnit.IsValid() {
			return nil, log.ErrorWithType(
				ErrValidation,
				"invalid odometer unit",
				"unit", *request.OdometerUnit,
			)
		}
		vehicle.OdometerUnit = *request.OdometerUnit
		changed = true
	}

	if request.Specs != nil {
		vehicle.Specs = *request.Specs
		changed = true
	}

	if !changed {
		return nil, log.ErrorWithType(ErrValidation, "no fields to update")
	}

	if err := c.vehicleRepo.Update(ctx, c.db.SQL, vehicle); err != nil {
		return nil, log.Err("failed to update vehicle", err, "vehicleID", vehicleID)
	}

	return vehicle, nil
}

// DeleteVehicle removes the vehicle and, through the store's cascade, every
// reminder and log entry that belongs to it.
func (c *VehicleController) DeleteVehicle(ctx context.Context, vehicleID int) error {
	log := logger.NewWithContext(ctx, "vehicleController").Function("DeleteVehicle")

	if vehicleID <= 0 {
		return log.ErrorWithType(ErrValidation, "vehicleId must be positive")
	}

	if err := c.vehicleRepo.Delete(ctx, c.db.SQL, vehicleID); err != nil {
		return log.Err("failed to delete vehicle", err, "vehicleID", vehicleID)
	}

	if c.eventBus != nil {
		err := c.eventBus.Publish(events.VEHICLES_CHANNEL, events.Event{
			Type:      events.VEHICLE_DELETED,
			VehicleID: &vehicleID,
			Data:      map[string]any{"vehicleId": vehicleID},
		})
		if err != nil {
			log.Warn("failed to publish vehicle deleted event", "vehicleID", vehicleID, "error", err)
		}
	}

	log.Info("Vehicle deleted", "vehicleID", vehicleID)
	return nil
}
