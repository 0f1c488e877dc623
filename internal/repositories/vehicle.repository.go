package repositories

import (
	"context"

	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"
	. "github.com/simonlarsson92/GreaseMonkeyJournal/internal/models"

	"gorm.io/gorm"
)

type VehicleRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Vehicle, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Vehicle, error)
	Create(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error
	Update(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
}

type vehicleRepository struct {
	log logger.Logger
}

func NewVehicleRepository() VehicleRepository {
	return &vehicleRepository{
		log: logger.New("vehicleRepository"),
	}
}

func (r *vehicleRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Vehicle, error) {
	log := r.log.Function("GetAll")

	vehicles, err := gorm.G[*Vehicle](tx).
		Order("make ASC, model ASC, year DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get all vehicles", err)
	}

	return vehicles, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Vehicle, error) {
	log := r.log.Function("GetByID")

	if id <= 0 {
		return nil, ErrInvalidID
	}

	vehicle, err := gorm.G[*Vehicle](tx).
		Where(Vehicle{BaseModel: BaseModel{ID: id}}).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, log.Err("failed to get vehicle", err, "vehicleID", id)
	}

	return vehicle, nil
}

func (r *vehicleRepository) Create(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	log := r.log.Function("Create")

	if vehicle == nil {
		return ErrNilEntity
	}

	if err := tx.WithContext(ctx).Create(vehicle).Error; err != nil {
		return log.Err(
			"failed to create vehicle",
			err,
			"make", vehicle.Make,
			"model", vehicle.Model,
		)
	}

	log.Info("Vehicle created", "vehicleID", vehicle.ID, "registration", vehicle.Registration)
	return nil
}

func (r *vehicleRepository) Update(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	log := r.log.Function("Update")

	if vehicle == nil {
		return ErrNilEntity
	}
	if vehicle.ID <= 0 {
		return ErrInvalidID
	}

	result := tx.WithContext(ctx).Model(&Vehicle{}).Where("id = ?", vehicle.ID).Updates(vehicle)
	if result.Error != nil {
		return log.Err("failed to update vehicle", result.Error, "vehicleID", vehicle.ID)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes the vehicle; dependent reminders and log entries go with it
// through the FK cascade. Deleting an absent id is a no-op.
func (r *vehicleRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.Function("Delete")

	if id <= 0 {
		return ErrInvalidID
	}

	result := tx.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&Vehicle{})
	if result.Error != nil {
		return log.Err("failed to delete vehicle", result.Error, "vehicleID", id)
	}

	if result.RowsAffected == 0 {
		log.Debug("vehicle already absent", "vehicleID", id)
	}

	return nil
}
