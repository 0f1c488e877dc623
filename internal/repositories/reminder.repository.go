package repositories

import (
	"context"
	"time"

	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"
	. "github.com/simonlarsson92/GreaseMonkeyJournal/internal/models"

	"gorm.io/gorm"
)

const (
	VEHICLE_REMINDERS_CACHE_PREFIX = "vehicle_reminders"
	VEHICLE_REMINDERS_CACHE_EXPIRY = 24 * time.Hour
)

type ReminderRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Reminder, error)
	GetAllWithVehicle(ctx context.Context, tx *gorm.DB) ([]*Reminder, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Reminder, error)
	GetByIDWithVehicle(ctx context.Context, tx *gorm.DB, id int) (*Reminder, error)
	GetByVehicleID(ctx context.Context, tx *gorm.DB, vehicleID int) ([]*Reminder, error)
	GetOverdue(ctx context.Context, tx *gorm.DB, asOf time.Time) ([]*Reminder, error)
	Create(ctx context.Context, tx *gorm.DB, reminder *Reminder) error
	Update(ctx context.Context, tx *gorm.DB, reminder *Reminder) error
	Complete(ctx context.Context, tx *gorm.DB, id int) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, id int) error
}

type reminderRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewReminderRepository(cache database.CacheClient) ReminderRepository {
	return &reminderRepository{
		cache: cache,
		log:   logger.New("reminderRepository"),
	}
}

func (r *reminderRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Reminder, error) {
	log := r.log.Function("GetAll")

	reminders, err := gorm.G[*Reminder](tx).
		Order("due_date ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get all reminders", err)
	}

	return reminders, nil
}

func (r *reminderRepository) GetAllWithVehicle(
	ctx context.Context,
	tx *gorm.DB,
) ([]*Reminder, error) {
	log := r.log.Function("GetAllWithVehicle")

	reminders, err := gorm.G[*Reminder](tx).
		Preload("Vehicle", nil).
		Order("due_date ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get all reminders with vehicle", err)
	}

	return reminders, nil
}

func (r *reminderRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Reminder, error) {
	log := r.log.Function("GetByID")

	if id <= 0 {
		return nil, ErrInvalidID
	}

	reminder, err := gorm.G[*Reminder](tx).
		Where(Reminder{BaseModel: BaseModel{ID: id}}).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, log.Err("failed to get reminder", err, "reminderID", id)
	}

	return reminder, nil
}

func (r *reminderRepository) GetByIDWithVehicle(
	ctx context.Context,
	tx *gorm.DB,
	id int,
) (*Reminder, error) {
	log := r.log.Function("GetByIDWithVehicle")

	if id <= 0 {
		return nil, ErrInvalidID
	}

	reminder, err := gorm.G[*Reminder](tx).
		Preload("Vehicle", nil).
		Where(Reminder{BaseModel: BaseModel{ID: id}}).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, log.Err("failed to get reminder with vehicle", err, "reminderID", id)
	}

	return reminder, nil
}

func (r *reminderRepository) GetByVehicleID(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID int,
) ([]*Reminder, error) {
	log := r.log.Function("GetByVehicleID")

	if vehicleID <= 0 {
		return nil, ErrInvalidID
	}

	var cached []*Reminder
	found, err := database.NewCacheBuilder(r.cache, vehicleID).
		WithContext(ctx).
		WithHash(VEHICLE_REMINDERS_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get reminders from cache", "vehicleID", vehicleID, "error", err)
	}

	if found {
		log.Info("Reminders retrieved from cache", "vehicleID", vehicleID, "count", len(cached))
		return cached, nil
	}

	reminders, err := gorm.G[*Reminder](tx).
		Where(Reminder{VehicleID: vehicleID}).
		Order("due_date ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get vehicle reminders", err, "vehicleID", vehicleID)
	}

	err = database.NewCacheBuilder(r.cache, vehicleID).
		WithContext(ctx).
		WithHash(VEHICLE_REMINDERS_CACHE_PREFIX).
		WithStruct(reminders).
		WithTTL(VEHICLE_REMINDERS_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to set reminders in cache", "vehicleID", vehicleID, "error", err)
	}

	return reminders, nil
}

func (r *reminderRepository) GetOverdue(
	ctx context.Context,
	tx *gorm.DB,
	asOf time.Time,
) ([]*Reminder, error) {
	log := r.log.Function("GetOverdue")

	reminders, err := gorm.G[*Reminder](tx).
		Preload("Vehicle", nil).
		Where("is_completed = ? AND due_date <= ?", false, asOf).
		Order("due_date ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get overdue reminders", err)
	}

	return reminders, nil
}

func (r *reminderRepository) Create(ctx context.Context, tx *gorm.DB, reminder *Reminder) error {
	log := r.log.Function("Create")

	if reminder == nil {
		return ErrNilEntity
	}

	err := gorm.G[Reminder](tx).Create(ctx, reminder)
	if err != nil {
		return log.Err(
			"failed to create reminder",
			err,
			"vehicleID", reminder.VehicleID,
			"description", reminder.Description,
		)
	}

	r.clearVehicleReminderCache(ctx, reminder.VehicleID)

	return nil
}

func (r *reminderRepository) Update(ctx context.Context, tx *gorm.DB, reminder *Reminder) error {
	log := r.log.Function("Update")

	if reminder == nil {
		return ErrNilEntity
	}
	if reminder.ID <= 0 {
		return ErrInvalidID
	}

	result := tx.WithContext(ctx).Model(&Reminder{}).Where("id = ?", reminder.ID).Updates(reminder)
	if result.Error != nil {
		return log.Err("failed to update reminder", result.Error, "reminderID", reminder.ID)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.clearVehicleReminderCache(ctx, reminder.VehicleID)

	return nil
}

// Complete flips the completion flag with a guard on the current value, so of
// two concurrent completions exactly one wins. Returns false when the reminder
// was already completed (or the row is gone).
func (r *reminderRepository) Complete(ctx context.Context, tx *gorm.DB, id int) (bool, error) {
	log := r.log.Function("Complete")

	if id <= 0 {
		return false, ErrInvalidID
	}

	result := tx.WithContext(ctx).
		Model(&Reminder{}).
		Where("id = ? AND is_completed = ?", id, false).
		Update("is_completed", true)
	if result.Error != nil {
		return false, log.Err("failed to complete reminder", result.Error, "reminderID", id)
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	var reminder Reminder
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&reminder).Error; err == nil {
		r.clearVehicleReminderCache(ctx, reminder.VehicleID)
	}

	return true, nil
}

func (r *reminderRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.Function("Delete")

	if id <= 0 {
		return ErrInvalidID
	}

	var existing Reminder
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Debug("reminder already absent", "reminderID", id)
			return nil
		}
		return log.Err("failed to load reminder for delete", err, "reminderID", id)
	}

	result := tx.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&Reminder{})
	if result.Error != nil {
		return log.Err("failed to delete reminder", result.Error, "reminderID", id)
	}

	r.clearVehicleReminderCache(ctx, existing.VehicleID)

	return nil
}

func (r *reminderRepository) clearVehicleReminderCache(ctx context.Context, vehicleID int) {
	err := database.NewCacheBuilder(r.cache, vehicleID).
		WithContext(ctx).
		WithHash(VEHICLE_REMINDERS_CACHE_PREFIX).
		Delete()
	if err != nil {
		r.log.Warn("failed to clear vehicle reminder cache", "vehicleID", vehicleID, "error", err)
	}
}
