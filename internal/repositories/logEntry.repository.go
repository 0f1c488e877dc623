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
	VEHICLE_LOGS_CACHE_PREFIX = "vehicle_logs"
	VEHICLE_LOGS_CACHE_EXPIRY = 24 * time.Hour
)

type LogEntryRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*LogEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*LogEntry, error)
	GetByVehicleID(ctx context.Context, tx *gorm.DB, vehicleID int) ([]*LogEntry, error)
	Create(ctx context.Context, tx *gorm.DB, logEntry *LogEntry) error
	Update(ctx context.Context, tx *gorm.DB, logEntry *LogEntry) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
}

type logEntryRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewLogEntryRepository(cache database.CacheClient) LogEntryRepository {
	return &logEntryRepository{
		cache: cache,
		log:   logger.New("logEntryRepository"),
	}
}

func (r *logEntryRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*LogEntry, error) {
	log := r.log.Function("GetAll")

	logEntries, err := gorm.G[*LogEntry](tx).
		Preload("Vehicle", nil).
		Order("date DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get all log entries", err)
	}

	return logEntries, nil
}

func (r *logEntryRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*LogEntry, error) {
	log := r.log.Function("GetByID")

	if id <= 0 {
		return nil, ErrInvalidID
	}

	logEntry, err := gorm.G[*LogEntry](tx).
		Where(LogEntry{BaseModel: BaseModel{ID: id}}).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, log.Err("failed to get log entry", err, "logEntryID", id)
	}

	return logEntry, nil
}

func (r *logEntryRepository) GetByVehicleID(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID int,
) ([]*LogEntry, error) {
	log := r.log.Function("GetByVehicleID")

	if vehicleID <= 0 {
		return nil, ErrInvalidID
	}

	var cached []*LogEntry
	found, err := database.NewCacheBuilder(r.cache, vehicleID).
		WithContext(ctx).
		WithHash(VEHICLE_LOGS_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get log entries from cache", "vehicleID", vehicleID, "error", err)
	}

	if found {
		log.Info("Log entries retrieved from cache", "vehicleID", vehicleID, "count", len(cached))
		return cached, nil
	}

	logEntries, err := gorm.G[*LogEntry](tx).
		Where(LogEntry{VehicleID: vehicleID}).
		Order("date DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get vehicle log entries", err, "vehicleID", vehicleID)
	}

	err = database.NewCacheBuilder(r.cache, vehicleID).
		WithContext(ctx).
		WithHash(VEHICLE_LOGS_CACHE_PREFIX).
		WithStruct(logEntries).
		WithTTL(VEHICLE_LOGS_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to set log entries in cache", "vehicleID", vehicleID, "error", err)
	}

	return logEntries, nil
}

func (r *logEntryRepository) Create(ctx context.Context, tx *gorm.DB, logEntry *LogEntry) error {
	log := r.log.Function("Create")

	if logEntry == nil {
		return ErrNilEntity
	}

	err := gorm.G[LogEntry](tx).Create(ctx, logEntry)
	if err != nil {
		return log.Err(
			"failed to create log entry",
			err,
			"vehicleID", logEntry.VehicleID,
			"description", logEntry.Description,
		)
	}

	r.clearVehicleLogCache(ctx, logEntry.VehicleID)

	return nil
}

func (r *logEntryRepository) Update(ctx context.Context, tx *gorm.DB, logEntry *LogEntry) error {
	log := r.log.Function("Update")

	if logEntry == nil {
		return ErrNilEntity
	}
	if logEntry.ID <= 0 {
		return ErrInvalidID
	}

	result := tx.WithContext(ctx).Model(&LogEntry{}).Where("id = ?", logEntry.ID).Updates(logEntry)
	if result.Error != nil {
		return log.Err("failed to update log entry", result.Error, "logEntryID", logEntry.ID)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.clearVehicleLogCache(ctx, logEntry.VehicleID)

	return nil
}

func (r *logEntryRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.Function("Delete")

	if id <= 0 {
		return ErrInvalidID
	}

	var existing LogEntry
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Debug("log entry already absent", "logEntryID", id)
			return nil
		}
		return log.Err("failed to load log entry for delete", err, "logEntryID", id)
	}

	result := tx.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&LogEntry{})
	if result.Error != nil {
		return log.Err("failed to delete log entry", result.Error, "logEntryID", id)
	}

	r.clearVehicleLogCache(ctx, existing.VehicleID)

	return nil
}

func (r *logEntryRepository) clearVehicleLogCache(ctx context.Context, vehicleID int) {
	err := database.NewCacheBuilder(r.cache, vehicleID).
		WithContext(ctx).
		WithHash(VEHICLE_LOGS_CACHE_PREFIX).
		Delete()
	if err != nil {
		r.log.Warn("failed to clear vehicle log cache", "vehicleID", vehicleID, "error", err)
	}
}
