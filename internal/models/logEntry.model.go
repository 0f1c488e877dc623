package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryType categorizes a maintenance obligation or a historical record.
type EntryType string

const (
	EntryTypeMaintenance EntryType = "maintenance"
	EntryTypeRepair      EntryType = "repair"
)

func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeMaintenance, EntryTypeRepair:
		return true
	}
	return false
}

// LogEntry is a historical record of work performed on a vehicle. Entries are
// created by direct user entry or spawned by the reminder completion workflow;
// spawned entries carry ReminderID so history stays traceable to its trigger.
type LogEntry struct {
	BaseModel
	VehicleID   int             `gorm:"type:int;not null;index:idx_log_entries_vehicle" json:"vehicleId" validate:"required"`
	ReminderID  *int            `gorm:"type:int;index:idx_log_entries_reminder"         json:"reminderId,omitempty"`
	Description string          `gorm:"type:text;not null"                              json:"description" validate:"required"`
	Type        EntryType       `gorm:"type:text;not null;default:'maintenance'"        json:"type"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"           json:"cost"`
	Notes       *string         `gorm:"type:text"                                       json:"notes,omitempty"`
	Odometer    *int            `gorm:"type:int"                                        json:"odometer,omitempty"`
	Date        time.Time       `gorm:"type:timestamp;not null;index:idx_log_entries_date" json:"date" validate:"required"`

	// Relationships
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (le *LogEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if le.VehicleID <= 0 {
		return gorm.ErrInvalidValue
	}
	if le.Description == "" {
		return gorm.ErrInvalidValue
	}
	if le.Type == "" {
		le.Type = EntryTypeMaintenance
	}
	if !le.Type.IsValid() {
		return gorm.ErrInvalidValue
	}
	if le.Date.IsZero() {
		le.Date = time.Now()
	}
	return nil
}
