package models

import (
	"time"

	"gorm.io/gorm"
)

// Reminder is a scheduled, not-yet-performed maintenance obligation. Once
// IsCompleted flips to true the reminder is terminal; the completion workflow
// rejects a second completion.
type Reminder struct {
	BaseModel
	VehicleID   int       `gorm:"type:int;not null;index:idx_reminders_vehicle" json:"vehicleId" validate:"required"`
	Description string    `gorm:"type:text;not null"                            json:"description" validate:"required"`
	Type        EntryType `gorm:"type:text;not null;default:'maintenance'"      json:"type"`
	DueDate     time.Time `gorm:"type:timestamp;not null;index:idx_reminders_due_date" json:"dueDate" validate:"required"`
	DueOdometer *int      `gorm:"type:int"                                      json:"dueOdometer,omitempty"`
	IsCompleted bool      `gorm:"not null;default:false;index:idx_reminders_completed" json:"isCompleted"`

	// Relationships
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) (err error) {
	if r.VehicleID <= 0 {
		return gorm.ErrInvalidValue
	}
	if r.Description == "" {
		return gorm.ErrInvalidValue
	}
	if r.Type == "" {
		r.Type = EntryTypeMaintenance
	}
	if !r.Type.IsValid() {
		return gorm.ErrInvalidValue
	}
	if r.DueDate.IsZero() {
		return gorm.ErrInvalidValue
	}
	return nil
}
