package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OdometerUnit is the unit a vehicle's usage is measured in. Distance-based
// vehicles track miles or kilometers; equipment like generators track hours.
type OdometerUnit string

const (
	OdometerUnitMiles      OdometerUnit = "miles"
	OdometerUnitKilometers OdometerUnit = "kilometers"
	OdometerUnitHours      OdometerUnit = "hours"
)

func (u OdometerUnit) IsValid() bool {
	switch u {
	case OdometerUnitMiles, OdometerUnitKilometers, OdometerUnitHours:
		return true
	}
	return false
}

type Vehicle struct {
	BaseModel
	Make         string         `gorm:"type:text;not null"                   json:"make"         validate:"required"`
	Model        string         `gorm:"type:text;not null"                   json:"model"        validate:"required"`
	Year         int            `gorm:"type:int;not null"                    json:"year"         validate:"required"`
	Registration string         `gorm:"type:text;not null;uniqueIndex:idx_vehicles_registration" json:"registration"`
	OdometerUnit OdometerUnit   `gorm:"type:text;not null;default:'miles'"   json:"odometerUnit"`
	Specs        datatypes.JSON `gorm:"type:jsonb"                           json:"specs,omitempty"`

	// Relationships
	Reminders  []Reminder `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"reminders,omitempty"`
	LogEntries []LogEntry `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"logEntries,omitempty"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.Make == "" || v.Model == "" {
		return gorm.ErrInvalidValue
	}
	if v.Year < 1900 || v.Year > time.Now().Year()+1 {
		return gorm.ErrInvalidValue
	}
	if v.OdometerUnit == "" {
		v.OdometerUnit = OdometerUnitMiles
	}
	if !v.OdometerUnit.IsValid() {
		return gorm.ErrInvalidValue
	}
	return nil
}
