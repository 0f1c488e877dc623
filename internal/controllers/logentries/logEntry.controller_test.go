package logEntriesController

import (
	"context"
	"testing"
	"time"

	"github.com/simonlarsson92/GreaseMonkeyJournal/config"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
	. "github.com/simonlarsson92/GreaseMonkeyJournal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLogEntryRepo struct {
	entries map[int]*LogEntry
	nextID  int
}

func newFakeLogEntryRepo(entries ...*LogEntry) *fakeLogEntryRepo {
	repo := &fakeLogEntryRepo{
		entries: make(map[int]*LogEntry),
		nextID:  1,
	}
	for _, entry := range entries {
		repo.entries[entry.ID] = entry
		if entry.ID >= repo.nextID {
			repo.nextID = entry.ID + 1
		}
	}
	return repo
}

func (f *fakeLogEntryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*LogEntry, error) {
	all := make([]*LogEntry, 0, len(f.entries))
	for _, entry := range f.entries {
		all = append(all, entry)
	}
	return all, nil
}

func (f *fakeLogEntryRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*LogEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeLogEntryRepo) GetByVehicleID(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID int,
) ([]*LogEntry, error) {
	var matched []*LogEntry
	for _, entry := range f.entries {
		if entry.VehicleID == vehicleID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (f *fakeLogEntryRepo) Create(ctx context.Context, tx *gorm.DB, logEntry *LogEntry) error {
	logEntry.ID = f.nextID
	f.nextID++
	f.entries[logEntry.ID] = logEntry
	return nil
}

func (f *fakeLogEntryRepo) Update(ctx context.Context, tx *gorm.DB, logEntry *LogEntry) error {
	if _, ok := f.entries[logEntry.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.entries[logEntry.ID] = logEntry
	return nil
}

func (f *fakeLogEntryRepo) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	delete(f.entries, id)
	return nil
}

type fakeVehicleRepo struct {
	vehicles map[int]*Vehicle
}

func (f *fakeVehicleRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*Vehicle, error) {
	return nil, nil
}

func (f *fakeVehicleRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Vehicle, error) {
	vehicle, ok := f.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vehicle, nil
}

func (f *fakeVehicleRepo) Create(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	return nil
}

func (f *fakeVehicleRepo) Update(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	return nil
}

func (f *fakeVehicleRepo) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	return nil
}

func newController(entries ...*LogEntry) *LogEntryController {
	return &LogEntryController{
		logEntryRepo: newFakeLogEntryRepo(entries...),
		vehicleRepo: &fakeVehicleRepo{vehicles: map[int]*Vehicle{
			1: {BaseModel: BaseModel{ID: 1}, Make: "Toyota", Model: "Corolla", Year: 2019},
		}},
		db:     database.DB{},
		Config: config.Config{},
	}
}

func pastDate() string {
	return time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
}

func TestCreateLogEntry(t *testing.T) {
	controller := newController()

	entry, err := controller.CreateLogEntry(context.Background(), &CreateLogEntryRequest{
		VehicleID:   1,
		Description: "Oil change",
		Cost:        decimal.NewFromFloat(64.50),
		Date:        pastDate(),
	})
	require.NoError(t, err)

	assert.NotZero(t, entry.ID)
	assert.Equal(t, 1, entry.VehicleID)
	assert.Equal(t, EntryTypeMaintenance, entry.Type, "type should default to maintenance")
	assert.Nil(t, entry.ReminderID, "manual entries carry no reminder reference")
	assert.True(t, entry.Cost.Equal(decimal.NewFromFloat(64.50)))
}

func TestCreateLogEntryValidation(t *testing.T) {
	negativeOdometer := -10

	tests := []struct {
		name     string
		request  CreateLogEntryRequest
		expected error
	}{
		{
			name: "Zero vehicle id",
			request: CreateLogEntryRequest{
				VehicleID: 0, Description: "work", Date: pastDate(),
			},
			expected: ErrValidation,
		},
		{
			name: "Unknown vehicle",
			request: CreateLogEntryRequest{
				VehicleID: 999, Description: "work", Date: pastDate(),
			},
			expected: ErrNotFound,
		},
		{
			name: "Empty description",
			request: CreateLogEntryRequest{
				VehicleID: 1, Description: "  ", Date: pastDate(),
			},
			expected: ErrValidation,
		},
		{
			name: "Negative cost",
			request: CreateLogEntryRequest{
				VehicleID: 1, Description: "work",
				Cost: decimal.NewFromInt(-1), Date: pastDate(),
			},
			expected: ErrValidation,
		},
		{
			name: "Negative odometer",
			request: CreateLogEntryRequest{
				VehicleID: 1, Description: "work",
				Odometer: &negativeOdometer, Date: pastDate(),
			},
			expected: ErrValidation,
		},
		{
			name: "Future date",
			request: CreateLogEntryRequest{
				VehicleID: 1, Description: "work",
				Date: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
			},
			expected: ErrValidation,
		},
		{
			name: "Invalid type",
			request: CreateLogEntryRequest{
				VehicleID: 1, Description: "work",
				Type: EntryType("detailing"), Date: pastDate(),
			},
			expected: ErrValidation,
		},
		{
			name: "Missing date",
			request: CreateLogEntryRequest{
				VehicleID: 1, Description: "work", Date: "",
			},
			expected: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := newController()

			_, err := controller.CreateLogEntry(context.Background(), &tt.request)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestUpdateLogEntry(t *testing.T) {
	controller := newController(&LogEntry{
		BaseModel:   BaseModel{ID: 5},
		VehicleID:   1,
		Description: "Oil change",
		Type:        EntryTypeMaintenance,
		Cost:        decimal.NewFromInt(60),
		Date:        time.Now().Add(-48 * time.Hour),
	})

	newCost := decimal.NewFromFloat(75.25)
	notes := "Used synthetic oil"

	entry, err := controller.UpdateLogEntry(context.Background(), 5, &UpdateLogEntryRequest{
		Cost:  &newCost,
		Notes: &notes,
	})
	require.NoError(t, err)

	assert.True(t, entry.Cost.Equal(newCost))
	require.NotNil(t, entry.Notes)
	assert.Equal(t, notes, *entry.Notes)
	assert.Equal(t, "Oil change", entry.Description)
}

func TestUpdateLogEntryNoFields(t *testing.T) {
	controller := newController(&LogEntry{
		BaseModel: BaseModel{ID: 5}, VehicleID: 1,
		Description: "Oil change", Date: time.Now().Add(-time.Hour),
	})

	_, err := controller.UpdateLogEntry(context.Background(), 5, &UpdateLogEntryRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetLogEntryNotFound(t *testing.T) {
	controller := newController()

	_, err := controller.GetLogEntry(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaxNotesLength(t *testing.T) {
	assert.Equal(t, 1000, MaxNotesLength)
}
