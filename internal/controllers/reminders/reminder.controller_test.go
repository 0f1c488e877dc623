package remindersController

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/simonlarsson92/GreaseMonkeyJournal/config"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
	. "github.com/simonlarsson92/GreaseMonkeyJournal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReminderRepo struct {
	reminders map[int]*Reminder
	nextID    int
	created   []*Reminder
}

func newFakeReminderRepo(reminders ...*Reminder) *fakeReminderRepo {
	repo := &fakeReminderRepo{
		reminders: make(map[int]*Reminder),
		nextID:    1,
	}
	for _, reminder := range reminders {
		repo.reminders[reminder.ID] = reminder
		if reminder.ID >= repo.nextID {
			repo.nextID = reminder.ID + 1
		}
	}
	return repo
}

func (f *fakeReminderRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*Reminder, error) {
	all := make([]*Reminder, 0, len(f.reminders))
	for _, reminder := range f.reminders {
		all = append(all, reminder)
	}
	return all, nil
}

func (f *fakeReminderRepo) GetAllWithVehicle(ctx context.Context, tx *gorm.DB) ([]*Reminder, error) {
	return f.GetAll(ctx, tx)
}

func (f *fakeReminderRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Reminder, error) {
	reminder, ok := f.reminders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *reminder
	return &copied, nil
}

func (f *fakeReminderRepo) GetByIDWithVehicle(
	ctx context.Context,
	tx *gorm.DB,
	id int,
) (*Reminder, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakeReminderRepo) GetByVehicleID(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID int,
) ([]*Reminder, error) {
	var matched []*Reminder
	for _, reminder := range f.reminders {
		if reminder.VehicleID == vehicleID {
			matched = append(matched, reminder)
		}
	}
	return matched, nil
}

func (f *fakeReminderRepo) GetOverdue(
	ctx context.Context,
	tx *gorm.DB,
	asOf time.Time,
) ([]*Reminder, error) {
	var overdue []*Reminder
	for _, reminder := range f.reminders {
		if !reminder.IsCompleted && !reminder.DueDate.After(asOf) {
			overdue = append(overdue, reminder)
		}
	}
	return overdue, nil
}

func (f *fakeReminderRepo) Create(ctx context.Context, tx *gorm.DB, reminder *Reminder) error {
	reminder.ID = f.nextID
	f.nextID++
	f.reminders[reminder.ID] = reminder
	f.created = append(f.created, reminder)
	return nil
}

func (f *fakeReminderRepo) Update(ctx context.Context, tx *gorm.DB, reminder *Reminder) error {
	if _, ok := f.reminders[reminder.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.reminders[reminder.ID] = reminder
	return nil
}

func (f *fakeReminderRepo) Complete(ctx context.Context, tx *gorm.DB, id int) (bool, error) {
	reminder, ok := f.reminders[id]
	if !ok || reminder.IsCompleted {
		return false, nil
	}
	reminder.IsCompleted = true
	return true, nil
}

func (f *fakeReminderRepo) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	delete(f.reminders, id)
	return nil
}

type fakeLogEntryRepo struct {
	created   []*LogEntry
	createErr error
	nextID    int
}

func (f *fakeLogEntryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*LogEntry, error) {
	return f.created, nil
}

func (f *fakeLogEntryRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*LogEntry, error) {
	for _, entry := range f.created {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLogEntryRepo) GetByVehicleID(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID int,
) ([]*LogEntry, error) {
	var matched []*LogEntry
	for _, entry := range f.created {
		if entry.VehicleID == vehicleID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (f *fakeLogEntryRepo) Create(ctx context.Context, tx *gorm.DB, logEntry *LogEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	logEntry.ID = f.nextID
	f.created = append(f.created, logEntry)
	return nil
}

func (f *fakeLogEntryRepo) Update(ctx context.Context, tx *gorm.DB, logEntry *LogEntry) error {
	return nil
}

func (f *fakeLogEntryRepo) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	return nil
}

type fakeVehicleRepo struct {
	vehicles map[int]*Vehicle
}

func (f *fakeVehicleRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*Vehicle, error) {
	all := make([]*Vehicle, 0, len(f.vehicles))
	for _, vehicle := range f.vehicles {
		all = append(all, vehicle)
	}
	return all, nil
}

func (f *fakeVehicleRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Vehicle, error) {
	vehicle, ok := f.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vehicle, nil
}

func (f *fakeVehicleRepo) Create(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	f.vehicles[vehicle.ID] = vehicle
	return nil
}

func (f *fakeVehicleRepo) Update(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	return nil
}

func (f *fakeVehicleRepo) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	delete(f.vehicles, id)
	return nil
}

// fakeTransaction runs the callback directly so controller logic is testable
// without a live database. A failed callback leaves earlier fake writes in
// place, which the rollback tests account for.
type fakeTransaction struct {
	executed int
}

func (f *fakeTransaction) Execute(
	ctx context.Context,
	fn func(ctx context.Context, tx *gorm.DB) error,
) error {
	f.executed++
	return fn(ctx, nil)
}

type controllerFixture struct {
	controller   ReminderControllerInterface
	reminderRepo *fakeReminderRepo
	logEntryRepo *fakeLogEntryRepo
	vehicleRepo  *fakeVehicleRepo
	transaction  *fakeTransaction
}

func newFixture(reminders ...*Reminder) *controllerFixture {
	reminderRepo := newFakeReminderRepo(reminders...)
	logEntryRepo := &fakeLogEntryRepo{}
	vehicleRepo := &fakeVehicleRepo{vehicles: map[int]*Vehicle{
		1: {BaseModel: BaseModel{ID: 1}, Make: "Toyota", Model: "Corolla", Year: 2019},
	}}
	transaction := &fakeTransaction{}

	controller := &ReminderController{
		reminderRepo: reminderRepo,
		logEntryRepo: logEntryRepo,
		vehicleRepo:  vehicleRepo,
		transaction:  transaction,
		db:           database.DB{},
		Config:       config.Config{},
	}

	return &controllerFixture{
		controller:   controller,
		reminderRepo: reminderRepo,
		logEntryRepo: logEntryRepo,
		vehicleRepo:  vehicleRepo,
		transaction:  transaction,
	}
}

func openReminder(id int) *Reminder {
	return &Reminder{
		BaseModel:   BaseModel{ID: id},
		VehicleID:   1,
		Description: "Oil change",
		Type:        EntryTypeMaintenance,
		DueDate:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		IsCompleted: false,
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name        string
		dateStr     string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Valid RFC3339 datetime",
			dateStr:     "2024-01-15T14:30:00Z",
			expectError: false,
		},
		{
			name:        "Valid RFC3339 with timezone",
			dateStr:     "2024-01-15T14:30:00-05:00",
			expectError: false,
		},
		{
			name:        "Empty string",
			dateStr:     "",
			expectError: true,
			errorMsg:    "datetime is required",
		},
		{
			name:        "Invalid format",
			dateStr:     "2024-01-15 14:30:00",
			expectError: true,
			errorMsg:    "invalid datetime format, expected RFC3339",
		},
		{
			name:        "Invalid date",
			dateStr:     "not-a-date",
			expectError: true,
			errorMsg:    "invalid datetime format, expected RFC3339",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseDateTime(tt.dateStr)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
				assert.True(t, result.IsZero())
			} else {
				assert.NoError(t, err)
				assert.False(t, result.IsZero())
			}
		})
	}
}

func TestCompleteReminderSuccess(t *testing.T) {
	fixture := newFixture(openReminder(10))
	logDate := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)

	err := fixture.controller.CompleteReminder(context.Background(), &CompleteReminderRequest{
		ReminderID:     10,
		LogDescription: "Changed oil and filter",
		LogDate:        logDate.Format(time.RFC3339),
	})
	require.NoError(t, err)

	assert.True(t, fixture.reminderRepo.reminders[10].IsCompleted)
	assert.Equal(t, 1, fixture.transaction.executed)

	require.Len(t, fixture.logEntryRepo.created, 1)
	entry := fixture.logEntryRepo.created[0]
	assert.Equal(t, 1, entry.VehicleID)
	require.NotNil(t, entry.ReminderID)
	assert.Equal(t, 10, *entry.ReminderID)
	assert.Equal(t, "Changed oil and filter", entry.Description)
	assert.Equal(t, EntryTypeMaintenance, entry.Type)
	assert.True(t, entry.Date.Equal(logDate))

	// No successor without recreate
	assert.Empty(t, fixture.reminderRepo.created)
}

func TestCompleteReminderWithRecreate(t *testing.T) {
	dueOdometer := 50000
	original := openReminder(10)
	original.DueOdometer = &dueOdometer

	fixture := newFixture(original)
	newDue := "2026-12-01T00:00:00Z"

	err := fixture.controller.CompleteReminder(context.Background(), &CompleteReminderRequest{
		ReminderID:     10,
		LogDescription: "Changed oil and filter",
		LogDate:        time.Now().Add(-time.Hour).Format(time.RFC3339),
		Recreate:       true,
		NewDueDate:     &newDue,
	})
	require.NoError(t, err)

	require.Len(t, fixture.reminderRepo.created, 1)
	successor := fixture.reminderRepo.created[0]
	assert.NotEqual(t, original.ID, successor.ID)
	assert.Equal(t, original.VehicleID, successor.VehicleID)
	assert.Equal(t, original.Description, successor.Description)
	assert.Equal(t, original.Type, successor.Type)
	assert.Equal(t, original.DueOdometer, successor.DueOdometer)
	assert.False(t, successor.IsCompleted)

	expectedDue, _ := time.Parse(time.RFC3339, newDue)
	assert.True(t, successor.DueDate.Equal(expectedDue))
}

func TestCompleteReminderValidation(t *testing.T) {
	newDue := "2026-12-01T00:00:00Z"
	badDate := "not-a-date"

	tests := []struct {
		name    string
		request CompleteReminderRequest
	}{
		{
			name: "Zero reminder id",
			request: CompleteReminderRequest{
				ReminderID:     0,
				LogDescription: "work",
				LogDate:        "2026-01-01T00:00:00Z",
			},
		},
		{
			name: "Negative reminder id",
			request: CompleteReminderRequest{
				ReminderID:     -5,
				LogDescription: "work",
				LogDate:        "2026-01-01T00:00:00Z",
			},
		},
		{
			name: "Empty description",
			request: CompleteReminderRequest{
				ReminderID:     10,
				LogDescription: "",
				LogDate:        "2026-01-01T00:00:00Z",
			},
		},
		{
			name: "Whitespace description",
			request: CompleteReminderRequest{
				ReminderID:     10,
				LogDescription: "   ",
				LogDate:        "2026-01-01T00:00:00Z",
			},
		},
		{
			name: "Missing log date",
			request: CompleteReminderRequest{
				ReminderID:     10,
				LogDescription: "work",
				LogDate:        "",
			},
		},
		{
			name: "Malformed log date",
			request: CompleteReminderRequest{
				ReminderID:     10,
				LogDescription: "work",
				LogDate:        badDate,
			},
		},
		{
			name: "Future log date",
			request: CompleteReminderRequest{
				ReminderID:     10,
				LogDescription: "work",
				LogDate:        time.Now().Add(48 * time.Hour).Format(time.RFC3339),
			},
		},
		{
			name: "Recreate without new due date",
			request: CompleteReminderRequest{
				ReminderID:     10,
				LogDescription: "work",
				LogDate:        "2026-01-01T00:00:00Z",
				Recreate:       true,
			},
		},
		{
			name: "Recreate with malformed new due date",
			request: CompleteReminderRequest{
				ReminderID:     10,
				LogDescription: "work",
				LogDate:        "2026-01-01T00:00:00Z",
				Recreate:       true,
				NewDueDate:     &badDate,
			},
		},
		{
			name: "New due date without recreate",
			request: CompleteReminderRequest{
				ReminderID:     10,
				LogDescription: "work",
				LogDate:        "2026-01-01T00:00:00Z",
				Recreate:       false,
				NewDueDate:     &newDue,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFixture(openReminder(10))

			err := fixture.controller.CompleteReminder(context.Background(), &tt.request)

			assert.ErrorIs(t, err, ErrValidation)
			assert.False(t, fixture.reminderRepo.reminders[10].IsCompleted)
			assert.Empty(t, fixture.logEntryRepo.created)
			assert.Zero(t, fixture.transaction.executed)
		})
	}
}

func TestCompleteReminderTooLongDescription(t *testing.T) {
	fixture := newFixture(openReminder(10))

	long := make([]byte, MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'x'
	}

	err := fixture.controller.CompleteReminder(context.Background(), &CompleteReminderRequest{
		ReminderID:     10,
		LogDescription: string(long),
		LogDate:        "2026-01-01T00:00:00Z",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompleteReminderNotFound(t *testing.T) {
	fixture := newFixture(openReminder(10))

	err := fixture.controller.CompleteReminder(context.Background(), &CompleteReminderRequest{
		ReminderID:     999999,
		LogDescription: "work",
		LogDate:        "2026-01-01T00:00:00Z",
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, fixture.logEntryRepo.created)
}

func TestCompleteReminderAlreadyCompleted(t *testing.T) {
	completed := openReminder(10)
	completed.IsCompleted = true
	fixture := newFixture(completed)

	request := &CompleteReminderRequest{
		ReminderID:     10,
		LogDescription: "work",
		LogDate:        "2026-01-01T00:00:00Z",
	}

	err := fixture.controller.CompleteReminder(context.Background(), request)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Empty(t, fixture.logEntryRepo.created)
	assert.Zero(t, fixture.transaction.executed)

	// Repeated attempts keep failing the same way and write nothing
	err = fixture.controller.CompleteReminder(context.Background(), request)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Empty(t, fixture.logEntryRepo.created)
}

func TestCompleteReminderConcurrentLoss(t *testing.T) {
	// The read sees an open reminder but the guarded update loses the race
	fixture := newFixture(openReminder(10))
	fixture.reminderRepo.reminders[10].IsCompleted = false

	raceRepo := &raceLosingReminderRepo{fakeReminderRepo: fixture.reminderRepo}
	fixture.controller.(*ReminderController).reminderRepo = raceRepo

	err := fixture.controller.CompleteReminder(context.Background(), &CompleteReminderRequest{
		ReminderID:     10,
		LogDescription: "work",
		LogDate:        "2026-01-01T00:00:00Z",
	})

	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Empty(t, fixture.logEntryRepo.created)
}

type raceLosingReminderRepo struct {
	*fakeReminderRepo
}

func (r *raceLosingReminderRepo) Complete(ctx context.Context, tx *gorm.DB, id int) (bool, error) {
	return false, nil
}

func TestCompleteReminderCancelledContext(t *testing.T) {
	fixture := newFixture(openReminder(10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fixture.controller.CompleteReminder(ctx, &CompleteReminderRequest{
		ReminderID:     10,
		LogDescription: "work",
		LogDate:        "2026-01-01T00:00:00Z",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, fixture.reminderRepo.reminders[10].IsCompleted)
	assert.Empty(t, fixture.logEntryRepo.created)
	assert.Zero(t, fixture.transaction.executed)
}

func TestCompleteReminderLogEntryFailureAborts(t *testing.T) {
	fixture := newFixture(openReminder(10))
	fixture.logEntryRepo.createErr = errors.New("insert failed")

	err := fixture.controller.CompleteReminder(context.Background(), &CompleteReminderRequest{
		ReminderID:     10,
		LogDescription: "work",
		LogDate:        "2026-01-01T00:00:00Z",
	})

	require.Error(t, err)
	assert.Empty(t, fixture.logEntryRepo.created)
	assert.Empty(t, fixture.reminderRepo.created)
}

func TestCreateReminder(t *testing.T) {
	fixture := newFixture()

	reminder, err := fixture.controller.CreateReminder(context.Background(), &CreateReminderRequest{
		VehicleID:   1,
		Description: "Brake inspection",
		DueDate:     "2026-10-01T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, reminder.VehicleID)
	assert.Equal(t, "Brake inspection", reminder.Description)
	assert.Equal(t, EntryTypeMaintenance, reminder.Type)
	assert.False(t, reminder.IsCompleted)
	assert.NotZero(t, reminder.ID)
}

func TestCreateReminderValidation(t *testing.T) {
	tests := []struct {
		name     string
		request  CreateReminderRequest
		expected error
	}{
		{
			name: "Missing vehicle",
			request: CreateReminderRequest{
				VehicleID:   999,
				Description: "work",
				DueDate:     "2026-10-01T00:00:00Z",
			},
			expected: ErrNotFound,
		},
		{
			name: "Zero vehicle id",
			request: CreateReminderRequest{
				VehicleID:   0,
				Description: "work",
				DueDate:     "2026-10-01T00:00:00Z",
			},
			expected: ErrValidation,
		},
		{
			name: "Empty description",
			request: CreateReminderRequest{
				VehicleID:   1,
				Description: "  ",
				DueDate:     "2026-10-01T00:00:00Z",
			},
			expected: ErrValidation,
		},
		{
			name: "Bad due date",
			request: CreateReminderRequest{
				VehicleID:   1,
				Description: "work",
				DueDate:     "tomorrow",
			},
			expected: ErrValidation,
		},
		{
			name: "Invalid type",
			request: CreateReminderRequest{
				VehicleID:   1,
				Description: "work",
				Type:        EntryType("detailing"),
				DueDate:     "2026-10-01T00:00:00Z",
			},
			expected: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFixture()

			_, err := fixture.controller.CreateReminder(context.Background(), &tt.request)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestUpdateReminder(t *testing.T) {
	fixture := newFixture(openReminder(10))
	newDescription := "Oil and filter change"

	reminder, err := fixture.controller.UpdateReminder(context.Background(), 10, &UpdateReminderRequest{
		Description: &newDescription,
	})
	require.NoError(t, err)
	assert.Equal(t, newDescription, reminder.Description)
}

func TestUpdateReminderNoFields(t *testing.T) {
	fixture := newFixture(openReminder(10))

	_, err := fixture.controller.UpdateReminder(context.Background(), 10, &UpdateReminderRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetReminderNotFound(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.controller.GetReminder(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaxDescriptionLength(t *testing.T) {
	assert.Equal(t, 500, MaxDescriptionLength)
}
