package vehiclesController

import (
	"context"
	"testing"
	"time"

	"github.com/simonlarsson92/GreaseMonkeyJournal/config"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
	. "github.com/simonlarsson92/GreaseMonkeyJournal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeVehicleRepo struct {
	vehicles map[int]*Vehicle
	nextID   int
	deleted  []int
}

func newFakeVehicleRepo(vehicles ...*Vehicle) *fakeVehicleRepo {
	repo := &fakeVehicleRepo{
		vehicles: make(map[int]*Vehicle),
		nextID:   1,
	}
	for _, vehicle := range vehicles {
		repo.vehicles[vehicle.ID] = vehicle
		if vehicle.ID >= repo.nextID {
			repo.nextID = vehicle.ID + 1
		}
	}
	return repo
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
	copied := *vehicle
	return &copied, nil
}

func (f *fakeVehicleRepo) Create(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	vehicle.ID = f.nextID
	f.nextID++
	f.vehicles[vehicle.ID] = vehicle
	return nil
}

func (f *fakeVehicleRepo) Update(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	if _, ok := f.vehicles[vehicle.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.vehicles[vehicle.ID] = vehicle
	return nil
}

func (f *fakeVehicleRepo) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	delete(f.vehicles, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func newController(repo *fakeVehicleRepo) *VehicleController {
	return &VehicleController{
		vehicleRepo: repo,
		db:          database.DB{},
		Config:      config.Config{},
	}
}

func existingVehicle() *Vehicle {
	return &Vehicle{
		BaseModel:    BaseModel{ID: 1},
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2019,
		Registration: "ABC123",
		OdometerUnit: OdometerUnitMiles,
	}
}

func TestCreateVehicle(t *testing.T) {
	controller := newController(newFakeVehicleRepo())

	vehicle, err := controller.CreateVehicle(context.Background(), &CreateVehicleRequest{
		Make:         "Volvo",
		Model:        "V60",
		Year:         2021,
		Registration: "XYZ789",
	})
	require.NoError(t, err)

	assert.NotZero(t, vehicle.ID)
	assert.Equal(t, "Volvo", vehicle.Make)
	assert.Equal(t, OdometerUnitMiles, vehicle.OdometerUnit, "unit should default to miles")
}

func TestCreateVehicleValidation(t *testing.T) {
	tests := []struct {
		name    string
		request CreateVehicleRequest
	}{
		{
			name: "Empty make",
			request: CreateVehicleRequest{
				Make: " ", Model: "V60", Year: 2021, Registration: "XYZ789",
			},
		},
		{
			name: "Empty model",
			request: CreateVehicleRequest{
				Make: "Volvo", Model: "", Year: 2021, Registration: "XYZ789",
			},
		},
		{
			name: "Year before minimum",
			request: CreateVehicleRequest{
				Make: "Volvo", Model: "V60", Year: 1899, Registration: "XYZ789",
			},
		},
		{
			name: "Year too far ahead",
			request: CreateVehicleRequest{
				Make: "Volvo", Model: "V60", Year: time.Now().Year() + 2, Registration: "XYZ789",
			},
		},
		{
			name: "Empty registration",
			request: CreateVehicleRequest{
				Make: "Volvo", Model: "V60", Year: 2021, Registration: "  ",
			},
		},
		{
			name: "Invalid odometer unit",
			request: CreateVehicleRequest{
				Make: "Volvo", Model: "V60", Year: 2021, Registration: "XYZ789",
				OdometerUnit: OdometerUnit("furlongs"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := newController(newFakeVehicleRepo())

			_, err := controller.CreateVehicle(context.Background(), &tt.request)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestGetVehicle(t *testing.T) {
	controller := newController(newFakeVehicleRepo(existingVehicle()))

	vehicle, err := controller.GetVehicle(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", vehicle.Make)

	_, err = controller.GetVehicle(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = controller.GetVehicle(context.Background(), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateVehicle(t *testing.T) {
	controller := newController(newFakeVehicleRepo(existingVehicle()))

	newModel := "Camry"
	newUnit := OdometerUnitKilometers

	vehicle, err := controller.UpdateVehicle(context.Background(), 1, &UpdateVehicleRequest{
		Model:        &newModel,
		OdometerUnit: &newUnit,
	})
	require.NoError(t, err)

	assert.Equal(t, "Camry", vehicle.Model)
	assert.Equal(t, OdometerUnitKilometers, vehicle.OdometerUnit)
	assert.Equal(t, "Toyota", vehicle.Make, "untouched fields survive")
}

func TestUpdateVehicleNoFields(t *testing.T) {
	controller := newController(newFakeVehicleRepo(existingVehicle()))

	_, err := controller.UpdateVehicle(context.Background(), 1, &UpdateVehicleRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateVehicleNotFound(t *testing.T) {
	controller := newController(newFakeVehicleRepo())

	newMake := "Saab"
	_, err := controller.UpdateVehicle(context.Background(), 7, &UpdateVehicleRequest{Make: &newMake})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteVehicle(t *testing.T) {
	repo := newFakeVehicleRepo(existingVehicle())
	controller := newController(repo)

	err := controller.DeleteVehicle(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, repo.deleted)

	err = controller.DeleteVehicle(context.Background(), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateYearBounds(t *testing.T) {
	assert.NoError(t, validateYear(MinVehicleYear))
	assert.NoError(t, validateYear(time.Now().Year()+1))
	assert.Error(t, validateYear(MinVehicleYear-1))
	assert.Error(t, validateYear(time.Now().Year()+2))
}
