package services

import (
	"time"

	"firetrack-backend/internal/models"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockVehicleStore is a mock implementation of the VehicleStore interface
type MockVehicleStore struct {
	mock.Mock
}

func (m *MockVehicleStore) FindAll() ([]*models.Vehicle, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vehicle), args.Error(1)
}

func (m *MockVehicleStore) FindByID(id string) (*models.Vehicle, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleStore) FindByCallSign(callSign string) (*models.Vehicle, error) {
	args := m.Called(callSign)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleStore) Create(vehicle *models.Vehicle) (*models.Vehicle, error) {
	args := m.Called(vehicle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleStore) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockVehicleStore) UpdateStatusWithHistory(vehicleID, status string, entry models.HistoryEntry) error {
	args := m.Called(vehicleID, status, entry)
	return args.Error(0)
}

func (m *MockVehicleStore) CreateEquipmentWithHistory(vehicleID string, eq models.Equipment, entry models.HistoryEntry) error {
	args := m.Called(vehicleID, eq, entry)
	return args.Error(0)
}

func (m *MockVehicleStore) UpdateEquipmentWithHistory(vehicleID string, eq models.Equipment, entry *models.HistoryEntry) error {
	args := m.Called(vehicleID, eq, entry)
	return args.Error(0)
}

func (m *MockVehicleStore) DeleteEquipmentWithHistory(vehicleID string, equipmentID primitive.ObjectID, entry models.HistoryEntry) error {
	args := m.Called(vehicleID, equipmentID, entry)
	return args.Error(0)
}

func (m *MockVehicleStore) AppendHistoryEntry(vehicleID string, entry models.HistoryEntry) error {
	args := m.Called(vehicleID, entry)
	return args.Error(0)
}

// Shared test fixtures

var (
	testAdmin    = Actor{ID: "u1", DisplayName: "Cpt. Miller", Role: models.RoleAdmin}
	testOperator = Actor{ID: "u2", DisplayName: "Sgt. Reyes", Role: models.RoleOperator}
	testReader   = Actor{ID: "u3", DisplayName: "J. Novak", Role: models.RoleReader}
)

func testInstant() time.Time {
	return time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC)
}

func newTestVehicle(callSign string, items ...models.Equipment) *models.Vehicle {
	return &models.Vehicle{
		ID:        primitive.NewObjectID(),
		CallSign:  callSign,
		Type:      "Pumper",
		Status:    models.StatusAvailable,
		Equipment: items,
		History:   []models.HistoryEntry{},
	}
}

func newTestItem(name string, quantity int) models.Equipment {
	return models.Equipment{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Category:  "Rescue",
		Location:  "Left locker",
		Quantity:  quantity,
		Condition: models.ConditionGood,
	}
}
