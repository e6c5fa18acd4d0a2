package services

import (
	"errors"
	"testing"

	"firetrack-backend/internal/models"
	"firetrack-backend/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newVehicleService(store VehicleStore) *VehicleService {
	return NewVehicleService(store, &clock.Fixed{T: testInstant()})
}

func TestCreateVehicle(t *testing.T) {
	t.Run("commissions with first history entry", func(t *testing.T) {
		mockStore := new(MockVehicleStore)
		mockStore.On("FindByCallSign", "Engine 12").Return(nil, errors.New("vehicle not found"))

		stored := newTestVehicle("Engine 12")
		var saved *models.Vehicle
		mockStore.On("Create", mock.Anything).
			Run(func(args mock.Arguments) {
				saved = args.Get(0).(*models.Vehicle)
			}).
			Return(stored, nil)

		svc := newVehicleService(mockStore)
		_, err := svc.CreateVehicle(&CreateVehicleRequest{
			CallSign: "Engine 12",
			Type:     "Pumper",
			Mileage:  1200,
		}, testAdmin)

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, models.StatusAvailable, saved.Status)
		require.Len(t, saved.History, 1)
		assert.Equal(t, "Vehicle commissioned and entered into fleet service.", saved.History[0].Description)
		assert.Equal(t, models.SeveritySuccess, saved.History[0].Severity)
		assert.Equal(t, "Cpt. Miller", saved.History[0].PerformedBy)
		assert.NotNil(t, saved.Equipment)
	})

	t.Run("rejects duplicate call sign", func(t *testing.T) {
		existing := newTestVehicle("Engine 12")
		mockStore := new(MockVehicleStore)
		mockStore.On("FindByCallSign", "Engine 12").Return(existing, nil)

		svc := newVehicleService(mockStore)
		_, err := svc.CreateVehicle(&CreateVehicleRequest{CallSign: "Engine 12", Type: "Pumper"}, testAdmin)

		assert.ErrorIs(t, err, ErrValidation)
		mockStore.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("requires admin", func(t *testing.T) {
		svc := newVehicleService(new(MockVehicleStore))

		_, err := svc.CreateVehicle(&CreateVehicleRequest{CallSign: "Engine 12", Type: "Pumper"}, testOperator)

		assert.ErrorIs(t, err, ErrAuthorization)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("records the change with status severity", func(t *testing.T) {
		vehicle := newTestVehicle("Engine 12")
		mockStore := new(MockVehicleStore)
		mockStore.On("FindByID", vehicle.ID.Hex()).Return(vehicle, nil)

		var recorded models.HistoryEntry
		mockStore.On("UpdateStatusWithHistory", vehicle.ID.Hex(), models.StatusOutOfService, mock.Anything).
			Run(func(args mock.Arguments) {
				recorded = args.Get(2).(models.HistoryEntry)
			}).Return(nil)

		svc := newVehicleService(mockStore)
		err := svc.UpdateStatus(vehicle.ID.Hex(), &UpdateStatusRequest{Status: models.StatusOutOfService}, testAdmin)

		require.NoError(t, err)
		assert.Equal(t, "Status updated to: out_of_service.", recorded.Description)
		assert.Equal(t, models.SeverityDanger, recorded.Severity)
		mockStore.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := newVehicleService(new(MockVehicleStore))

		err := svc.UpdateStatus("v1", &UpdateStatusRequest{Status: "parked"}, testAdmin)

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		vehicle := newTestVehicle("Engine 12")
		mockStore := new(MockVehicleStore)
		mockStore.On("FindByID", vehicle.ID.Hex()).Return(vehicle, nil)
		mockStore.On("UpdateStatusWithHistory", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("connection reset"))

		svc := newVehicleService(mockStore)
		err := svc.UpdateStatus(vehicle.ID.Hex(), &UpdateStatusRequest{Status: models.StatusMaintenance}, testAdmin)

		assert.EqualError(t, err, "connection reset")
	})
}

func TestAddNote(t *testing.T) {
	t.Run("records text verbatim with server-side stamps", func(t *testing.T) {
		vehicle := newTestVehicle("Engine 12")
		mockStore := new(MockVehicleStore)
		mockStore.On("FindByID", vehicle.ID.Hex()).Return(vehicle, nil)

		var recorded models.HistoryEntry
		mockStore.On("AppendHistoryEntry", vehicle.ID.Hex(), mock.Anything).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).(models.HistoryEntry)
			}).Return(nil)

		svc := newVehicleService(mockStore)
		entry, err := svc.AddNote(vehicle.ID.Hex(), &AddNoteRequest{Text: "Wiper blades worn"}, testOperator)

		require.NoError(t, err)
		assert.Equal(t, "Wiper blades worn", entry.Description)
		assert.Equal(t, models.HistoryNote, recorded.Category)
		assert.Equal(t, models.SeverityInfo, recorded.Severity)
		assert.Equal(t, "2025-03-14", recorded.Date)
		assert.Equal(t, "Sgt. Reyes", recorded.PerformedBy)
	})

	t.Run("rejects blank text", func(t *testing.T) {
		svc := newVehicleService(new(MockVehicleStore))

		_, err := svc.AddNote("v1", &AddNoteRequest{Text: "   "}, testOperator)

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("readers cannot write notes", func(t *testing.T) {
		svc := newVehicleService(new(MockVehicleStore))

		_, err := svc.AddNote("v1", &AddNoteRequest{Text: "hello"}, testReader)

		assert.ErrorIs(t, err, ErrAuthorization)
	})
}

func TestGetHistory(t *testing.T) {
	vehicle := newTestVehicle("Engine 12")
	vehicle.History = historyFixture()

	mockStore := new(MockVehicleStore)
	mockStore.On("FindByID", vehicle.ID.Hex()).Return(vehicle, nil)

	svc := newVehicleService(mockStore)

	all, err := svc.GetHistory(vehicle.ID.Hex(), FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "out of service", all[0].Description)

	other, err := svc.GetHistory(vehicle.ID.Hex(), FilterOther)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestGetFleetStats(t *testing.T) {
	vehicles := []*models.Vehicle{
		newTestVehicle("Engine 1"),
		newTestVehicle("Engine 2"),
		newTestVehicle("Ladder 1"),
		newTestVehicle("Rescue 1"),
	}
	vehicles[1].Status = models.StatusMaintenance
	vehicles[2].Status = models.StatusOutOnCall
	vehicles[3].Status = models.StatusOutOfService

	mockStore := new(MockVehicleStore)
	mockStore.On("FindAll").Return(vehicles, nil)

	svc := newVehicleService(mockStore)
	stats, err := svc.GetFleetStats()

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalVehicles)
	assert.Equal(t, 1, stats.Available)
	assert.Equal(t, 1, stats.Maintenance)
	assert.Equal(t, 1, stats.OutOnCall)
	assert.Equal(t, 1, stats.OutOfService)
}

func TestDeleteVehicle_RequiresAdmin(t *testing.T) {
	svc := newVehicleService(new(MockVehicleStore))

	err := svc.DeleteVehicle("v1", testOperator)

	assert.ErrorIs(t, err, ErrAuthorization)
}
