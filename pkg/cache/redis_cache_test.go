package cache

import (
	"testing"
	"time"

	"firetrack-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	redisClient "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTestCache(t *testing.T) (*RedisFleetCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redisClient.NewClient(&redisClient.Options{Addr: mr.Addr()})
	config := DefaultCacheConfig()
	config.KeyPrefix = "test:"

	return NewRedisFleetCache(client, config), mr
}

func testVehicle(callSign string) *models.Vehicle {
	return &models.Vehicle{
		ID:       primitive.NewObjectID(),
		CallSign: callSign,
		Type:     "Pumper",
		Status:   models.StatusAvailable,
		Equipment: []models.Equipment{
			{
				ID:       primitive.NewObjectID(),
				Name:     "Axe",
				Category: "Rescue",
				Quantity: 1,
			},
		},
		History: []models.HistoryEntry{
			{
				Date:        "2025-03-14",
				Time:        "08:30:00",
				Category:    models.HistoryStatusChange,
				Severity:    models.SeveritySuccess,
				Description: "Vehicle commissioned and entered into fleet service.",
			},
		},
	}
}

func TestRedisFleetCache_VehicleOperations(t *testing.T) {
	c, _ := setupTestCache(t)
	vehicle := testVehicle("Engine 7")
	id := vehicle.ID.Hex()

	t.Run("SetVehicle", func(t *testing.T) {
		err := c.SetVehicle(id, vehicle)
		assert.NoError(t, err)
	})

	t.Run("GetVehicle", func(t *testing.T) {
		got, err := c.GetVehicle(id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, vehicle.CallSign, got.CallSign)
		require.Len(t, got.Equipment, 1)
		assert.Equal(t, "Axe", got.Equipment[0].Name)
		require.Len(t, got.History, 1)
		assert.Equal(t, vehicle.History[0].Description, got.History[0].Description)
	})

	t.Run("GetVehicle_Miss", func(t *testing.T) {
		got, err := c.GetVehicle(primitive.NewObjectID().Hex())
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("InvalidateVehicle", func(t *testing.T) {
		require.NoError(t, c.InvalidateVehicle(id))

		got, err := c.GetVehicle(id)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisFleetCache_ListOperations(t *testing.T) {
	c, _ := setupTestCache(t)
	vehicles := []*models.Vehicle{testVehicle("Engine 7"), testVehicle("Ladder 3")}

	t.Run("SetVehicleList", func(t *testing.T) {
		err := c.SetVehicleList(AllVehiclesKey, vehicles)
		assert.NoError(t, err)
	})

	t.Run("GetVehicleList", func(t *testing.T) {
		got, err := c.GetVehicleList(AllVehiclesKey)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Engine 7", got[0].CallSign)
		assert.Equal(t, "Ladder 3", got[1].CallSign)
	})

	t.Run("GetVehicleList_Miss", func(t *testing.T) {
		got, err := c.GetVehicleList("unknown_key")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("InvalidateVehicleLists", func(t *testing.T) {
		require.NoError(t, c.InvalidateVehicleLists())

		got, err := c.GetVehicleList(AllVehiclesKey)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisFleetCache_TTLBehavior(t *testing.T) {
	c, mr := setupTestCache(t)
	vehicle := testVehicle("Engine 7")
	id := vehicle.ID.Hex()

	require.NoError(t, c.SetVehicle(id, vehicle))

	// Advance miniredis past the vehicle TTL.
	mr.FastForward(c.config.VehicleTTL + time.Second)

	got, err := c.GetVehicle(id)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisFleetCache_ListInvalidationDropsIndex(t *testing.T) {
	c, mr := setupTestCache(t)

	require.NoError(t, c.SetVehicleList(AllVehiclesKey, []*models.Vehicle{testVehicle("Engine 7")}))
	assert.True(t, mr.Exists("test:vehicle_list_keys"))

	require.NoError(t, c.InvalidateVehicleLists())
	assert.False(t, mr.Exists("test:vehicle_list_keys"))
	assert.False(t, mr.Exists("test:vehicle_list:"+AllVehiclesKey))
}
