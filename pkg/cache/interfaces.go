package cache

import (
	"time"

	"firetrack-backend/internal/models"
)

// AllVehiclesKey is the list key for the whole fleet.
const AllVehiclesKey = "all_vehicles"

// FleetCache caches vehicle aggregates (equipment and history included).
// Misses are reported as (nil, nil) so callers fall through to the store.
type FleetCache interface {
	GetVehicle(vehicleID string) (*models.Vehicle, error)
	SetVehicle(vehicleID string, vehicle *models.Vehicle) error
	InvalidateVehicle(vehicleID string) error

	GetVehicleList(key string) ([]*models.Vehicle, error)
	SetVehicleList(key string, vehicles []*models.Vehicle) error
	InvalidateVehicleLists() error

	Close() error
}

// CacheConfig holds TTLs and key layout for the fleet cache.
type CacheConfig struct {
	VehicleTTL     time.Duration `json:"vehicleTTL"`
	VehicleListTTL time.Duration `json:"vehicleListTTL"`
	KeyPrefix      string        `json:"keyPrefix"`
}

// DefaultCacheConfig returns default cache configuration. Vehicle documents
// carry inspection state that changes with every verify call, so TTLs stay
// short.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		VehicleTTL:     30 * time.Second,
		VehicleListTTL: 2 * time.Minute,
		KeyPrefix:      "firetrack:",
	}
}
