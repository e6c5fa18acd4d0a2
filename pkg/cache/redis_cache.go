package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"firetrack-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisFleetCache implements FleetCache on Redis. List keys are tracked in a
// Redis set so InvalidateVehicleLists can drop every cached list without a
// SCAN.
type RedisFleetCache struct {
	client *redis.Client
	config CacheConfig
	ctx    context.Context
}

func NewRedisFleetCache(client *redis.Client, config CacheConfig) *RedisFleetCache {
	return &RedisFleetCache{
		client: client,
		config: config,
		ctx:    context.Background(),
	}
}

func (r *RedisFleetCache) GetVehicle(vehicleID string) (*models.Vehicle, error) {
	key := r.vehicleKey(vehicleID)

	data, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("failed to get vehicle from cache: %w", err)
	}

	var vehicle models.Vehicle
	if err := json.Unmarshal([]byte(data), &vehicle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vehicle data: %w", err)
	}
	return &vehicle, nil
}

func (r *RedisFleetCache) SetVehicle(vehicleID string, vehicle *models.Vehicle) error {
	data, err := json.Marshal(vehicle)
	if err != nil {
		return fmt.Errorf("failed to marshal vehicle data: %w", err)
	}

	if err := r.client.Set(r.ctx, r.vehicleKey(vehicleID), data, r.config.VehicleTTL).Err(); err != nil {
		return fmt.Errorf("failed to set vehicle in cache: %w", err)
	}
	return nil
}

func (r *RedisFleetCache) InvalidateVehicle(vehicleID string) error {
	return r.client.Del(r.ctx, r.vehicleKey(vehicleID)).Err()
}

func (r *RedisFleetCache) GetVehicleList(key string) ([]*models.Vehicle, error) {
	data, err := r.client.Get(r.ctx, r.listKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("failed to get vehicle list from cache: %w", err)
	}

	var vehicles []*models.Vehicle
	if err := json.Unmarshal([]byte(data), &vehicles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vehicle list data: %w", err)
	}
	return vehicles, nil
}

func (r *RedisFleetCache) SetVehicleList(key string, vehicles []*models.Vehicle) error {
	data, err := json.Marshal(vehicles)
	if err != nil {
		return fmt.Errorf("failed to marshal vehicle list data: %w", err)
	}

	cacheKey := r.listKey(key)
	if err := r.client.Set(r.ctx, cacheKey, data, r.config.VehicleListTTL).Err(); err != nil {
		return fmt.Errorf("failed to set vehicle list in cache: %w", err)
	}

	// Track the key so list invalidation can find it later.
	if err := r.client.SAdd(r.ctx, r.listIndexKey(), cacheKey).Err(); err != nil {
		fmt.Printf("Warning: failed to index cache key %s: %v\n", cacheKey, err)
	}
	return nil
}

func (r *RedisFleetCache) InvalidateVehicleLists() error {
	keys, err := r.client.SMembers(r.ctx, r.listIndexKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to read cached list index: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(r.ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete cached lists: %w", err)
		}
	}
	return r.client.Del(r.ctx, r.listIndexKey()).Err()
}

func (r *RedisFleetCache) Close() error {
	return r.client.Close()
}

func (r *RedisFleetCache) vehicleKey(vehicleID string) string {
	return r.config.KeyPrefix + "vehicle:" + vehicleID
}

func (r *RedisFleetCache) listKey(key string) string {
	return r.config.KeyPrefix + "vehicle_list:" + key
}

func (r *RedisFleetCache) listIndexKey() string {
	return r.config.KeyPrefix + "vehicle_list_keys"
}
