package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"firetrack-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client with config-driven construction and a
// health probe used at startup and by the health endpoint.
type Client struct {
	client *redis.Client
}

type HealthStatus struct {
	IsConnected    bool          `json:"isConnected"`
	ResponseTime   time.Duration `json:"responseTime"`
	ConnectionInfo string        `json:"connectionInfo"`
	Error          string        `json:"error,omitempty"`
}

// NewClient creates a Redis client from configuration. REDIS_URL wins over
// host/port when both are set.
func NewClient(cfg config.RedisConfig) *Client {
	var opt *redis.Options

	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			log.Printf("Failed to parse Redis URL: %v, falling back to host:port", err)
		} else {
			opt = parsed
		}
	}

	if opt == nil {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout

	return &Client{client: redis.NewClient(opt)}
}

// GetClient exposes the underlying go-redis client.
func (c *Client) GetClient() *redis.Client {
	return c.client
}

// HealthCheck pings Redis and reports connectivity.
func (c *Client) HealthCheck() HealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	err := c.client.Ping(ctx).Err()
	status := HealthStatus{
		IsConnected:    err == nil,
		ResponseTime:   time.Since(start),
		ConnectionInfo: c.client.Options().Addr,
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

func (c *Client) Close() error {
	return c.client.Close()
}
