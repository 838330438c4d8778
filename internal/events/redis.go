package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
)

const connectionTimeout = 2 * time.Second

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"     yaml:"addr"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `yaml:"db"`
}

// SetDefaults applies default values to the config if not set.
func (c *RedisConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
}

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	cfg.SetDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// RedisChannel publishes events on Redis pub/sub. Subscribers join the
// topic as a Redis channel; missed messages are gone, which matches the
// at-most-once contract.
type RedisChannel struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisChannel creates a Redis-backed event channel.
func NewRedisChannel(client *redis.Client, log logger.Logger) *RedisChannel {
	return &RedisChannel{client: client, logger: log}
}

// Publish JSON-encodes payload and publishes it on topic.
func (c *RedisChannel) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	if err := c.client.Publish(ctx, topic, body).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	c.logger.Debug("event published", logger.String("topic", topic))
	return nil
}
