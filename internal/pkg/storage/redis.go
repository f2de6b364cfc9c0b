package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/slipstream-bet/converter/internal/pkg/models"
)

// ResultCache stores completed conversion results in Redis with a TTL so
// callers can poll past in-memory eviction and across restarts.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache connects to Redis and verifies the connection.
func NewResultCache(addr, password string, db int, ttl time.Duration) (*ResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{client: client, ttl: ttl}, nil
}

func resultKey(taskID string) string {
	return "conversion:result:" + taskID
}

// Save stores a conversion result under its task id.
func (c *ResultCache) Save(ctx context.Context, result models.ConversionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return c.client.Set(ctx, resultKey(result.TaskID), data, c.ttl).Err()
}

// Load fetches a stored result by task id.
func (c *ResultCache) Load(ctx context.Context, taskID string) (models.ConversionResult, bool, error) {
	data, err := c.client.Get(ctx, resultKey(taskID)).Result()
	if errors.Is(err, redis.Nil) {
		return models.ConversionResult{}, false, nil
	}
	if err != nil {
		return models.ConversionResult{}, false, fmt.Errorf("failed to get result: %w", err)
	}

	var result models.ConversionResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return models.ConversionResult{}, false, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return result, true, nil
}

// Close closes the Redis connection.
func (c *ResultCache) Close() error {
	return c.client.Close()
}
