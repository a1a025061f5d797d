package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RosterCacheService caches optimization results keyed by request hash,
// so identical requests skip the solve entirely.
type RosterCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRosterCacheService(client *redis.Client, logger *logrus.Logger) *RosterCacheService {
	return &RosterCacheService{
		client: client,
		logger: logger,
	}
}

// Set stores a roster result under the request hash.
func (c *RosterCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal roster result: %w", err)
	}

	fullKey := fmt.Sprintf("roster:%s", key)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set roster result in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"expiration": expiration,
	}).Debug("Cached roster result")

	return nil
}

// Get retrieves a roster result into dest; returns redis.Nil-wrapped
// error on miss.
func (c *RosterCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	fullKey := fmt.Sprintf("roster:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("roster result not found in cache: %w", err)
		}
		return fmt.Errorf("failed to get roster result from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal roster result: %w", err)
	}

	c.logger.WithField("cache_key", fullKey).Debug("Retrieved roster result from cache")
	return nil
}

// Delete removes a cached roster result.
func (c *RosterCacheService) Delete(ctx context.Context, key string) error {
	fullKey := fmt.Sprintf("roster:%s", key)
	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("failed to delete roster result from cache: %w", err)
	}
	c.logger.WithField("cache_key", fullKey).Debug("Deleted roster result from cache")
	return nil
}

// Status returns cache statistics for the health endpoint.
func (c *RosterCacheService) Status(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"service":   "roster-cache",
		"timestamp": time.Now(),
		"connected": true,
	}

	if dbSize := c.client.DBSize(ctx); dbSize.Err() == nil {
		status["db_size"] = dbSize.Val()
	}
	if keys, err := c.client.Keys(ctx, "roster:*").Result(); err == nil {
		status["roster_keys"] = len(keys)
	}

	return status
}

// Flush clears all cached roster results.
func (c *RosterCacheService) Flush(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, "roster:*").Result()
	if err != nil {
		return fmt.Errorf("failed to get roster keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete roster keys: %w", err)
		}
	}

	c.logger.WithField("deleted_keys", len(keys)).Info("Flushed roster cache")
	return nil
}
