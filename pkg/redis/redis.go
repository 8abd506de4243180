package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/tiffin-backend/config"
	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const thresholdHashKey = "pricing:thresholds"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// ThresholdCache keeps the last good set of price threshold rows in a hash so
// a restarted server can price the menu while the database is unreachable.
type ThresholdCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewThresholdCache(rdb *redis.Client, ttl time.Duration) *ThresholdCache {
	return &ThresholdCache{rdb: rdb, ttl: ttl}
}

// Save replaces the cached rows.
func (c *ThresholdCache) Save(ctx context.Context, rows []model.PriceThreshold) error {
	if len(rows) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		fields[row.Key] = row.Value
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, thresholdHashKey)
	pipe.HSet(ctx, thresholdHashKey, fields)
	if c.ttl > 0 {
		pipe.Expire(ctx, thresholdHashKey, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to cache price thresholds", err, map[string]interface{}{
			"count": len(rows),
		})
		return err
	}

	logger.Debug("Price thresholds cached", map[string]interface{}{
		"count": len(rows),
		"ttl":   c.ttl.String(),
	})
	return nil
}

// Load returns the cached rows, or none when nothing is cached.
func (c *ThresholdCache) Load(ctx context.Context) ([]model.PriceThreshold, error) {
	values, err := c.rdb.HGetAll(ctx, thresholdHashKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to load cached price thresholds", err, nil)
		return nil, err
	}

	rows := make([]model.PriceThreshold, 0, len(values))
	for key, value := range values {
		rows = append(rows, model.PriceThreshold{Key: key, Value: value})
	}
	return rows, nil
}
