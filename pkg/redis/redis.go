package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/crownpawn/titlepawn-backend/config"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection
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

// BlacklistToken adds a revoked access token to the blacklist until it expires
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	if err := client.Set(ctx, key, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if a token has been revoked
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}
	return val == "revoked", nil
}

// CacheRateTiers stores a JSON snapshot of a store's active rate tiers
func CacheRateTiers(ctx context.Context, storeID uint, payload []byte, ttl time.Duration) error {
	key := rateTierKey(storeID)
	return client.Set(ctx, key, payload, ttl).Err()
}

// GetCachedRateTiers returns the cached tier snapshot for a store, or nil on miss
func GetCachedRateTiers(ctx context.Context, storeID uint) ([]byte, error) {
	val, err := client.Get(ctx, rateTierKey(storeID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// InvalidateRateTiers drops the cached tier snapshot after tier writes
func InvalidateRateTiers(ctx context.Context, storeID uint) error {
	return client.Del(ctx, rateTierKey(storeID)).Err()
}

func rateTierKey(storeID uint) string {
	return fmt.Sprintf("rate_tiers:%d", storeID)
}
