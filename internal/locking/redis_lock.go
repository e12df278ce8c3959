package locking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-catalog/internal/config"
	"go-catalog/internal/features/warehouse"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const distributionLockKey = "catalog:distribution:lock"

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock shares the distribution lock between every instance of the
// service. The key expires after ttl so a crashed holder cannot block forever.
type RedisLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisLock(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLock {
	return &RedisLock{
		client: client,
		key:    distributionLockKey,
		ttl:    ttl,
		logger: logger.Named("distribution_lock"),
	}
}

func (l *RedisLock) Acquire(ctx context.Context, runID string) (func(), error) {
	ok, err := l.client.SetNX(ctx, l.key, runID, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire distribution lock: %w", err)
	}
	if !ok {
		holder, _ := l.client.Get(ctx, l.key).Result()
		l.logger.Info("Distribution lock busy", zap.String("holder", holder), zap.String("run_id", runID))
		return nil, warehouse.ErrDistributionInProgress
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, runID).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("Failed to release distribution lock", zap.String("run_id", runID), zap.Error(err))
		}
	}
	return release, nil
}

// NewDistributionLock uses Redis when REDIS_URL is set and an in-process
// lock otherwise.
func NewDistributionLock(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (warehouse.DistributionLock, error) {
	if cfg.RedisURL == "" {
		logger.Info("Distribution lock is local to this process")
		return warehouse.NewLocalLock(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return NewRedisLock(client, cfg.DistributionLockTTL, logger), nil
}
