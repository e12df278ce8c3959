package locking

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"go-catalog/internal/config"
	"go-catalog/internal/features/warehouse"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:       "localhost:0",
		MaxRetries: -1,
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
	})
}

func TestRedisLockFailsWhenRedisIsDown(t *testing.T) {
	lock := NewRedisLock(unreachableRedis(), time.Minute, zap.NewNop())

	release, err := lock.Acquire(context.Background(), "run-1")
	assert.Nil(t, release)
	require.Error(t, err)
	assert.NotErrorIs(t, err, warehouse.ErrDistributionInProgress)
	assert.Contains(t, err.Error(), "redis disabled in tests")
}

func TestNewDistributionLockWithoutRedis(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	lock, err := NewDistributionLock(lc, &config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &warehouse.LocalLock{}, lock)
}

func TestNewDistributionLockRejectsBadURL(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	_, err := NewDistributionLock(lc, &config.Config{RedisURL: "://nope"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewDistributionLockWithRedis(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	lock, err := NewDistributionLock(lc, &config.Config{RedisURL: "redis://localhost:6379/0", DistributionLockTTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RedisLock{}, lock)
}
