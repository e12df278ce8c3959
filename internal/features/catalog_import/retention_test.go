package catalog_import

import (
	"context"
	"testing"
	"time"

	"go-catalog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type purgeRecorder struct {
	ImportService
	cutoffs []time.Time
}

func (p *purgeRecorder) PurgeExpired(ctx context.Context, before time.Time) (int, error) {
	p.cutoffs = append(p.cutoffs, before)
	return 3, nil
}

func TestRetentionSweepUsesWindow(t *testing.T) {
	rec := &purgeRecorder{}
	cfg := &config.Config{ImportRetentionDays: 7, RetentionSchedule: "0 3 * * *"}
	s := NewRetentionScheduler(rec, cfg, zap.NewNop())

	fixed := time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	assert.Equal(t, 3, s.Sweep(context.Background()))
	require.Len(t, rec.cutoffs, 1)
	assert.Equal(t, fixed.Add(-7*24*time.Hour), rec.cutoffs[0])
}

func TestRetentionStart(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s := NewRetentionScheduler(&purgeRecorder{}, &config.Config{ImportRetentionDays: 0}, zap.NewNop())
		require.NoError(t, s.Start())
		assert.Nil(t, s.scheduler)
		s.Stop()
	})

	t.Run("invalid schedule", func(t *testing.T) {
		cfg := &config.Config{ImportRetentionDays: 1, RetentionSchedule: "every day"}
		s := NewRetentionScheduler(&purgeRecorder{}, cfg, zap.NewNop())
		assert.Error(t, s.Start())
	})

	t.Run("valid schedule", func(t *testing.T) {
		cfg := &config.Config{ImportRetentionDays: 1, RetentionSchedule: "*/5 * * * *"}
		s := NewRetentionScheduler(&purgeRecorder{}, cfg, zap.NewNop())
		require.NoError(t, s.Start())
		assert.Len(t, s.scheduler.Entries(), 1)
		s.Stop()
	})
}
