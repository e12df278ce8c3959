package catalog_import

import (
	"context"
	"fmt"
	"time"

	"go-catalog/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RetentionScheduler periodically purges old import jobs.
type RetentionScheduler struct {
	service   ImportService
	schedule  string
	retention time.Duration
	logger    *zap.Logger

	scheduler *cron.Cron
	now       func() time.Time
}

func NewRetentionScheduler(service ImportService, cfg *config.Config, logger *zap.Logger) *RetentionScheduler {
	return &RetentionScheduler{
		service:   service,
		schedule:  cfg.RetentionSchedule,
		retention: time.Duration(cfg.ImportRetentionDays) * 24 * time.Hour,
		logger:    logger.Named("import_retention"),
		now:       time.Now,
	}
}

// Start registers the sweep. A non-positive retention disables it.
func (s *RetentionScheduler) Start() error {
	if s.retention <= 0 {
		s.logger.Info("Import retention disabled")
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid retention schedule: %w", err)
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return err
	}
	s.scheduler.Start()

	s.logger.Info("Import retention scheduled",
		zap.String("schedule", s.schedule),
		zap.Duration("retention", s.retention))
	return nil
}

func (s *RetentionScheduler) Stop() {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
}

// Sweep purges every job older than the retention window.
func (s *RetentionScheduler) Sweep(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	purged, err := s.service.PurgeExpired(ctx, cutoff)
	if err != nil {
		s.logger.Error("Import retention sweep failed", zap.Time("cutoff", cutoff), zap.Error(err))
	}
	if purged > 0 {
		s.logger.Info("Purged expired import jobs", zap.Int("count", purged), zap.Time("cutoff", cutoff))
	}
	return purged
}
