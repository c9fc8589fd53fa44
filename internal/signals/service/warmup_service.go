package service

import (
	"context"
	"fmt"
	"time"

	"wealth-signals/internal/signals/config"
	"wealth-signals/pkg/logger"

	"github.com/robfig/cron/v3"
)

// WarmupService recomputes signals on a cron schedule so the cache stays warm.
type WarmupService interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context)
}

type warmupService struct {
	cfg        *config.Config
	log        *logger.Logger
	signals    SignalService
	cronParser cron.Parser
}

// NewWarmupService creates a new WarmupService.
func NewWarmupService(cfg *config.Config, log *logger.Logger, signals SignalService) WarmupService {
	return &warmupService{
		cfg:        cfg,
		log:        log,
		signals:    signals,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Start blocks until ctx is done, running a warm-up at every scheduled time.
// It returns an error only when the cron expression is invalid.
func (s *warmupService) Start(ctx context.Context) error {
	schedule, err := s.cronParser.Parse(s.cfg.Warmup.Cron)
	if err != nil {
		return fmt.Errorf("invalid warmup cron %q: %w", s.cfg.Warmup.Cron, err)
	}

	s.log.Info("Warmup service started", logger.StringField("cron", s.cfg.Warmup.Cron), logger.IntField("limit", s.cfg.Warmup.Limit))
	for {
		next := schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("Warmup service stopping")
			return nil
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce computes signals for the configured warm-up limit.
func (s *warmupService) RunOnce(ctx context.Context) {
	started := time.Now()
	signals := s.signals.GetSignals(ctx, s.cfg.Warmup.Limit)
	s.log.Info("Signal cache warmed",
		logger.IntField("signals", len(signals)),
		logger.StringField("duration", time.Since(started).String()),
	)
}
