package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type StaleExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// Sweeper periodically expires checkouts that stayed pending too long.
type Sweeper struct {
	expirer  StaleExpirer
	interval time.Duration
	timeout  time.Duration
	logger   *zerolog.Logger
}

func NewSweeper(expirer StaleExpirer, interval time.Duration, logger *zerolog.Logger) *Sweeper {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Sweeper{expirer: expirer, interval: interval, timeout: time.Minute, logger: logger}
}

// Sweep runs one expiration pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	expired, err := s.expirer.ExpireStale(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("expire stale checkouts failed")
		return
	}
	if expired > 0 {
		s.logger.Info().Int("expired", expired).Msg("checkout sweep finished")
	}
}

// Run schedules Sweep and blocks until ctx is done. The first pass runs
// immediately.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() { s.Sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule sweeper: %w", err)
	}

	s.Sweep(ctx)
	c.Start()
	s.logger.Info().Dur("interval", s.interval).Msg("checkout sweeper started")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
