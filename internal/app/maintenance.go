package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/R3E-Network/modulith/internal/middleware"
	"github.com/R3E-Network/modulith/pkg/logger"
)

// maintenance runs periodic housekeeping on a cron schedule.
type maintenance struct {
	cron *cron.Cron
	log  *logger.Logger
}

func newMaintenance(schedule string, limiter *middleware.RateLimiter, idleAfter time.Duration, log *logger.Logger) (*maintenance, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if removed := limiter.Cleanup(idleAfter); removed > 0 {
			log.WithField("removed", removed).Debug("dropped idle rate limiters")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("maintenance schedule %q: %w", schedule, err)
	}
	return &maintenance{cron: c, log: log}, nil
}

func (m *maintenance) Name() string { return "maintenance" }

func (m *maintenance) Start(context.Context) error {
	m.cron.Start()
	m.log.Debug("maintenance scheduler started")
	return nil
}

// Stop waits for a running job to finish, bounded by ctx.
func (m *maintenance) Stop(ctx context.Context) error {
	done := m.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
