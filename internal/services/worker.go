package services

import (
	"context"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultCheckSchedule runs the expiry pass every morning at 08:00 server
// time. Due dates are day-granular, so more frequent passes add nothing, but
// the engine tolerates them.
const DefaultCheckSchedule = "0 8 * * *"

// ExpiryWorker triggers the engine on a cron schedule. It needs no mutual
// exclusion against the manual trigger; the engine is safe to overlap.
type ExpiryWorker struct {
	engine   *ExpiryEngine
	cron     *cron.Cron
	schedule string
	logger   *zap.Logger
}

// NewExpiryWorker reads EXPIRY_CHECK_SCHEDULE (standard five-field cron
// syntax) and falls back to the default morning schedule.
func NewExpiryWorker(engine *ExpiryEngine, logger *zap.Logger) *ExpiryWorker {
	schedule := os.Getenv("EXPIRY_CHECK_SCHEDULE")
	if schedule == "" {
		schedule = DefaultCheckSchedule
	}
	return &ExpiryWorker{
		engine:   engine,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the schedule and launches the cron loop in its own
// goroutine
func (w *ExpiryWorker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		if _, err := w.engine.RunExpiryCheck(context.Background()); err != nil {
			w.logger.Error("scheduled expiry check failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid expiry check schedule %q: %w", w.schedule, err)
	}

	w.cron.Start()
	w.logger.Info("expiry worker started", zap.String("schedule", w.schedule))
	return nil
}

// Stop halts the cron loop; a pass that is already running completes
func (w *ExpiryWorker) Stop() {
	w.cron.Stop()
}
