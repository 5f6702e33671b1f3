package services

import (
	"context"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultHorizonDays is the scan look-ahead. It has to exceed the largest
// configurable lead time, otherwise a long-lead reminder would only
// materialize after its due date has already passed.
const DefaultHorizonDays = 90

// Summary reports what a single expiry-check pass did.
type Summary struct {
	Processed    int `json:"processed"`    // documents found inside the scan horizon
	Materialized int `json:"materialized"` // reminder rows newly created
	Dispatched   int `json:"dispatched"`   // notifications delivered
	Skipped      int `json:"skipped"`      // due reminders claimed by a concurrent pass
	Failed       int `json:"failed"`       // claimed reminders whose delivery failed
}

// ExpiryEngine runs a complete reminder pass: scan the due window,
// materialize reminder rows, evaluate which are due and dispatch them. The
// engine has no scheduling of its own; the cron worker and the manual
// trigger both call RunExpiryCheck, and overlapping invocations are safe
// because every unit of work is individually idempotent or atomic.
type ExpiryEngine struct {
	scanner      *DocumentScanner
	materializer *ReminderMaterializer
	evaluator    *DueEvaluator
	dispatcher   *Dispatcher
	horizonDays  int
	logger       *zap.Logger
}

// NewExpiryEngine wires the pass stages onto a single storage handle
func NewExpiryEngine(db *gorm.DB, email EmailNotifier, whatsapp WhatsAppNotifier, horizonDays int, logger *zap.Logger) *ExpiryEngine {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	settings := NewSettingsService(db)
	return &ExpiryEngine{
		scanner:      NewDocumentScanner(db),
		materializer: NewReminderMaterializer(db, settings),
		evaluator:    NewDueEvaluator(db, settings, logger),
		dispatcher:   NewDispatcher(db, email, whatsapp, logger),
		horizonDays:  horizonDays,
		logger:       logger,
	}
}

// RunExpiryCheck executes one full pass. Storage failures abort the pass and
// are returned to the invoker; delivery failures are contained per reminder
// and only counted.
func (e *ExpiryEngine) RunExpiryCheck(ctx context.Context) (Summary, error) {
	return e.runAt(ctx, time.Now())
}

func (e *ExpiryEngine) runAt(ctx context.Context, now time.Time) (Summary, error) {
	var summary Summary

	expiring, err := e.scanner.Scan(now, e.horizonDays)
	if err != nil {
		return summary, err
	}
	summary.Processed = len(expiring)

	for _, item := range expiring {
		created, err := e.materializer.Materialize(item.Document, item.Owner)
		if err != nil {
			return summary, err
		}
		summary.Materialized += created
	}

	dueList, err := e.evaluator.DueAndUnsent(now)
	if err != nil {
		return summary, err
	}

	for _, due := range dueList {
		outcome, err := e.dispatcher.Dispatch(ctx, due)
		switch outcome {
		case DispatchSent:
			summary.Dispatched++
		case DispatchSkipped:
			if err != nil {
				// the claim itself failed at the storage layer
				return summary, err
			}
			summary.Skipped++
		case DispatchFailed:
			// already logged by the dispatcher
			summary.Failed++
		}
	}

	e.logger.Info("expiry check completed",
		zap.Int("processed", summary.Processed),
		zap.Int("materialized", summary.Materialized),
		zap.Int("dispatched", summary.Dispatched),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// HorizonDaysFromEnv reads EXPIRY_HORIZON_DAYS, falling back to
// DefaultHorizonDays when unset or malformed.
func HorizonDaysFromEnv() int {
	raw := os.Getenv("EXPIRY_HORIZON_DAYS")
	if raw == "" {
		return DefaultHorizonDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return DefaultHorizonDays
	}
	return days
}
