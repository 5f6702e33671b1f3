package services

import (
	"testing"

	"go.uber.org/zap"
)

func TestWorkerRejectsInvalidSchedule(t *testing.T) {
	t.Setenv("EXPIRY_CHECK_SCHEDULE", "not a schedule")

	db := setupTestDB(t, t.Name())
	engine := newTestEngine(db, &fakeEmail{}, &fakeWhatsApp{})
	worker := NewExpiryWorker(engine, zap.NewNop())

	if err := worker.Start(); err == nil {
		t.Fatalf("expected an error for a malformed schedule")
	}
}

func TestWorkerStartsWithDefaultSchedule(t *testing.T) {
	t.Setenv("EXPIRY_CHECK_SCHEDULE", "")

	db := setupTestDB(t, t.Name())
	engine := newTestEngine(db, &fakeEmail{}, &fakeWhatsApp{})
	worker := NewExpiryWorker(engine, zap.NewNop())

	if worker.schedule != DefaultCheckSchedule {
		t.Fatalf("expected default schedule, got %q", worker.schedule)
	}
	if err := worker.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	worker.Stop()
}
