package services

import (
	"errors"
	"fmt"

	"cardocs/internal/models"
)

// ErrReminderNotFound is returned when a reminder id does not exist or does
// not belong to the requesting user.
var ErrReminderNotFound = errors.New("reminder not found")

// ErrInvalidSetting is wrapped around settings updates that fail validation,
// so handlers can answer 400 instead of 500.
var ErrInvalidSetting = errors.New("invalid reminder setting")

// DeliveryError records a failed notification attempt for a single reminder.
// Deliveries fail independently of each other: the dispatcher logs the error
// and moves on, it never aborts the pass.
type DeliveryError struct {
	ReminderID string
	Channel    models.Channel
	Err        error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery of reminder %s via %s failed: %v", e.ReminderID, e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
