package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Channel identifies a notification delivery medium
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsapp Channel = "whatsapp"
)

// Reminder represents a persisted notification obligation: one row per
// document, due date and channel. The composite unique index is what makes
// materialization idempotent, so scans may run any number of times without
// duplicating work. Rows are never deleted; sent only ever moves from false
// to true.
type Reminder struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	UserID     string     `gorm:"size:36;not null;index" json:"user_id"`
	DocumentID string     `gorm:"size:36;not null;uniqueIndex:ux_reminder_dispatch,priority:1" json:"document_id"`
	VehicleID  *string    `gorm:"size:36" json:"vehicle_id,omitempty"`
	Channel    Channel    `gorm:"size:10;not null;uniqueIndex:ux_reminder_dispatch,priority:3" json:"channel"`
	DueDate    time.Time  `gorm:"not null;index;uniqueIndex:ux_reminder_dispatch,priority:2" json:"due_date"`
	Sent       bool       `gorm:"not null;index" json:"sent"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook is called before creating a new reminder
func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the Reminder model
func (Reminder) TableName() string {
	return "reminder"
}
