package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Default lead times applied when a user has no stored preferences yet
const (
	DefaultEmailDaysBefore    = 14
	DefaultWhatsappDaysBefore = 7
)

// QuietHours represents an optional do-not-disturb window in HH:MM clock
// time. Windows may wrap past midnight, e.g. 22:00-07:00.
type QuietHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Validate checks that both bounds are well-formed HH:MM clock values
func (w QuietHours) Validate() error {
	if _, err := parseClock(w.Start); err != nil {
		return fmt.Errorf("invalid quiet hours start %q: expected HH:MM", w.Start)
	}
	if _, err := parseClock(w.End); err != nil {
		return fmt.Errorf("invalid quiet hours end %q: expected HH:MM", w.End)
	}
	return nil
}

// Covers reports whether t falls inside the window. A window whose start
// equals its end is treated as empty.
func (w QuietHours) Covers(t time.Time) bool {
	start, err := parseClock(w.Start)
	if err != nil {
		return false
	}
	end, err := parseClock(w.End)
	if err != nil {
		return false
	}
	if start == end {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	if start < end {
		return minute >= start && minute < end
	}
	// wraps past midnight
	return minute >= start || minute < end
}

// parseClock converts "HH:MM" to minutes since midnight
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ReminderSetting holds a user's notification preferences, one row per user.
// Rows are created lazily with defaults the first time a scan or a settings
// read encounters a user without one. Defaults are assigned in Go rather than
// through column defaults so that explicitly stored zero values survive.
type ReminderSetting struct {
	ID                 uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID             string         `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	EmailEnabled       bool           `gorm:"not null" json:"email_enabled"`
	EmailDaysBefore    int            `gorm:"not null" json:"email_days_before"`
	WhatsappEnabled    bool           `gorm:"not null" json:"whatsapp_enabled"`
	WhatsappDaysBefore int            `gorm:"not null" json:"whatsapp_days_before"`
	QuietHours         datatypes.JSON `json:"quiet_hours,omitempty"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

// DefaultReminderSetting builds the documented default preferences for a
// user: email on with a 14 day lead, whatsapp off with a 7 day lead and no
// quiet hours.
func DefaultReminderSetting(userID string) ReminderSetting {
	return ReminderSetting{
		UserID:             userID,
		EmailEnabled:       true,
		EmailDaysBefore:    DefaultEmailDaysBefore,
		WhatsappEnabled:    false,
		WhatsappDaysBefore: DefaultWhatsappDaysBefore,
	}
}

// ChannelEnabled reports whether the given delivery channel is switched on
func (s *ReminderSetting) ChannelEnabled(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return s.EmailEnabled
	case ChannelWhatsapp:
		return s.WhatsappEnabled
	default:
		return false
	}
}

// LeadDays returns the configured days-before-expiry lead time for a channel
func (s *ReminderSetting) LeadDays(ch Channel) int {
	switch ch {
	case ChannelEmail:
		return s.EmailDaysBefore
	case ChannelWhatsapp:
		return s.WhatsappDaysBefore
	default:
		return 0
	}
}

// Window returns the parsed quiet-hours window, or nil when none is
// configured or the stored value cannot be parsed.
func (s *ReminderSetting) Window() *QuietHours {
	if len(s.QuietHours) == 0 {
		return nil
	}
	var w QuietHours
	if err := json.Unmarshal(s.QuietHours, &w); err != nil {
		return nil
	}
	if w.Start == "" || w.End == "" {
		return nil
	}
	return &w
}

// BeforeCreate hook is called before creating a settings row
func (s *ReminderSetting) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	return nil
}

// TableName specifies the table name for the ReminderSetting model
func (ReminderSetting) TableName() string {
	return "reminder_setting"
}

// UpdateReminderSettingRequest represents a partial settings update. Pointer
// fields distinguish "leave unchanged" from an explicit zero value; sending
// quiet hours with empty bounds clears the window.
type UpdateReminderSettingRequest struct {
	EmailEnabled       *bool       `json:"email_enabled"`
	EmailDaysBefore    *int        `json:"email_days_before" binding:"omitempty,min=0,max=365"`
	WhatsappEnabled    *bool       `json:"whatsapp_enabled"`
	WhatsappDaysBefore *int        `json:"whatsapp_days_before" binding:"omitempty,min=0,max=365"`
	QuietHours         *QuietHours `json:"quiet_hours"`
}
