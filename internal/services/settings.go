package services

import (
	"encoding/json"
	"fmt"
	"time"

	"cardocs/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsService resolves per-user notification preferences, creating the
// documented default row the first time a user is seen. It is consulted at
// materialization and again at dispatch, because preferences may change in
// between.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Resolve returns the user's settings, inserting the default row if none
// exists yet. The insert ignores unique-index conflicts, so concurrent first
// reads converge on a single row.
func (s *SettingsService) Resolve(userID string) (*models.ReminderSetting, error) {
	def := models.DefaultReminderSetting(userID)
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&def).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure settings row for user %s: %w", userID, err)
	}

	var setting models.ReminderSetting
	if err := s.db.Where("user_id = ?", userID).First(&setting).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings for user %s: %w", userID, err)
	}
	return &setting, nil
}

// Update applies the explicit fields of req to the user's settings row and
// returns the updated row. Every permitted mutation is enumerated here.
func (s *SettingsService) Update(userID string, req models.UpdateReminderSettingRequest) (*models.ReminderSetting, error) {
	if err := validateSettingUpdate(req); err != nil {
		return nil, err
	}

	setting, err := s.Resolve(userID)
	if err != nil {
		return nil, err
	}

	if req.EmailEnabled != nil {
		setting.EmailEnabled = *req.EmailEnabled
	}
	if req.EmailDaysBefore != nil {
		setting.EmailDaysBefore = *req.EmailDaysBefore
	}
	if req.WhatsappEnabled != nil {
		setting.WhatsappEnabled = *req.WhatsappEnabled
	}
	if req.WhatsappDaysBefore != nil {
		setting.WhatsappDaysBefore = *req.WhatsappDaysBefore
	}
	if req.QuietHours != nil {
		if req.QuietHours.Start == "" && req.QuietHours.End == "" {
			setting.QuietHours = nil
		} else {
			raw, err := json.Marshal(req.QuietHours)
			if err != nil {
				return nil, fmt.Errorf("failed to encode quiet hours: %w", err)
			}
			setting.QuietHours = datatypes.JSON(raw)
		}
	}
	setting.UpdatedAt = time.Now()

	if err := s.db.Save(setting).Error; err != nil {
		return nil, fmt.Errorf("failed to update settings for user %s: %w", userID, err)
	}
	return setting, nil
}

// validateSettingUpdate rejects values the schema cannot represent: negative
// lead times (a reminder can never be due after its document expires) and
// malformed quiet-hours bounds.
func validateSettingUpdate(req models.UpdateReminderSettingRequest) error {
	if req.EmailDaysBefore != nil && (*req.EmailDaysBefore < 0 || *req.EmailDaysBefore > 365) {
		return fmt.Errorf("%w: email lead time must be between 0 and 365 days", ErrInvalidSetting)
	}
	if req.WhatsappDaysBefore != nil && (*req.WhatsappDaysBefore < 0 || *req.WhatsappDaysBefore > 365) {
		return fmt.Errorf("%w: whatsapp lead time must be between 0 and 365 days", ErrInvalidSetting)
	}
	if req.QuietHours != nil && !(req.QuietHours.Start == "" && req.QuietHours.End == "") {
		if err := req.QuietHours.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
		}
	}
	return nil
}
