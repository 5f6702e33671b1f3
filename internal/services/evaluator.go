package services

import (
	"fmt"
	"time"

	"cardocs/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DueReminder is a reminder ready for dispatch, enriched with the owner
// contact and the document it refers to.
type DueReminder struct {
	Reminder models.Reminder
	Owner    models.Account
	Document models.Document
}

// DueEvaluator selects reminders whose due date has arrived and which are
// still unsent, then re-checks the owner's current settings. Materialization
// reflects preferences at scan time; dispatch must reflect preferences at
// send time. A channel disabled in the meantime, or a quiet-hours window
// covering the current moment, excludes the reminder from this pass without
// touching the row.
type DueEvaluator struct {
	db       *gorm.DB
	settings *SettingsService
	logger   *zap.Logger
}

func NewDueEvaluator(db *gorm.DB, settings *SettingsService, logger *zap.Logger) *DueEvaluator {
	return &DueEvaluator{db: db, settings: settings, logger: logger}
}

// DueAndUnsent returns the reminders eligible for dispatch at now, earliest
// due date first.
func (e *DueEvaluator) DueAndUnsent(now time.Time) ([]DueReminder, error) {
	var reminders []models.Reminder
	if err := e.db.
		Where("due_date <= ? AND sent = ?", dateOnly(now), false).
		Order("due_date asc").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	if len(reminders) == 0 {
		return nil, nil
	}

	settingsByUser := make(map[string]*models.ReminderSetting)
	eligible := make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		setting, ok := settingsByUser[r.UserID]
		if !ok {
			var err error
			setting, err = e.settings.Resolve(r.UserID)
			if err != nil {
				return nil, err
			}
			settingsByUser[r.UserID] = setting
		}

		if !setting.ChannelEnabled(r.Channel) {
			// left unsent so a re-enabled channel picks it up later
			continue
		}
		if w := setting.Window(); w != nil && w.Covers(now) {
			// deferred to a pass outside the quiet hours
			continue
		}
		eligible = append(eligible, r)
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	ownerIDs := make([]string, 0, len(eligible))
	docIDs := make([]string, 0, len(eligible))
	for _, r := range eligible {
		ownerIDs = append(ownerIDs, r.UserID)
		docIDs = append(docIDs, r.DocumentID)
	}

	var owners []models.Account
	if err := e.db.Where("id IN ?", ownerIDs).Find(&owners).Error; err != nil {
		return nil, fmt.Errorf("failed to load reminder owners: %w", err)
	}
	ownerByID := make(map[string]models.Account, len(owners))
	for _, o := range owners {
		ownerByID[o.ID] = o
	}

	var docs []models.Document
	if err := e.db.Where("id IN ?", docIDs).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to load reminder documents: %w", err)
	}
	docByID := make(map[string]models.Document, len(docs))
	for _, d := range docs {
		docByID[d.ID] = d
	}

	due := make([]DueReminder, 0, len(eligible))
	for _, r := range eligible {
		owner, ok := ownerByID[r.UserID]
		if !ok {
			e.logger.Debug("skipping reminder with missing owner",
				zap.String("reminder_id", r.ID),
				zap.String("user_id", r.UserID),
			)
			continue
		}
		doc, ok := docByID[r.DocumentID]
		if !ok {
			// document deleted upstream, the reminder stays unsent
			e.logger.Debug("skipping reminder with missing document",
				zap.String("reminder_id", r.ID),
				zap.String("document_id", r.DocumentID),
			)
			continue
		}
		due = append(due, DueReminder{Reminder: r, Owner: owner, Document: doc})
	}
	return due, nil
}
