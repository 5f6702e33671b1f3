package services

import (
	"fmt"

	"cardocs/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReminderMaterializer turns scanned documents into persisted reminder rows,
// one per enabled channel. Inserts resolve against the (document, due date,
// channel) unique index with conflicts ignored: repeated or overlapping scans
// converge on a single row, and a reminder that was already sent is never
// recreated or reset.
type ReminderMaterializer struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewReminderMaterializer(db *gorm.DB, settings *SettingsService) *ReminderMaterializer {
	return &ReminderMaterializer{db: db, settings: settings}
}

// Materialize ensures reminder rows exist for every channel enabled in the
// owner's current settings and reports how many rows were actually inserted.
// A lead time reaching further back than today still materializes; the
// evaluator picks the reminder up as immediately due.
func (m *ReminderMaterializer) Materialize(doc models.Document, owner models.Account) (int, error) {
	setting, err := m.settings.Resolve(owner.ID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, ch := range []models.Channel{models.ChannelEmail, models.ChannelWhatsapp} {
		if !setting.ChannelEnabled(ch) {
			continue
		}

		lead := setting.LeadDays(ch)
		if lead < 0 {
			lead = 0
		}
		due := dateOnly(doc.ExpiresAt).AddDate(0, 0, -lead)

		reminder := models.Reminder{
			UserID:     owner.ID,
			DocumentID: doc.ID,
			VehicleID:  doc.VehicleID,
			Channel:    ch,
			DueDate:    due,
			Sent:       false,
		}
		res := m.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "document_id"}, {Name: "due_date"}, {Name: "channel"}},
			DoNothing: true,
		}).Create(&reminder)
		if res.Error != nil {
			return created, fmt.Errorf("failed to materialize %s reminder for document %s: %w", ch, doc.ID, res.Error)
		}
		if res.RowsAffected > 0 {
			created++
		}
	}
	return created, nil
}
