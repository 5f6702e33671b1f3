package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cardocs/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DispatchOutcome classifies a single dispatch attempt
type DispatchOutcome int

const (
	DispatchSent DispatchOutcome = iota
	DispatchSkipped
	DispatchFailed
)

// Dispatcher delivers due reminders through the channel-appropriate
// notifier. A reminder is claimed, an atomic unsent to sent transition,
// before the external send happens, so overlapping passes can never both
// deliver the same reminder. If the send then fails the row stays sent: a
// rare missed notification is the accepted price for never double-sending.
type Dispatcher struct {
	db       *gorm.DB
	email    EmailNotifier
	whatsapp WhatsAppNotifier
	logger   *zap.Logger
}

func NewDispatcher(db *gorm.DB, email EmailNotifier, whatsapp WhatsAppNotifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{db: db, email: email, whatsapp: whatsapp, logger: logger}
}

// Dispatch claims and delivers one reminder. Failed deliveries are logged
// and returned as a DeliveryError; storage errors come back unwrapped so the
// caller aborts its pass.
func (d *Dispatcher) Dispatch(ctx context.Context, due DueReminder) (DispatchOutcome, error) {
	claimed, err := d.claim(due.Reminder.ID)
	if err != nil {
		return DispatchSkipped, fmt.Errorf("failed to claim reminder %s: %w", due.Reminder.ID, err)
	}
	if !claimed {
		// another pass won the claim
		return DispatchSkipped, nil
	}

	var sendErr error
	switch due.Reminder.Channel {
	case models.ChannelEmail:
		subject, plain, html := expiryEmailContent(due)
		sendErr = d.email.SendEmail(ctx, due.Owner.Email, due.Owner.Name, subject, plain, html)
	case models.ChannelWhatsapp:
		if due.Owner.PhoneE164 == "" {
			sendErr = fmt.Errorf("account %s has no phone number", due.Owner.ID)
		} else {
			sendErr = d.whatsapp.SendWhatsApp(ctx, due.Owner.PhoneE164, expiryMessageText(due))
		}
	default:
		sendErr = fmt.Errorf("unknown channel %q", due.Reminder.Channel)
	}

	if sendErr != nil {
		derr := &DeliveryError{ReminderID: due.Reminder.ID, Channel: due.Reminder.Channel, Err: sendErr}
		d.logger.Error("reminder delivery failed",
			zap.String("reminder_id", due.Reminder.ID),
			zap.String("channel", string(due.Reminder.Channel)),
			zap.String("user_id", due.Reminder.UserID),
			zap.Error(sendErr),
		)
		return DispatchFailed, derr
	}

	d.logger.Info("reminder dispatched",
		zap.String("reminder_id", due.Reminder.ID),
		zap.String("channel", string(due.Reminder.Channel)),
		zap.String("document_id", due.Reminder.DocumentID),
	)
	return DispatchSent, nil
}

// claim flips sent to true only while the row is still unsent and reports
// whether this caller won the transition.
func (d *Dispatcher) claim(reminderID string) (bool, error) {
	now := time.Now()
	res := d.db.Model(&models.Reminder{}).
		Where("id = ? AND sent = ?", reminderID, false).
		Updates(models.Reminder{Sent: true, SentAt: &now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// expiryEmailContent builds the subject and both bodies for an email
// reminder.
func expiryEmailContent(due DueReminder) (subject, plain, html string) {
	doc := due.Document
	date := doc.ExpiresAt.Format("Mon Jan 2, 2006")

	subject = fmt.Sprintf("Reminder: your %s expires on %s", doc.Type.Label(), date)
	plain = fmt.Sprintf("Hello %s, Your %s%s expires on %s. Renew it in time to stay on the road!",
		due.Owner.Name, doc.Type.Label(), documentRef(doc), date)
	html = fmt.Sprintf("<p>Hello %s,</p><p>Your <strong>%s</strong>%s expires on <strong>%s</strong>.</p><p>Renew it in time to stay on the road!</p>",
		due.Owner.Name, doc.Type.Label(), documentRef(doc), date)
	return subject, plain, html
}

// expiryMessageText builds the short text used for WhatsApp delivery
func expiryMessageText(due DueReminder) string {
	doc := due.Document
	return fmt.Sprintf("🔔 Reminder: your %s%s expires on %s. Renew it soon!",
		doc.Type.Label(), documentRef(doc), doc.ExpiresAt.Format("Mon Jan 2, 2006"))
}

// documentRef renders the document number suffix, if one is recorded
func documentRef(doc models.Document) string {
	if strings.TrimSpace(doc.Number) == "" {
		return ""
	}
	return fmt.Sprintf(" (no. %s)", doc.Number)
}
