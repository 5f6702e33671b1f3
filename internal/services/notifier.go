package services

import "context"

// EmailNotifier delivers a single email notification. Implementations report
// failure through the returned error; how delivery happens (API, SMTP
// fallback) is internal to the implementation.
type EmailNotifier interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, plainBody, htmlBody string) error
}

// WhatsAppNotifier delivers a single WhatsApp text message to an E.164
// phone number.
type WhatsAppNotifier interface {
	SendWhatsApp(ctx context.Context, toE164, body string) error
}
