package services

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// EmailService sends notifications through the SendGrid API. When SMTP_HOST
// is configured it retries failed sends over plain SMTP; the fallback is
// invisible to callers, who only see send-or-error.
type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	smtpHost  string
	smtpPort  string
	smtpUser  string
	smtpPass  string
	logger    *zap.Logger
}

func NewEmailService(logger *zap.Logger) *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_NOTIFICATIONS_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	return &EmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		smtpHost:  os.Getenv("SMTP_HOST"),
		smtpPort:  smtpPort,
		smtpUser:  os.Getenv("SMTP_USER"),
		smtpPass:  os.Getenv("SMTP_PASSWORD"),
		logger:    logger,
	}
}

// SendEmail implements EmailNotifier
func (s *EmailService) SendEmail(ctx context.Context, toEmail, toName, subject, plainBody, htmlBody string) error {
	apiErr := s.sendViaAPI(ctx, toEmail, toName, subject, plainBody, htmlBody)
	if apiErr == nil {
		return nil
	}
	if s.smtpHost == "" {
		return apiErr
	}

	s.logger.Warn("sendgrid delivery failed, falling back to smtp",
		zap.String("to", toEmail),
		zap.Error(apiErr),
	)
	if smtpErr := s.sendViaSMTP(toEmail, subject, plainBody); smtpErr != nil {
		return fmt.Errorf("sendgrid: %v; smtp fallback: %w", apiErr, smtpErr)
	}
	return nil
}

func (s *EmailService) sendViaAPI(ctx context.Context, toEmail, toName, subject, plainBody, htmlBody string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d", toEmail, response.StatusCode)
	}
	return nil
}

func (s *EmailService) sendViaSMTP(toEmail, subject, body string) error {
	addr := s.smtpHost + ":" + s.smtpPort

	var auth smtp.Auth
	if s.smtpUser != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	msg := strings.Join([]string{
		"From: " + s.fromEmail,
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, s.fromEmail, []string{toEmail}, []byte(msg))
}
