package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// WhatsAppService sends text messages through the WhatsApp Cloud API.
// Configuration comes from WHATSAPP_API_URL, WHATSAPP_PHONE_ID and
// WHATSAPP_TOKEN; the URL defaults to the Graph API endpoint.
type WhatsAppService struct {
	apiURL  string
	phoneID string
	token   string
	client  *http.Client
}

func NewWhatsAppService() *WhatsAppService {
	apiURL := os.Getenv("WHATSAPP_API_URL")
	if apiURL == "" {
		apiURL = "https://graph.facebook.com/v19.0"
	}

	return &WhatsAppService{
		apiURL:  apiURL,
		phoneID: os.Getenv("WHATSAPP_PHONE_ID"),
		token:   os.Getenv("WHATSAPP_TOKEN"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type whatsAppTextPayload struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             whatsAppTextBody `json:"text"`
}

type whatsAppTextBody struct {
	Body string `json:"body"`
}

// SendWhatsApp implements WhatsAppNotifier
func (s *WhatsAppService) SendWhatsApp(ctx context.Context, toE164, body string) error {
	payload, err := json.Marshal(whatsAppTextPayload{
		MessagingProduct: "whatsapp",
		To:               strings.TrimPrefix(toE164, "+"),
		Type:             "text",
		Text:             whatsAppTextBody{Body: body},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", s.apiURL, s.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
