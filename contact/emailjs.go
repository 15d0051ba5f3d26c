package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DeliveryError is a rejection reported by the delivery service, as opposed
// to a transport failure.
type DeliveryError struct {
	Status int
	Text   string
}

func (e *DeliveryError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("contact: delivery rejected with status %d", e.Status)
	}
	return fmt.Sprintf("contact: delivery rejected with status %d: %s", e.Status, e.Text)
}

// EmailJSSender delivers messages through the EmailJS REST API.
type EmailJSSender struct {
	Endpoint    string
	ServiceID   string
	TemplateID  string
	PublicKey   string
	AccessToken string // Private key; optional unless the account enforces it
	Client      *http.Client
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send posts msg as template parameters. The captcha token travels as
// g-recaptcha-response so the template's captcha check can see it.
func (s *EmailJSSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:   s.ServiceID,
		TemplateID:  s.TemplateID,
		UserID:      s.PublicKey,
		AccessToken: s.AccessToken,
		TemplateParams: map[string]string{
			"name":                 msg.Name,
			"email":                msg.Email,
			"message":              msg.Message,
			"g-recaptcha-response": msg.Token,
		},
	})
	if err != nil {
		return fmt.Errorf("encoding emailjs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &DeliveryError{Status: resp.StatusCode, Text: strings.TrimSpace(string(text))}
	}
	return nil
}
