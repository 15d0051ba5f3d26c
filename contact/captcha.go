package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrCaptchaRejected is returned when the verification service refuses a token.
var ErrCaptchaRejected = errors.New("contact: captcha token rejected")

// Verifier checks a captcha token with the issuing service.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// TokenCaptcha wraps a token the browser widget already produced. It is always
// ready; Token returns the token after optional server-side verification.
type TokenCaptcha struct {
	token    string
	remoteIP string
	verifier Verifier
}

// NewTokenCaptcha creates a captcha for a posted token. verifier may be nil.
func NewTokenCaptcha(token, remoteIP string, verifier Verifier) *TokenCaptcha {
	return &TokenCaptcha{token: token, remoteIP: remoteIP, verifier: verifier}
}

func (c *TokenCaptcha) Ready() bool { return true }

func (c *TokenCaptcha) Token(ctx context.Context) (string, error) {
	if c.token == "" {
		return "", nil
	}
	if c.verifier != nil {
		if err := c.verifier.Verify(ctx, c.token, c.remoteIP); err != nil {
			return "", err
		}
	}
	return c.token, nil
}

// RecaptchaVerifier calls the reCAPTCHA siteverify API.
type RecaptchaVerifier struct {
	Secret   string
	Endpoint string
	Client   *http.Client
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Action     string   `json:"action"`
	Score      float64  `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token and fails unless the service reports success.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	form := url.Values{"secret": {v.Secret}, "response": {token}}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("siteverify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("siteverify: unexpected status %d", resp.StatusCode)
	}
	var out siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decoding siteverify response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", ErrCaptchaRejected, strings.Join(out.ErrorCodes, ","))
	}
	return nil
}
