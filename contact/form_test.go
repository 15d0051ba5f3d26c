package contact

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeCaptcha struct {
	ready bool
	token string
	err   error
}

func (c *fakeCaptcha) Ready() bool { return c.ready }

func (c *fakeCaptcha) Token(context.Context) (string, error) { return c.token, c.err }

type fakeSender struct {
	err  error
	sent []Message
}

func (s *fakeSender) Send(_ context.Context, msg Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func filledForm(captcha Captcha, sender Sender) *Form {
	f := NewForm(captcha, sender, 250)
	f.SetFields(Fields{Name: "Ada", Email: "ada@example.com", Message: "Hello"})
	return f
}

func TestSubmit_NotReadyChangesNothing(t *testing.T) {
	sender := &fakeSender{}
	f := filledForm(&fakeCaptcha{ready: false, token: "tok"}, sender)

	if err := f.Submit(context.Background()); !errors.Is(err, ErrCaptchaNotReady) {
		t.Fatalf("expected ErrCaptchaNotReady, got %v", err)
	}
	if st, msg := f.Status(); st != StatusIdle || msg != "" {
		t.Errorf("status changed to %v %q", st, msg)
	}
	if len(sender.sent) != 0 {
		t.Error("sender must not be called before captcha is ready")
	}
	if f.Fields().Name != "Ada" {
		t.Error("fields must be kept")
	}
	if f.CanSubmit() {
		t.Error("submit should be disabled while captcha is not ready")
	}
}

func TestSubmit_EmptyTokenFails(t *testing.T) {
	sender := &fakeSender{}
	f := filledForm(&fakeCaptcha{ready: true, token: ""}, sender)

	if err := f.Submit(context.Background()); !errors.Is(err, ErrCaptchaFailed) {
		t.Fatalf("expected ErrCaptchaFailed, got %v", err)
	}
	st, msg := f.Status()
	if st != StatusError || msg != MsgCaptchaFailed {
		t.Errorf("got %v %q, want error %q", st, msg, MsgCaptchaFailed)
	}
	if len(sender.sent) != 0 {
		t.Error("sender must not be called without a token")
	}
	if f.Fields().Message != "Hello" {
		t.Error("fields must be kept on failure")
	}
}

func TestSubmit_TokenErrorFails(t *testing.T) {
	f := filledForm(&fakeCaptcha{ready: true, err: ErrCaptchaRejected}, &fakeSender{})

	err := f.Submit(context.Background())
	if !errors.Is(err, ErrCaptchaFailed) || !errors.Is(err, ErrCaptchaRejected) {
		t.Fatalf("expected both captcha errors, got %v", err)
	}
	if _, msg := f.Status(); msg != MsgCaptchaFailed {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestSubmit_SuccessClearsFields(t *testing.T) {
	sender := &fakeSender{}
	f := filledForm(&fakeCaptcha{ready: true, token: "tok-123"}, sender)

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if st, msg := f.Status(); st != StatusSuccess || msg != "" {
		t.Errorf("got %v %q, want success", st, msg)
	}
	if f.Fields() != (Fields{}) {
		t.Errorf("fields not cleared: %+v", f.Fields())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(sender.sent))
	}
	got := sender.sent[0]
	if got.Token != "tok-123" || got.Name != "Ada" || got.Email != "ada@example.com" || got.Message != "Hello" {
		t.Errorf("unexpected message sent: %+v", got)
	}
}

func TestSubmit_DeliveryFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"service rejection", &DeliveryError{Status: 400, Text: "The user ID is invalid"}, MsgSendFailed},
		{"transport error", errors.New("dial tcp: connection refused"), "dial tcp: connection refused"},
		{"blank error", errors.New("  "), MsgSendFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := filledForm(&fakeCaptcha{ready: true, token: "tok"}, &fakeSender{err: tt.err})

			if err := f.Submit(context.Background()); err == nil {
				t.Fatal("expected error")
			}
			st, msg := f.Status()
			if st != StatusError {
				t.Errorf("expected error status, got %v", st)
			}
			if msg != tt.want {
				t.Errorf("message = %q, want %q", msg, tt.want)
			}
			if f.Fields().Name != "Ada" {
				t.Error("fields must be kept on failure")
			}
		})
	}
}

func TestSubmit_RetryAfterError(t *testing.T) {
	sender := &fakeSender{err: errors.New("offline")}
	f := filledForm(&fakeCaptcha{ready: true, token: "tok"}, sender)

	_ = f.Submit(context.Background())
	sender.err = nil
	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if st, msg := f.Status(); st != StatusSuccess || msg != "" {
		t.Errorf("retry should clear the error, got %v %q", st, msg)
	}
}

func TestSetField(t *testing.T) {
	f := NewForm(&fakeCaptcha{}, &fakeSender{}, 5)

	if err := f.SetField("name", "Bob"); err != nil {
		t.Fatalf("SetField name: %v", err)
	}
	if err := f.SetField("message", "héllo world"); err != nil {
		t.Fatalf("SetField message: %v", err)
	}
	if err := f.SetField("phone", "123"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}

	got := f.Fields()
	if got.Name != "Bob" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Message != "héllo" {
		t.Errorf("message should be truncated to 5 runes, got %q", got.Message)
	}
}

func TestTruncateRunes(t *testing.T) {
	long := strings.Repeat("a", 300)
	if got := truncateRunes(long, 250); len(got) != 250 {
		t.Errorf("expected 250 chars, got %d", len(got))
	}
	if got := truncateRunes("short", 250); got != "short" {
		t.Errorf("short input changed: %q", got)
	}
	if got := truncateRunes(long, 0); got != long {
		t.Error("zero max should disable truncation")
	}
}
