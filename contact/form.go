// Package contact implements the portfolio contact form: captcha gating,
// delivery through EmailJS, a SQLite submission log and the HTTP surface.
package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// User-facing messages.
const (
	MsgSent          = "Message sent successfully!"
	MsgCaptchaFailed = "reCAPTCHA verification failed. Please try again."
	MsgSendFailed    = "Failed to send message."
	MsgNotReady      = "reCAPTCHA is not ready. Please wait a moment and try again."
)

var (
	// ErrCaptchaNotReady is returned by Submit before the captcha widget has loaded.
	ErrCaptchaNotReady = errors.New("contact: captcha not ready")
	// ErrCaptchaFailed is returned when no usable captcha token was produced.
	ErrCaptchaFailed = errors.New("contact: captcha verification failed")
	// ErrSubmitInProgress is returned when a submission is already pending.
	ErrSubmitInProgress = errors.New("contact: submission in progress")
	// ErrUnknownField is returned by SetField for names other than name, email and message.
	ErrUnknownField = errors.New("contact: unknown field")
)

// Status is the form's submission state.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Fields are the user-entered form values.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Message is what gets delivered: the fields plus the captcha token.
type Message struct {
	Fields
	Token string
}

// Captcha produces a token proving the submitter passed the challenge.
type Captcha interface {
	Ready() bool
	Token(ctx context.Context) (string, error)
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Form is the contact form state machine:
// idle -> pending -> success | error, and back to pending on the next submit.
type Form struct {
	captcha Captcha
	sender  Sender
	maxLen  int

	mu     sync.Mutex
	fields Fields
	status Status
	errMsg string
}

// NewForm creates an idle form. maxLen caps the message length; 0 disables the cap.
func NewForm(captcha Captcha, sender Sender, maxLen int) *Form {
	return &Form{captcha: captcha, sender: sender, maxLen: maxLen}
}

// SetField updates one field by its input name. The message is truncated to
// the configured maximum, like a maxlength input.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case "name":
		f.fields.Name = value
	case "email":
		f.fields.Email = value
	case "message":
		f.fields.Message = truncateRunes(value, f.maxLen)
	default:
		return ErrUnknownField
	}
	return nil
}

// SetFields replaces all fields.
func (f *Form) SetFields(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields.Message = truncateRunes(fields.Message, f.maxLen)
	f.fields = fields
}

// Fields returns the current field values.
func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Status returns the submission state and, in StatusError, the error text.
func (f *Form) Status() (Status, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.errMsg
}

// CanSubmit mirrors the submit button: disabled while pending or before the
// captcha is ready.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status != StatusPending && f.captcha.Ready()
}

// Submit obtains a captcha token and sends the message.
//
// If the captcha is not ready nothing changes and ErrCaptchaNotReady is
// returned. Otherwise the form goes pending; on success the fields are cleared,
// on failure they are kept and the status carries a non-empty message.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if !f.captcha.Ready() {
		f.mu.Unlock()
		return ErrCaptchaNotReady
	}
	if f.status == StatusPending {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	f.status, f.errMsg = StatusPending, ""
	fields := f.fields
	f.mu.Unlock()

	token, err := f.captcha.Token(ctx)
	if err != nil || strings.TrimSpace(token) == "" {
		f.finish(StatusError, MsgCaptchaFailed, false)
		if err != nil {
			return errors.Join(ErrCaptchaFailed, err)
		}
		return ErrCaptchaFailed
	}

	if err := f.sender.Send(ctx, Message{Fields: fields, Token: token}); err != nil {
		f.finish(StatusError, failureText(err), false)
		return err
	}

	f.finish(StatusSuccess, "", true)
	return nil
}

func (f *Form) finish(status Status, msg string, clear bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.errMsg = status, msg
	if clear {
		f.fields = Fields{}
	}
}

// failureText picks the message shown for a delivery failure. A rejection
// reported by the delivery service gets the generic text; transport and other
// errors show their own message.
func failureText(err error) string {
	var de *DeliveryError
	if errors.As(err, &de) {
		return MsgSendFailed
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgSendFailed
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
