package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmailJSSender_Send(t *testing.T) {
	var got emailJSRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	s := &EmailJSSender{
		Endpoint:   srv.URL,
		ServiceID:  "service_baukuoq",
		TemplateID: "template_fql2hnq",
		PublicKey:  "2SSsVKhmkrh5oX8IO",
	}
	msg := Message{Fields: Fields{Name: "Ada", Email: "ada@example.com", Message: "Hi"}, Token: "tok"}
	if err := s.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got.ServiceID != "service_baukuoq" || got.TemplateID != "template_fql2hnq" || got.UserID != "2SSsVKhmkrh5oX8IO" {
		t.Errorf("unexpected ids: %+v", got)
	}
	if got.AccessToken != "" {
		t.Error("access token should be omitted when unset")
	}
	want := map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hi", "g-recaptcha-response": "tok"}
	for k, v := range want {
		if got.TemplateParams[k] != v {
			t.Errorf("template_params[%q] = %q, want %q", k, got.TemplateParams[k], v)
		}
	}
}

func TestEmailJSSender_Rejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The template ID is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := &EmailJSSender{Endpoint: srv.URL}
	err := s.Send(context.Background(), Message{})

	var de *DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DeliveryError, got %v", err)
	}
	if de.Status != http.StatusBadRequest || de.Text != "The template ID is invalid" {
		t.Errorf("unexpected delivery error %+v", de)
	}
}

func TestEmailJSSender_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := (&EmailJSSender{Endpoint: url}).Send(context.Background(), Message{})
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	var de *DeliveryError
	if errors.As(err, &de) {
		t.Error("transport failure must not be a DeliveryError")
	}
}

func TestRecaptchaVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		if r.PostForm.Get("secret") != "s3cret" {
			t.Errorf("unexpected secret %q", r.PostForm.Get("secret"))
		}
		ok := r.PostForm.Get("response") == "good"
		resp := siteverifyResponse{Success: ok}
		if !ok {
			resp.ErrorCodes = []string{"invalid-input-response"}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	v := &RecaptchaVerifier{Secret: "s3cret", Endpoint: srv.URL}
	if err := v.Verify(context.Background(), "good", "1.2.3.4"); err != nil {
		t.Errorf("good token rejected: %v", err)
	}
	if err := v.Verify(context.Background(), "bad", ""); !errors.Is(err, ErrCaptchaRejected) {
		t.Errorf("expected ErrCaptchaRejected, got %v", err)
	}

	tok, err := NewTokenCaptcha("bad", "", v).Token(context.Background())
	if err == nil || tok != "" {
		t.Errorf("verified captcha should fail for bad token, got %q %v", tok, err)
	}
	tok, err = NewTokenCaptcha("", "", v).Token(context.Background())
	if err != nil || tok != "" {
		t.Errorf("empty token should pass through as empty, got %q %v", tok, err)
	}
}
