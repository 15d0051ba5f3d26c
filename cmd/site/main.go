// Contact form backend.
//
// Usage: go run ./cmd/site -config config.yaml
//
// Secrets come from the environment (a .env file is loaded if present):
// EMAILJS_PRIVATE_KEY, RECAPTCHA_SECRET, CONTACT_ADMIN_TOKEN, CONTACT_HASH_SALT.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/contact"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	addr := flag.String("addr", "", "Listen address (empty = use config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg().Contact

	listen := *addr
	if listen == "" {
		listen = cfg.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := contact.OpenStore(ctx, cfg.DBPath, os.Getenv("CONTACT_HASH_SALT"))
	if err != nil {
		slog.Error("failed to open submission log", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := &http.Client{Timeout: time.Duration(cfg.TimeoutSec * float64(time.Second))}
	sender := &contact.EmailJSSender{
		Endpoint:    cfg.EmailJSEndpoint,
		ServiceID:   cfg.ServiceID,
		TemplateID:  cfg.TemplateID,
		PublicKey:   cfg.PublicKey,
		AccessToken: os.Getenv("EMAILJS_PRIVATE_KEY"),
		Client:      client,
	}

	var verifier contact.Verifier
	if secret := os.Getenv("RECAPTCHA_SECRET"); secret != "" {
		verifier = &contact.RecaptchaVerifier{
			Secret:   secret,
			Endpoint: cfg.VerifyEndpoint,
			Client:   client,
		}
	} else {
		slog.Warn("RECAPTCHA_SECRET not set, tokens are not verified")
	}

	srv := contact.NewServer(cfg, sender, verifier, store, os.Getenv("CONTACT_ADMIN_TOKEN"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(listen)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
		<-errCh
	}
}
