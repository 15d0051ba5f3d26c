package contact

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/pthm-cable/folio/config"
)

// Server is the HTTP surface of the contact form.
type Server struct {
	engine     *gin.Engine
	http       *http.Server
	sender     Sender
	verifier   Verifier
	store      *Store
	adminToken string
	maxLen     int
	timeout    time.Duration
}

// NewServer builds the routes. store and verifier may be nil; an empty
// adminToken disables the admin endpoint.
func NewServer(cfg config.ContactConfig, sender Sender, verifier Verifier, store *Store, adminToken string) *Server {
	s := &Server{
		engine:     gin.New(),
		sender:     sender,
		verifier:   verifier,
		store:      store,
		adminToken: adminToken,
		maxLen:     cfg.MaxMessageLen,
		timeout:    time.Duration(cfg.TimeoutSec * float64(time.Second)),
	}
	if s.timeout <= 0 {
		s.timeout = 10 * time.Second
	}
	s.http = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.engine.Use(gin.Recovery(), requestLogger())
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.POST("/api/contact", s.handleContact)

	admin := s.engine.Group("/admin", s.adminAuth())
	admin.GET("/messages", s.handleMessages)

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("contact server: %w", err)
	}
	slog.Info("contact server listening", "addr", ln.Addr().String())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("contact server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server. It is safe to call from another
// goroutine while ListenAndServe is running.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type contactRequest struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Message string `json:"message" form:"message" binding:"required"`
	Token   string `json:"g-recaptcha-response" form:"g-recaptcha-response"`
}

type contactResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, contactResponse{
			Status:  StatusError.String(),
			Message: "Please provide your name, a valid email and a message.",
		})
		return
	}
	if s.maxLen > 0 && utf8.RuneCountInString(req.Message) > s.maxLen {
		c.JSON(http.StatusBadRequest, contactResponse{
			Status:  StatusError.String(),
			Message: fmt.Sprintf("Message must be at most %d characters.", s.maxLen),
		})
		return
	}

	form := NewForm(NewTokenCaptcha(req.Token, c.ClientIP(), s.verifier), s.sender, s.maxLen)
	form.SetFields(Fields{Name: req.Name, Email: req.Email, Message: req.Message})

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()
	err := form.Submit(ctx)
	status, msg := form.Status()

	s.record(c, req, status, err)

	switch {
	case err == nil:
		c.JSON(http.StatusOK, contactResponse{Status: status.String(), Message: MsgSent})
	case errors.Is(err, ErrCaptchaFailed):
		c.JSON(http.StatusBadRequest, contactResponse{Status: status.String(), Message: msg})
	default:
		slog.Warn("contact delivery failed", "error", err)
		c.JSON(http.StatusBadGateway, contactResponse{Status: status.String(), Message: msg})
	}
}

func (s *Server) record(c *gin.Context, req contactRequest, status Status, submitErr error) {
	if s.store == nil {
		return
	}
	sub := Submission{
		Name:     req.Name,
		Email:    req.Email,
		Message:  req.Message,
		Status:   status.String(),
		HashedIP: s.store.HashIP(c.ClientIP()),
	}
	if submitErr != nil {
		sub.Error = submitErr.Error()
	}
	if _, err := s.store.Record(c.Request.Context(), sub); err != nil {
		slog.Error("failed to record submission", "error", err)
	}
}

func (s *Server) handleMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "submission log disabled"})
		return
	}
	subs, err := s.store.Recent(c.Request.Context(), limit)
	if err != nil {
		slog.Error("failed to list submissions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	counts, err := s.store.Counts(c.Request.Context())
	if err != nil {
		slog.Error("failed to count submissions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs, "counts": counts})
}

// adminAuth requires "Authorization: Bearer <token>".
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.adminToken == "" {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
