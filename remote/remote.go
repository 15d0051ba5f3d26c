// Package remote exposes the field controls over HTTP so the simulation can
// be driven from scripts while the window is open.
package remote

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pthm-cable/folio/forcefn"
	"github.com/pthm-cable/folio/systems"
)

// Server serves the control API. All writes go through systems.Controls.
type Server struct {
	controls *systems.Controls
	engine   *gin.Engine
	http     *http.Server
	done     chan struct{}
}

// NewServer builds the routes for controls.
func NewServer(controls *systems.Controls) *Server {
	s := &Server{controls: controls, engine: gin.New()}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/field", s.handleGet)
	s.engine.PUT("/field/params", s.handleParams)
	s.engine.PUT("/field/functions", s.handleFunctions)
	s.engine.POST("/field/reset", s.handleReset)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on addr and serves on a background goroutine. It returns the
// bound address, which differs from addr when addr uses port 0.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	s.http = &http.Server{Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("remote control server stopped", "error", err)
		}
	}()

	slog.Info("remote control listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Stop shuts the server down and waits for the serve goroutine to exit.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	err := s.http.Shutdown(ctx)
	<-s.done
	s.http = nil
	return err
}

type fieldState struct {
	State      string         `json:"state"`
	Radial     string         `json:"radial"`
	Tangential string         `json:"tangential"`
	Generation uint64         `json:"generation"`
	Params     systems.Params `json:"params"`
	Resets     uint64         `json:"resets"`
}

func (s *Server) snapshot() fieldState {
	ps := s.controls.Profiles()
	return fieldState{
		State:      ps.State.String(),
		Radial:     ps.RadialSrc,
		Tangential: ps.TangentialSrc,
		Generation: ps.Generation,
		Params:     s.controls.Params(),
		Resets:     s.controls.ResetCount(),
	}
}

func (s *Server) handleGet(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshot())
}

type paramsRequest struct {
	Noise    *float64 `json:"noise"`
	Friction *float64 `json:"friction"`
}

func (s *Server) handleParams(c *gin.Context) {
	var req paramsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := s.controls.Params()
	if req.Noise != nil {
		p.Noise = *req.Noise
	}
	if req.Friction != nil {
		p.Friction = *req.Friction
	}
	s.controls.SetParams(p)
	c.JSON(http.StatusOK, s.controls.Params())
}

type functionsRequest struct {
	Radial     string `json:"radial" binding:"required"`
	Tangential string `json:"tangential" binding:"required"`
}

func (s *Server) handleFunctions(c *gin.Context) {
	var req functionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.controls.Apply(req.Radial, req.Tangential); err != nil {
		var pe *forcefn.ParseError
		if errors.As(err, &pe) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    pe.Msg,
				"expr":     pe.Expr,
				"position": pe.Pos,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("profiles applied remotely", "radial", req.Radial, "tangential", req.Tangential)
	c.JSON(http.StatusOK, s.snapshot())
}

func (s *Server) handleReset(c *gin.Context) {
	s.controls.Reset()
	c.JSON(http.StatusAccepted, gin.H{"resets": s.controls.ResetCount()})
}
