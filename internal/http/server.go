// Package http provides the HTTP API for councild.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/coolestowl/slack-ai-council/internal/council"
	"github.com/coolestowl/slack-ai-council/internal/dedup"
	"github.com/coolestowl/slack-ai-council/internal/orchestrator"
	"github.com/coolestowl/slack-ai-council/internal/store"
)

// Server provides HTTP endpoints for councild.
type Server struct {
	echo   *echo.Echo
	orch   *orchestrator.Orchestrator
	store  *store.MemStore
	seen   *dedup.Set
	logger *zap.Logger
	config *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// DefaultMode applies when a message carries no mode directive.
	DefaultMode council.Mode
}

// NewServer creates a new HTTP server.
func NewServer(orch *orchestrator.Orchestrator, st *store.MemStore, seen *dedup.Set, logger *zap.Logger, cfg *Config) (*Server, error) {
	if orch == nil {
		return nil, fmt.Errorf("orchestrator cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if seen == nil {
		seen = dedup.NewSet(0)
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080, DefaultMode: council.ModeCompare}
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = council.ModeCompare
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:   e,
		orch:   orch,
		store:  st,
		seen:   seen,
		logger: logger,
		config: cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/threads/:id/messages", s.handleMessage)
	v1.POST("/threads/:id/ask", s.handleAsk)
	v1.GET("/threads/:id", s.handleThread)
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleMessage ingests one user message and runs the council.
//
// Duplicate deliveries are detected by event ID and acknowledged
// without running anything, so platform retries never produce double
// responses. Inline mode= and model= directives are consumed here and
// never reach a participant.
func (s *Server) handleMessage(c echo.Context) error {
	threadID := c.Param("id")

	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid message request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if s.seen.Seen(req.EventID) {
		s.logger.Debug("duplicate event ignored",
			zap.String("thread", threadID),
			zap.String("event_id", req.EventID))
		return c.JSON(http.StatusOK, MessageResponse{Duplicate: true})
	}

	d := council.ParseDirectives(req.Text)
	if d.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message text is required")
	}

	ctx := c.Request().Context()

	if _, err := s.store.Append(ctx, threadID, council.Message{
		ID:      req.EventID,
		Origin:  council.OriginUser,
		Content: d.Text,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store message")
	}

	snap, err := s.store.Fetch(ctx, threadID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read thread")
	}

	parts, err := s.orch.ActiveParticipants(snap, d.Models)
	if err != nil {
		if errors.Is(err, council.ErrNoParticipants) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "no participants configured")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mode := s.config.DefaultMode
	if d.HasMode {
		mode = d.Mode
	}

	resp := MessageResponse{Mode: string(mode)}

	switch mode {
	case council.ModeDebate:
		turns, err := s.orch.RunDebate(ctx, threadID, parts)
		if err != nil {
			return s.runError(err)
		}
		for _, turn := range turns {
			resp.Responses = append(resp.Responses, ParticipantResponse{
				Participant: turn.Key,
				DisplayName: turn.DisplayName,
				Role:        string(turn.Role),
				Text:        turn.Text,
				Failed:      turn.Err != nil,
			})
		}
	default:
		results, err := s.orch.RunCompare(ctx, threadID, parts)
		if err != nil {
			return s.runError(err)
		}
		for _, r := range results {
			resp.Responses = append(resp.Responses, ParticipantResponse{
				Participant: r.Key,
				DisplayName: r.DisplayName,
				Text:        r.Text,
				Failed:      r.Err != nil,
			})
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// handleAsk runs a targeted follow-up against a single participant.
func (s *Server) handleAsk(c echo.Context) error {
	threadID := c.Param("id")

	var req AskRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid ask request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Model == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "model field is required")
	}

	result, err := s.orch.RunTargeted(c.Request().Context(), threadID, req.Model, req.Question)
	if err != nil {
		if errors.Is(err, council.ErrEmptyQuestion) {
			return echo.NewHTTPError(http.StatusBadRequest, "question field is required")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, AskResponse{
		Participant: result.Key,
		DisplayName: result.DisplayName,
		Text:        result.Text,
		Failed:      result.Err != nil,
	})
}

// handleThread returns a thread's messages.
func (s *Server) handleThread(c echo.Context) error {
	snap, err := s.store.Fetch(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "thread not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read thread")
	}
	return c.JSON(http.StatusOK, ThreadResponse{
		ThreadID: snap.ThreadID,
		Messages: snap.Messages,
	})
}

func (s *Server) runError(err error) error {
	switch {
	case errors.Is(err, council.ErrNoParticipants):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no participants configured")
	case errors.Is(err, council.ErrNotEnoughParticipants):
		return echo.NewHTTPError(http.StatusBadRequest, "a debate needs at least two participants")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Echo exposes the underlying router so the caller can attach
// additional handlers, like the Prometheus scrape endpoint.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
