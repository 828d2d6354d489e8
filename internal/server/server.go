// Package server provides the HTTP API for CV fit analysis.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/cv-fit-analyzer/internal/document"
	"github.com/jonathan/cv-fit-analyzer/internal/server/middleware"
	"github.com/jonathan/cv-fit-analyzer/internal/server/ratelimit"
	"github.com/jonathan/cv-fit-analyzer/internal/types"
	"go.uber.org/zap"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultPort            = 3000
	DefaultUploadDir       = "uploads"
	DefaultMaxUploadBytes  = 5_000_000
	DefaultWriteTimeout    = 300 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Analyzer runs a full analysis for one uploaded document. It owns the
// file at documentPath and removes it before returning.
type Analyzer interface {
	Analyze(ctx context.Context, documentPath string, input types.JobInput) (*types.FitAssessment, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	analyzer    Analyzer
	cfg         Config
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
}

// Config holds server configuration
type Config struct {
	Port           int
	UploadDir      string
	MaxUploadBytes int64
	// WriteTimeout must exceed the worst-case completion retry budget.
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RateLimit       *ratelimit.Config
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.UploadDir == "" {
		c.UploadDir = DefaultUploadDir
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	return c
}

// New creates a new server instance
func New(cfg Config, analyzer Analyzer, logger *zap.Logger) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("server: analyzer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg = cfg.withDefaults()
	s := &Server{
		analyzer:    analyzer,
		cfg:         cfg,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload-cv", s.handleUploadCV)
	mux.HandleFunc("GET /api/{$}", s.handleBanner)
	mux.HandleFunc("GET /health", s.handleHealth)

	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(s.logger)(h)
	h = middleware.RequestID(h)
	h = ratelimit.Middleware(s.rateLimiter, s.logger)(h)
	return h
}

// Start begins listening for requests and blocks until ctx is done or the
// process receives SIGINT/SIGTERM, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server listen failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", zap.Duration("drain", s.cfg.ShutdownTimeout))
	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBanner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("CV fit analyzer API"))
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", zap.Error(err))
	}
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// errorResponse maps err to a status and writes the error body.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Int("status", status),
		zap.Error(err),
	}
	var extractionErr *document.ExtractionError
	if errors.As(err, &extractionErr) {
		fields = append(fields, zap.String("path", extractionErr.Path))
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("analysis request failed", fields...)
	} else {
		s.logger.Info("analysis request rejected", fields...)
	}

	s.jsonResponse(w, status, ErrorResponse{Error: errorTitle(err), Details: err.Error()})
}
