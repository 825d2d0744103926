// Package server exposes résumé generation over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nikogura/resume-builder/pkg/metrics"
	"github.com/nikogura/resume-builder/pkg/pipeline"
	"github.com/nikogura/resume-builder/pkg/renderer"
	"github.com/nikogura/resume-builder/pkg/resume"
)

// maxDescription caps the description accepted over HTTP.
const maxDescription = 4096

// Generator produces records. *pipeline.Pipeline satisfies it.
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// Renderer turns a record into HTML. *renderer.HTMLRenderer satisfies it.
type Renderer interface {
	Render(rec resume.Record) ([]byte, error)
}

// GenerateRequest is the body of POST /api/v1/resumes.
type GenerateRequest struct {
	Description string            `json:"description" binding:"required"`
	Provider    string            `json:"provider"`
	APIKeys     map[string]string `json:"api_keys"`
	Offline     bool              `json:"offline"`
}

// GenerateResponse is a finished generation.
type GenerateResponse struct {
	pipeline.Result
	HTML string `json:"html"`
}

// Server holds the HTTP handlers.
type Server struct {
	generator Generator
	renderer  Renderer
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// New creates a server. Metrics may be nil.
func New(generator Generator, r Renderer, m *metrics.Metrics, logger *zap.Logger) (s *Server) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s = &Server{generator: generator, renderer: r, metrics: m, logger: logger}
	return s
}

// Router builds the gin engine.
func (s *Server) Router() (r *gin.Engine) {
	gin.SetMode(gin.ReleaseMode)
	r = gin.New()

	r.Use(
		requestID(),
		accessLog(s.logger),
		gin.Recovery(),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	api.POST("/resumes", s.handleGenerate)

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	return r
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid_request", "body must be JSON with a non-empty description")
		return
	}

	if len(req.Description) > maxDescription {
		s.respondError(c, http.StatusRequestEntityTooLarge, "description_too_long", "description exceeds 4096 bytes")
		return
	}

	result, err := s.generator.Generate(c.Request.Context(), pipeline.Request{
		Description: req.Description,
		Provider:    req.Provider,
		APIKeys:     req.APIKeys,
		Offline:     req.Offline,
		RequestID:   c.GetString(requestIDKey),
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyDescription) {
			s.respondError(c, http.StatusBadRequest, "empty_description", err.Error())
			return
		}
		s.respondError(c, http.StatusInternalServerError, "generation_failed", err.Error())
		return
	}

	html, err := s.renderer.Render(result.Record)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{Result: result, HTML: string(html)})
}

// Serve runs the HTTP server on addr until ctx ends, then shuts down.
func (s *Server) Serve(ctx context.Context, addr string) (err error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", zap.String("addr", addr))

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "failed to shut down server")
		return err
	}

	return err
}

var _ Renderer = (*renderer.HTMLRenderer)(nil)
var _ Generator = (*pipeline.Pipeline)(nil)
