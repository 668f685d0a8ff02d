// internal/server/server.go

// Package server exposes the generation pipeline over HTTP: a blocking
// generate endpoint, a Server-Sent Events stream, design token and history
// lookups, brand guideline uploads, and health and metrics surfaces.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/common/metrics"
	"emailbuilder/internal/models"
	"emailbuilder/internal/pipeline"
)

// Pipeline runs the staged generation workflow.
type Pipeline interface {
	Run(ctx context.Context, initial pipeline.State) (pipeline.State, error)
	Stream(ctx context.Context, initial pipeline.State, emit func(event interface{})) (pipeline.State, error)
}

// TokenSource resolves the design token document for a template type.
type TokenSource interface {
	Load(ctx context.Context, templateType models.TemplateType) (models.DesignTokens, error)
}

// Archive persists finished generations and serves recent ones back.
type Archive interface {
	Archive(ctx context.Context, record models.GenerationRecord) error
	Recent(ctx context.Context, templateType models.TemplateType, limit int) ([]models.GenerationRecord, error)
}

// Deliverer hands a rendered email off to the outbound channels.
type Deliverer interface {
	Dispatch(ctx context.Context, record models.GenerationRecord, deliverTo, html string) []models.DeliveryReceipt
}

// HealthChecker probes a downstream dependency.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// Recorder tracks generation outcomes in the OpenTelemetry meter.
type Recorder interface {
	RecordGenerationProcessed(ctx context.Context, status string)
	RecordGenerationDuration(ctx context.Context, duration time.Duration, status string)
}

// Config holds the HTTP server settings.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins []string
	UploadsDir   string
}

// Deps are the server's collaborators. History, Delivery and Recorder may be
// nil when the matching feature is disabled.
type Deps struct {
	Pipeline Pipeline
	Tokens   TokenSource
	History  Archive
	Delivery Deliverer
	Renderer HealthChecker
	Recorder Recorder
}

// Server wires the HTTP API onto the pipeline and its sidecars.
type Server struct {
	config   Config
	pipeline Pipeline
	tokens   TokenSource
	history  Archive
	delivery Deliverer
	renderer HealthChecker
	recorder Recorder
	logger   logger.Logger

	engine *gin.Engine
	http   *http.Server
}

func NewServer(cfg Config, deps Deps, log logger.Logger) *Server {
	s := &Server{
		config:   cfg,
		pipeline: deps.Pipeline,
		tokens:   deps.Tokens,
		history:  deps.History,
		delivery: deps.Delivery,
		renderer: deps.Renderer,
		recorder: deps.Recorder,
		logger:   log.With(map[string]interface{}{"component": "server"}),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware(cfg.AllowOrigins))
	engine.Use(s.requestLog())

	engine.GET("/health", s.handleHealth)
	engine.GET("/ready", s.handleReady)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/tokens/:kind", s.handleTokens)
	engine.GET("/history/:kind/examples", s.handleHistoryExamples)
	engine.POST("/uploads", s.handleUpload)
	engine.POST("/generate", s.handleGenerate)
	engine.POST("/generate/stream", s.handleGenerateStream)

	s.engine = engine
	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{"address": s.config.Address})
	if err := s.http.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// corsMiddleware allows the configured origins, or any origin when the list
// is empty or contains "*". Credentials are only allowed with an explicit
// origin list.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	allowAll := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// requestLog records one log line and one counter increment per request.
// Probe and scrape endpoints are excluded to keep the log readable.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if path == "/health" || path == "/metrics" {
			return
		}

		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		s.logger.Info("Request completed", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}
