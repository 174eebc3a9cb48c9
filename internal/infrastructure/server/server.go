// Package server wires configuration, logging, metrics and the domain
// managers into one HTTP service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apihttp "github.com/Edgame2/castiel2-sub001/internal/api/http"
	"github.com/Edgame2/castiel2-sub001/internal/api/middleware"
	"github.com/Edgame2/castiel2-sub001/internal/domain/analytics"
	"github.com/Edgame2/castiel2-sub001/internal/domain/assembly"
	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
	"github.com/Edgame2/castiel2-sub001/internal/domain/auth"
	"github.com/Edgame2/castiel2-sub001/internal/domain/dashboard"
	"github.com/Edgame2/castiel2-sub001/internal/domain/document"
	"github.com/Edgame2/castiel2-sub001/internal/domain/integration"
	"github.com/Edgame2/castiel2-sub001/internal/domain/shard"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/config"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/monitoring"
	"github.com/Edgame2/castiel2-sub001/internal/ws"
	"go.uber.org/zap"
)

// Server is the assembled service.
type Server struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	engine  *gin.Engine
	http    *http.Server

	Scoring *analytics.ScoringClient
}

// New builds the full service from configuration.
func New(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	metrics := monitoring.NewMetrics()

	// Domain managers.
	shards := shard.NewManager(logger).WithMetrics(metrics)
	if err := shards.SeedBuiltInTypes(); err != nil {
		return nil, fmt.Errorf("seeding built-in shard types: %w", err)
	}
	dashboards := dashboard.NewManager(logger)
	recorder := audit.NewRecorder(audit.DefaultCapacity, logger).WithMetrics(metrics)

	assembler, err := assembly.NewAssembler(
		cfg.Assembly.TokenBudget,
		cfg.Assembly.CacheSize,
		assembly.DefaultScoringWeights(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("initializing assembler: %w", err)
	}
	assembler.WithMetrics(metrics)

	store, err := document.NewMemoryPayloadStore()
	if err != nil {
		return nil, fmt.Errorf("initializing payload store: %w", err)
	}
	ingestor, err := document.NewIngestor(store, assembly.DefaultVectorizationConfig(),
		cfg.Ingestion.MaxDocumentBytes, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing ingestor: %w", err)
	}

	registry := integration.NewRegistry()
	if err := registry.Register(integration.NewLocalFolderAdapter(ingestor, logger)); err != nil {
		return nil, fmt.Errorf("registering local folder adapter: %w", err)
	}
	integrations := integration.NewManager(registry, logger).WithMetrics(metrics)

	models := analytics.NewRegistry(logger)
	var scoring *analytics.ScoringClient
	if cfg.ML.Enabled {
		scoring = analytics.NewScoringClient(cfg.ML.BaseURL, logger)
	}

	authProvider := auth.NewProvider(auth.DefaultSessionTTL, logger)

	handlers := &apihttp.Handlers{
		Shards:       shards,
		Dashboards:   dashboards,
		Assembler:    assembler,
		Integrations: integrations,
		Documents:    ingestor,
		Audit:        recorder,
		Analytics:    models,
		Auth:         authProvider,
		Logger:       logger,
	}
	stream := ws.NewHandler(recorder, ingestor, logger).WithMetrics(metrics)

	// Router.
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	engine.Use(monitoring.Middleware(metrics))

	engine.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if scoring != nil {
			status["ml_breaker"] = scoring.BreakerState().String()
		}
		c.JSON(http.StatusOK, status)
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{})))
	engine.GET("/stream", stream.HandleConnection)
	handlers.RegisterRoutes(engine.Group("/api"))

	return &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		engine:  engine,
		Scoring: scoring,
	}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("server listening", zap.String("addr", addr))

	go s.tickUptime()

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) tickUptime() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		s.metrics.TickUptime()
	}
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
