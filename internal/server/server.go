package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/osa911/portfolio/internal/api/handlers"
	"github.com/osa911/portfolio/internal/api/middleware"
	"github.com/osa911/portfolio/internal/config"
	"github.com/osa911/portfolio/internal/logging"
	mailer "github.com/osa911/portfolio/internal/mail"
	"github.com/osa911/portfolio/internal/server/routes"
	"github.com/osa911/portfolio/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg      *config.Config
	logger   *logging.Logger
	router   *gin.Engine
	registry *prometheus.Registry
	redis    *redis.Client

	newTransport service.TransportFactory
	limiter      service.SubmissionLimiter
}

// NewServer wires the contact relay, its limiter and the HTTP routes.
func NewServer(cfg *config.Config, logger *logging.Logger, opts ...Option) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Request logging goes through our logger
	gin.DefaultWriter = io.Discard

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		router:   gin.New(),
		registry: prometheus.NewRegistry(),
	}
	s.newTransport = func() (mailer.Transport, error) {
		return mailer.NewTransport(cfg.Mail, logger)
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	if s.limiter == nil {
		limiter, err := s.buildLimiter()
		if err != nil {
			return nil, err
		}
		s.limiter = limiter
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewRelayMetrics(s.registry)

	relay := service.NewRelayService(s.newTransport, cfg.Mail.To, cfg.Mail.Timeout, metrics, logger)

	globalOpts := routes.GlobalOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
	}
	if cfg.OTLPEndpoint != "" {
		globalOpts.ServiceName = cfg.ServiceName
	}
	routes.SetupGlobalMiddleware(s.router, logger, globalOpts)

	routes.Setup(s.router,
		&routes.Handlers{
			Contact: handlers.NewContactHandler(relay),
			Health:  handlers.NewHealthHandler(s.redis),
			Metrics: gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})),
		},
		&routes.Middleware{
			Validation:   middleware.NewValidationMiddleware(metrics),
			ContactLimit: middleware.ContactRateLimit(s.limiter, metrics, logger),
			MaxBodyBytes: cfg.MaxBodyBytes,
		},
	)

	return s, nil
}

func (s *Server) buildLimiter() (service.SubmissionLimiter, error) {
	if s.cfg.RedisURL == "" {
		s.logger.Info("Using in-memory contact rate limiter (%d per %s)", s.cfg.ContactRateLimit, s.cfg.ContactRateWindow)
		return service.NewMemoryLimiter(s.cfg.ContactRateLimit, s.cfg.ContactRateWindow), nil
	}

	opts, err := redis.ParseURL(s.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	s.redis = redis.NewClient(opts)
	s.logger.Info("Using Redis contact rate limiter at %s (%d per %s)", opts.Addr, s.cfg.ContactRateLimit, s.cfg.ContactRateWindow)
	return service.NewRedisLimiter(s.redis, s.cfg.ContactRateLimit, s.cfg.ContactRateWindow), nil
}

// Router exposes the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.cfg.Mail.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server on port %s", s.cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.close()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	s.close()
	return err
}

func (s *Server) close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close Redis client: %v", err)
		}
	}
}
