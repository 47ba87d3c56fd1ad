package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/gazeweb/internal/api/http"
	"github.com/GriffinCanCode/gazeweb/internal/api/middleware"
	"github.com/GriffinCanCode/gazeweb/internal/bridge"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/config"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/logging"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/gazeweb/internal/tab"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	tabs    *tab.Manager
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance. Tab frame loops stop when ctx is
// done.
func NewServer(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("Initializing gazeweb server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Duration("frame_interval", cfg.Frame.Interval),
	)

	// Metrics get their own registry so /metrics only exposes this process
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.New(reg)

	tabs := tab.NewManager(ctx, tab.SettingsFromConfig(cfg), tab.Options{
		Logger:   logger.Component("tab"),
		Metrics:  metrics,
		Interval: cfg.Frame.Interval,
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.Bridge.AllowedOrigins
	router.Use(middleware.CORS(corsCfg))

	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(tabs, metrics)
	wsHandler := bridge.NewHandler(bridgeConfig(cfg), resolver(tabs), logger.Component("bridge"), metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Tabs
	router.GET("/tabs", handlers.ListTabs)
	router.POST("/tabs", handlers.OpenTab)
	router.GET("/tabs/:id", handlers.GetTab)
	router.DELETE("/tabs/:id", handlers.CloseTab)
	router.POST("/tabs/:id/focus", handlers.FocusTab)

	// Interaction control
	router.GET("/tabs/:id/pipelines", handlers.ListPipelines)
	router.POST("/tabs/:id/pipelines", handlers.StartPipeline)
	router.DELETE("/tabs/:id/pipelines/:slot", handlers.AbortPipeline)
	router.POST("/tabs/:id/recalibrate", handlers.Recalibrate)
	router.POST("/tabs/:id/drift", handlers.RequestDrift)

	// WebSocket
	router.GET("/tabs/:id/ws", wsHandler.ServeTab)
	router.GET("/tracker", wsHandler.ServeTracker)

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	router.GET("/metrics/json", handlers.MetricsJSON)

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		tabs:    tabs,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		http: &http.Server{
			Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Tabs returns the tab manager.
func (s *Server) Tabs() *tab.Manager { return s.tabs }

// Run serves HTTP until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, closes every tab and flushes the
// logger.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
	}

	s.tabs.Shutdown()
	s.logger.Info("Closed all tabs")
	s.metrics.Close()

	_ = s.logger.Sync()
	return err
}

func bridgeConfig(cfg *config.Config) bridge.Config {
	b := bridge.DefaultConfig()
	b.ReadLimit = cfg.Bridge.ReadLimit
	b.WriteTimeout = cfg.Bridge.WriteTimeout
	b.PingInterval = cfg.Bridge.PingInterval
	b.SendBuffer = cfg.Bridge.SendBuffer
	b.AllowedOrigins = cfg.Bridge.AllowedOrigins
	b.FeedbackRate = cfg.Feedback.Rate
	b.FeedbackBurst = cfg.Feedback.Burst
	b.BreakerFailures = cfg.Bridge.BreakerFailures
	b.BreakerTimeout = cfg.Bridge.BreakerTimeout
	return b
}

// resolver exposes the tab manager to the bridge. An empty id names the
// focused tab.
func resolver(tabs *tab.Manager) bridge.ResolverFunc {
	return func(tabID string) (bridge.Target, bool) {
		var (
			t  *tab.Tab
			ok bool
		)
		if tabID == "" {
			t, ok = tabs.Focused()
		} else {
			t, ok = tabs.Get(tabID)
		}
		if !ok {
			return nil, false
		}
		return t.Coordinator(), true
	}
}
