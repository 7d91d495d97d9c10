package server

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playgroundlab/webstack/internal/agents"
	apihttp "github.com/playgroundlab/webstack/internal/api/http"
	"github.com/playgroundlab/webstack/internal/api/middleware"
	"github.com/playgroundlab/webstack/internal/api/ws"
	"github.com/playgroundlab/webstack/internal/browser"
	"github.com/playgroundlab/webstack/internal/fetch"
	"github.com/playgroundlab/webstack/internal/infrastructure/config"
	"github.com/playgroundlab/webstack/internal/infrastructure/logging"
	"github.com/playgroundlab/webstack/internal/infrastructure/monitoring"
	"github.com/playgroundlab/webstack/internal/scrape"
	"github.com/playgroundlab/webstack/internal/spider"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	cfg     *config.Config
	logger  *logging.Logger
	manager *browser.Manager
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics := monitoring.NewMetrics()

	// One outbound client shared by the spider and the browser sessions.
	client := fetch.NewClient(agents.NewPool())
	client.SetTimeout(time.Duration(cfg.Spider.TimeoutSeconds) * time.Second)
	client.SetMetrics(metrics)
	if cfg.Spider.RPS > 0 {
		client.SetRateLimit(float64(cfg.Spider.RPS), cfg.Spider.RPS)
	}

	spiderSvc := spider.New(client, scrape.NewParser(), logger, cfg.Spider.Concurrency, cfg.Spider.MaxDepth)

	catalog := browser.NewCatalog()
	if cfg.Browser.DevicesFile != "" {
		catalog, err = browser.NewCatalogFromFile(cfg.Browser.DevicesFile)
		if err != nil {
			return nil, fmt.Errorf("load device presets: %w", err)
		}
		logger.Info("device presets loaded",
			zap.String("file", cfg.Browser.DevicesFile),
			zap.Int("devices", len(catalog.Devices())),
		)
	}

	screen := browser.Screen{
		Width:  cfg.Browser.ScreenWidth,
		Height: cfg.Browser.ScreenHeight,
	}
	manager := browser.NewManager(browser.NewFetchNavigator(client), screen, logger)

	stream := ws.NewHub(logger, metrics)

	if cfg.Logging.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(spiderSvc, manager, catalog, client, metrics, stream, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Spider
	router.POST("/api/spider", handlers.Spider)

	// Browser stack
	router.POST("/api/browser/start", handlers.BrowserStart)
	router.GET("/api/browser/stop", handlers.BrowserStop)
	router.GET("/api/browser/session", handlers.BrowserSession)
	router.GET("/api/browser/options", handlers.BrowserOptions)
	router.POST("/api/browser/form", handlers.BrowserForm)

	// Diagnostics stream
	router.GET("/stream", stream.HandleConnection)

	return &Server{
		router:  router,
		cfg:     cfg,
		logger:  logger,
		manager: manager,
	}, nil
}

// Run starts the server
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close cleans up resources
func (s *Server) Close() error {
	if _, stopped := s.manager.Stop(); stopped {
		s.logger.Info("stopped active browser session")
	}
	return s.logger.Sync()
}
