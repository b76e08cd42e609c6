package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"adspark/internal/api/handlers"
	"adspark/internal/api/middleware"
	"adspark/internal/campaign"
	"adspark/internal/chat"
	"adspark/internal/config"
	"adspark/internal/logger"
	"adspark/internal/metrics"
	"adspark/internal/performance"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP layer drives.
type Dependencies struct {
	Registry   *campaign.Registry
	Provider   performance.Provider
	Transcript *chat.Transcript
	Suggester  handlers.Suggester
	Metrics    *metrics.Metrics
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, deps Dependencies) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Initialize handlers
	campaignHandler := handlers.NewCampaignHandler(deps.Registry, logger, cfg.MaxUploadBytes)
	dashboardHandler := handlers.NewDashboardHandler(deps.Provider, deps.Registry, logger)
	chatHandler := handlers.NewChatHandler(deps.Transcript, deps.Registry, logger)
	optimizerHandler := handlers.NewOptimizerHandler(deps.Suggester, deps.Provider, logger)

	generationLimit := middleware.RateLimit(middleware.NewLimiter(cfg.GenerateRatePerMinute))

	router.GET("/health", handlers.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/dashboard", dashboardHandler.Get)

		// Campaigns
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.List)
			campaigns.POST("", campaignHandler.Create)
			campaigns.GET("/:id", campaignHandler.Get)
			campaigns.DELETE("/:id", campaignHandler.Delete)
			campaigns.POST("/:id/generate", generationLimit, campaignHandler.Generate)
			campaigns.POST("/:id/variants/:variantId/deploy", campaignHandler.Deploy)
		}

		// Growth agent chat
		chatRoutes := v1.Group("/chat")
		{
			chatRoutes.GET("", chatHandler.Get)
			chatRoutes.POST("/messages", chatHandler.Send)
		}

		// Optimizer
		v1.POST("/optimizer/suggestions", generationLimit, optimizerHandler.Suggestions)
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
		server: &http.Server{
			Addr:        fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort),
			Handler:     router,
			ReadTimeout: 15 * time.Second,
			// generation waits on the completion endpoint, retries included
			WriteTimeout: cfg.GenerationBudget() + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start blocks until the server stops. A graceful Stop returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting server on " + s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router, mainly for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
