package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"feedbridge/internal/api/handlers"
	"feedbridge/internal/api/middleware"
	"feedbridge/internal/config"
	"feedbridge/internal/credentials"
	"feedbridge/internal/database"
	"feedbridge/internal/events"
	"feedbridge/internal/feed"
	"feedbridge/internal/logger"
	"feedbridge/internal/services/tiendanube"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher *events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Shared components
	credentialStore := credentials.NewGormStore(db.DB)
	client := tiendanube.NewClient(cfg.TiendanubeAPIBase, cfg.UserAgent, logger)

	generator := feed.NewGenerator(
		credentialStore,
		client,
		feed.NewDomainResolver(cfg.DomainOverrides, cfg.PlatformDomain, client, logger),
		feed.NewBrandResolver(cfg.BrandOverrides, cfg.DefaultBrand, cfg.FeedLanguage),
		feed.NewFlattener(cfg.FeedLanguage),
		feed.NewSerializer(cfg.FeedCurrency, cfg.FeedUTMSuffix),
		feed.NewCache(time.Duration(cfg.FeedCacheTTL)*time.Second),
		feed.NewMetrics(),
		logger,
		cfg.FeedVariantMode,
	)

	// Initialize handlers
	feedHandler := handlers.NewFeedHandler(generator, logger)
	oauthHandler := handlers.NewOAuthHandler(credentialStore, publisher, cfg, logger)
	webhookHandler := handlers.NewWebhookHandler(credentialStore, publisher, cfg, logger)

	// Routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/feed/:store_id", feedHandler.Get)

	v1 := router.Group("/api/v1")
	{
		oauth := v1.Group("/oauth")
		{
			oauth.GET("/install", oauthHandler.Install)
			oauth.GET("/callback", oauthHandler.Callback)
		}

		v1.POST("/webhooks", webhookHandler.Handle)
		v1.GET("/metrics", feedHandler.Metrics)
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter exposes the router for handler tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
