package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"investing-backend/internal/investing/config"
	delivery "investing-backend/internal/investing/delivery/http"
	"investing-backend/internal/investing/delivery/ws"
	_ "investing-backend/internal/investing/docs"
	"investing-backend/internal/investing/repository"
	"investing-backend/internal/investing/service"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/password"
	"investing-backend/pkg/postgres"
	"investing-backend/pkg/redis"
	"investing-backend/pkg/session"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the api service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name), logger.Field("env", cfg.App.Env))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis. The catalog cache is optional.
	var catalogCache repository.CatalogCache = repository.NopCatalogCache{}
	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		appLogger.Warn("Redis unavailable, catalog cache disabled", logger.ErrorField(err))
	} else {
		defer redisClient.Close()
		catalogCache = repository.NewRedisCatalogCache(redisClient.Client, cfg.Catalog.CacheTTL)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	masterRepo := repository.NewMasterRepository(db.DB)
	portfolioRepo := repository.NewPortfolioRepository(db.DB)
	goalRepo := repository.NewGoalRepository(db.DB)
	comparisonRepo := repository.NewComparisonRepository(db.DB)
	recommendationRepo := repository.NewRecommendationRepository(db.DB)
	newsRepo, err := repository.NewNewsRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize news provider", logger.ErrorField(err))
	}

	// Initialize services
	issuer, err := session.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		appLogger.Fatal("Failed to initialize session issuer", logger.ErrorField(err))
	}
	authSvc := service.NewAuthService(userRepo, password.NewHasher(cfg.Auth.BcryptCost), issuer, appLogger)
	masterSvc := service.NewMasterService(masterRepo, catalogCache, appLogger)
	portfolioSvc := service.NewPortfolioService(portfolioRepo, masterRepo, service.NewValuator(masterRepo, appLogger), appLogger)
	goalSvc := service.NewGoalService(goalRepo, appLogger)
	comparisonSvc := service.NewComparisonService(comparisonRepo, masterRepo, appLogger)
	recommendationSvc := service.NewRecommendationService(service.NewProcessRecommender(cfg.Recommender, appLogger), recommendationRepo, appLogger)
	newsSvc := service.NewNewsService(newsRepo, cfg.News.MaxArticles, cfg.News.CacheDuration, appLogger)
	broadcaster := service.NewBroadcaster(masterSvc, cfg.Live.Interval, cfg.Live.MaxChange, appLogger)

	// Keep the catalog cache warm
	if err := masterSvc.WarmCache(ctx); err != nil {
		appLogger.Warn("Initial catalog warm-up failed", logger.ErrorField(err))
	}
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Catalog.RefreshCron, func() {
		if err := masterSvc.WarmCache(ctx); err != nil {
			appLogger.Warn("Catalog warm-up failed", logger.ErrorField(err))
		}
	}); err != nil {
		appLogger.Fatal("Invalid catalog refresh schedule", logger.ErrorField(err), logger.StringField("schedule", cfg.Catalog.RefreshCron))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(delivery.RequestContext())
	e.Use(delivery.RequestLogger(appLogger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	// Initialize handlers and routes
	cookies := delivery.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Domain: cfg.Auth.CookieDomain,
		Secure: cfg.Auth.CookieSecure,
	}
	delivery.RegisterRoutes(e, delivery.Handlers{
		User:       delivery.NewUserHandler(authSvc, cookies, appLogger),
		Master:     delivery.NewMasterHandler(masterSvc, appLogger),
		Portfolio:  delivery.NewPortfolioHandler(portfolioSvc, appLogger),
		Goal:       delivery.NewGoalHandler(goalSvc, appLogger),
		Comparison: delivery.NewComparisonHandler(comparisonSvc, appLogger),
		Recommend:  delivery.NewRecommendHandler(recommendationSvc, appLogger),
		News:       delivery.NewNewsHandler(newsSvc, appLogger),
	}, authSvc, cookies)
	ws.NewLiveHandler(ctx, broadcaster, cfg.CORS.AllowOrigins, appLogger).RegisterRoutes(e)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...", logger.IntField("live_connections", broadcaster.Active()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Investing Platform API
// @version 1.0
// @description Accounts, catalog, portfolios, goals, comparisons, recommendations and news for an Indian retail investing app.
// @BasePath /api
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
