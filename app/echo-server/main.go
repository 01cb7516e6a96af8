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

	"darbFilters/app/echo-server/router"
	"darbFilters/business/analytics"
	"darbFilters/business/catalog"
	"darbFilters/business/filterconfig"
	merchantService "darbFilters/business/merchant"
	"darbFilters/business/pricedrop"
	"darbFilters/business/snapshot"
	storeService "darbFilters/business/store"
	"darbFilters/business/widget"
	"darbFilters/internal/middleware"
	"darbFilters/internal/repository/notification"
	psqlRepo "darbFilters/internal/repository/postgres"
	redisRepo "darbFilters/internal/repository/redis"
	"darbFilters/internal/repository/salla"
	"darbFilters/internal/rest"
	"darbFilters/pkg/config"
	"darbFilters/pkg/database"
	redisdb "darbFilters/pkg/database/redis"
	"darbFilters/pkg/logger"
	"darbFilters/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Darb Filters", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	metrics.Init()

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	sallaRepo := salla.NewSallaRepository(
		salla.SallaConfig{
			SallaApiBaseUrl: cfg.Salla.SallaApiBaseUrl,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	storeRepo := psqlRepo.NewStoreRepository(db)
	merchantRepo := psqlRepo.NewMerchantRepository(db)
	catalogRepo := psqlRepo.NewCatalogRepository(db)
	configRepo := psqlRepo.NewFilterConfigRepository(db)
	eventRepo := psqlRepo.NewWidgetEventRepository(db)
	viewRepo := psqlRepo.NewProductViewRepository(db)
	priceDropRepo := psqlRepo.NewPriceDropRepository(db)
	snapshotCache := redisRepo.NewSnapshotCache(redisClient)

	// Init service
	snapshotTTL := time.Duration(cfg.Widget.SnapshotTTLMinutes) * time.Minute
	snapshotSvc := snapshot.NewSnapshotService(catalogRepo, configRepo, snapshotCache, snapshotTTL)
	storeSvc := storeService.NewStoreService(storeRepo, cfg.App.AppDeploymentUrl, cfg.App.AppEmbedSecretKey)
	merchantSvc := merchantService.NewMerchantService(merchantRepo, storeRepo, validate)
	catalogSvc := catalog.NewCatalogService(catalogRepo, snapshotSvc)
	configSvc := filterconfig.NewFilterConfigService(configRepo, snapshotSvc)
	widgetSvc := widget.NewWidgetService(eventRepo, catalogRepo, storeRepo, snapshotSvc)
	priceDropSvc := pricedrop.NewPriceDropService(priceDropRepo, viewRepo, storeRepo, sallaRepo, mailjetEmail)
	analyticsSvc := analytics.NewAnalyticsService(eventRepo, storeRepo)

	// Init handler
	merchantHandler := rest.NewMerchantHandler(merchantSvc)
	storeHandler := rest.NewStoreHandler(storeSvc)
	catalogHandler := rest.NewCatalogHandler(catalogSvc)
	configHandler := rest.NewFilterConfigHandler(configSvc)
	widgetHandler := rest.NewWidgetHandler(widgetSvc, snapshotSvc, priceDropSvc)
	priceDropHandler := rest.NewPriceDropHandler(priceDropSvc)
	analyticsHandler := rest.NewAnalyticsHandler(analyticsSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Widget.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "x-widget-secret"},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()
	widgetSecret := middleware.WidgetSecret(cfg.Widget.WidgetSecret)

	// Setup routes
	api := e.Group("/api")
	router.SetupMerchantRoutes(api, merchantHandler, authRequired)
	router.SetupStoreRoutes(api, storeHandler, authRequired, adminOnly)
	router.SetupCatalogRoutes(api, catalogHandler, authRequired)
	router.SetupFilterConfigRoutes(api, configHandler, authRequired)
	router.SetupWidgetRoutes(api, widgetHandler, widgetSecret)
	router.SetupPriceDropRoutes(api, priceDropHandler, authRequired)
	router.SetupAnalyticsRoutes(api, analyticsHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
