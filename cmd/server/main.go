package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cargolink/internal/config"
	"cargolink/internal/handlers"
	"cargolink/internal/middleware"
	"cargolink/internal/repositories/mongodb"
	"cargolink/internal/services"
	"cargolink/pkg/cache"
	"cargolink/pkg/database"
	"cargolink/pkg/logger"
	"cargolink/pkg/mailer"
	"cargolink/pkg/pdf"
	"cargolink/pkg/storage"
	"cargolink/pkg/websocket"
	"cargolink/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	if err := database.EnsureIndexes(db.Database); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}

	// The cache is an optimization; the server runs without Redis.
	var cacheService mongodb.CacheService
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
	} else {
		cacheService = redisCache
		defer redisCache.Close()
	}

	storageProvider, err := storage.NewLocalStorage(cfg.Storage.Local.BasePath, cfg.Storage.Local.BaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}

	var mail mailer.Mailer
	if cfg.SMTP.Username != "" {
		mail = mailer.NewSMTPMailer(
			cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.SMTP.FromEmail, cfg.SMTP.FromName,
		)
	} else {
		log.Warn("SMTP not configured, invoice emails disabled")
	}

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database, cacheService)
	packageRepo := mongodb.NewPackageRepository(db.Database)
	offerRepo := mongodb.NewOfferRepository(db.Database)
	chatRepo := mongodb.NewChatRepository(db.Database)
	invoiceRepo := mongodb.NewInvoiceRepository(db.Database)
	trackingRepo := mongodb.NewTrackingRepository(db.Database)
	vehicleRepo := mongodb.NewVehicleRepository(db.Database)
	staffRepo := mongodb.NewStaffRepository(db.Database)

	// Services
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, log)
	packageService := services.NewPackageService(packageRepo, offerRepo, storageProvider, log)
	offerService := services.NewOfferService(offerRepo, packageRepo, packageService, log)
	chatService := services.NewChatService(chatRepo, packageRepo, log)
	invoiceService := services.NewInvoiceService(invoiceRepo, packageRepo, userRepo, pdf.NewRenderer(), mail, log)
	trackingService := services.NewTrackingService(trackingRepo, packageRepo, log)
	fleetService := services.NewFleetService(vehicleRepo, staffRepo, log)
	analyticsService := services.NewAnalyticsService(packageRepo, offerRepo, invoiceRepo)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	// Package images are served straight off local storage.
	router.Static("/uploads", cfg.Storage.Local.BasePath)

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	v1 := router.Group("/api/v1")
	routes.Setup(v1, &routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Package:   handlers.NewPackageHandler(packageService),
		Offer:     handlers.NewOfferHandler(offerService),
		Chat:      handlers.NewChatHandler(chatService),
		Invoice:   handlers.NewInvoiceHandler(invoiceService),
		Tracking:  handlers.NewTrackingHandler(trackingService),
		Fleet:     handlers.NewFleetHandler(fleetService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService),
		WS: websocket.NewHandler(chatService, websocket.Options{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			PingInterval:    cfg.WebSocket.PingInterval,
			PongTimeout:     cfg.WebSocket.PongTimeout,
			MaxMessageSize:  cfg.WebSocket.MaxMessageSize,
			AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
		}),
	}, cfg.Security.JWTSecret)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}
