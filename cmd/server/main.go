package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TQS-Project-OLS/backend-sub001/internal/application"
	"github.com/TQS-Project-OLS/backend-sub001/internal/config"
	marketplaceEvents "github.com/TQS-Project-OLS/backend-sub001/internal/events"
	"github.com/TQS-Project-OLS/backend-sub001/internal/handler"
	"github.com/TQS-Project-OLS/backend-sub001/internal/repository"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/auth"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/database"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/health"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/kafka"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/lock"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/logger"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "rental-marketplace")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting rental-marketplace",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.ListingModel{},
			&repository.BookingModel{},
			&repository.UnavailabilityModel{},
			&repository.PaymentModel{},
			&repository.ReviewModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := cfg.DBConfig.DatabaseURL()
		if err := database.RunMigrations(dbURL, cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessTTL,
		cfg.JWTConfig.RefreshTTL,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize Redis-backed booking lock
	redisClient := lock.NewClient(cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB)
	defer func() { _ = redisClient.Close() }()
	bookingLocker := lock.NewRedisLocker(redisClient, "rental")

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	listingRepo := repository.NewGormListingRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	unavailabilityRepo := repository.NewGormUnavailabilityRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)

	// Initialize application services
	availability := application.NewAvailabilityChecker(bookingRepo, unavailabilityRepo)
	authService := application.NewAuthService(userRepo, jwtManager, log)
	listingService := application.NewListingService(listingRepo, unavailabilityRepo, log)
	bookingService := application.NewBookingService(
		bookingRepo,
		listingRepo,
		availability,
		bookingLocker,
		kafkaProducer,
		log,
	)
	paymentService := application.NewPaymentService(
		paymentRepo,
		bookingRepo,
		listingRepo,
		bookingService,
		kafkaProducer,
		log,
	)
	reviewService := application.NewReviewService(reviewRepo, bookingRepo, listingRepo, kafkaProducer, log)
	adminService := application.NewAdminService(bookingRepo, paymentRepo, reviewRepo, log)

	// Start the booking notification consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupID + "-notifications"
	notificationConsumer := marketplaceEvents.NewNotificationConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		log,
	)
	defer func() { _ = notificationConsumer.Close() }()

	go func() {
		log.Info("starting booking notification consumer")
		if err := notificationConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("booking notification consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	listingHandler := handler.NewListingHandler(listingService, reviewService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	adminHandler := handler.NewAdminHandler(adminService, bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, "rental-marketplace")
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register routes
	authHandler.RegisterRoutes(&router.RouterGroup)
	listingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	paymentHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	reviewHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down rental-marketplace...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("rental-marketplace stopped")
}
