package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/config"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/handlers"
	"github.com/swiftbus/booking-backend/internal/middleware"
	"github.com/swiftbus/booking-backend/internal/services"
	"github.com/swiftbus/booking-backend/pkg/jwt"
	"github.com/swiftbus/booking-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SwiftBus booking backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	sqlxDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	// Repositories
	tripRepo := database.NewTripRepository(sqlxDB.DB)
	bookingRepo := database.NewBookingRepository(sqlxDB.DB)
	promotionRepo := database.NewPromotionRepository(sqlxDB.DB)
	userRepo := database.NewUserRepository(sqlxDB.DB)

	// Services
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	phoneValidator := validator.NewPhoneValidator()
	bookingService := services.NewBookingService(bookingRepo, tripRepo, phoneValidator, logger)
	feeService := services.NewFeeService(bookingRepo, tripRepo, promotionRepo, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService, phoneValidator, cfg.Security.BcryptCost, logger)
	tripHandler := handlers.NewTripHandler(tripRepo, bookingService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	paymentHandler := handlers.NewPaymentHandler(feeService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Trip catalog (public)
		trips := v1.Group("/trips")
		{
			trips.GET("", tripHandler.SearchTrips)
			trips.GET("/:id", tripHandler.GetTrip)
			trips.GET("/:id/seats", tripHandler.GetTakenSeats)
		}

		// Bookings. Creation, cancellation and payment take an optional
		// bearer token so guests can manage their bookings too; the
		// listing (which runs the expiry sweep) is account-only.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", middleware.OptionalAuthMiddleware(jwtService), bookingHandler.CreateBooking)
			bookings.POST("/lookup", bookingHandler.LookupBooking)
			bookings.POST("/:id/cancel", middleware.OptionalAuthMiddleware(jwtService), bookingHandler.CancelBooking)
			bookings.POST("/:id/payment", middleware.OptionalAuthMiddleware(jwtService), paymentHandler.CompletePayment)
			bookings.GET("", middleware.AuthMiddleware(jwtService), bookingHandler.ListBookings)
		}

		promotions := v1.Group("/promotions")
		{
			promotions.POST("/validate", paymentHandler.ValidatePromo)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
