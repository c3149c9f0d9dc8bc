package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "motri-backend/docs"
	"motri-backend/report-service/handlers"
	"motri-backend/report-service/middleware"
	"motri-backend/report-service/services"
	"motri-backend/shared/config"
	"motri-backend/shared/database"
	utils "motri-backend/shared/utils/auth"
	"motri-backend/shared/utils/cache"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Database is required; startup fails without it.
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	if err := database.SeedDirector(db, cfg); err != nil && err != database.ErrDirectorExists {
		log.Fatalf("Failed to seed director account: %v", err)
	}

	// Image storage and cache are optional; the service degrades without
	// them instead of refusing to start.
	var storage handlers.ImageStorage
	if imageStorage, err := services.NewImageStorage(cfg); err != nil {
		log.Printf("⚠️  Image storage unavailable, report images disabled: %v", err)
	} else {
		storage = imageStorage
	}

	reportCache, err := cache.NewReportCache(cfg)
	if err != nil {
		log.Printf("⚠️  Report cache unavailable, serving from database: %v", err)
		reportCache = nil
	}

	feed := services.NewReportFeed(cfg)
	mailer := utils.NewEmailService()

	authHandler := handlers.NewAuthHandler(db, mailer)
	reportHandler := handlers.NewReportHandler(db, storage, reportCache, feed)

	// Rate limiting for the credential endpoints
	rateLimiter := middleware.NewRateLimiter(30 * time.Minute)
	loginLimit := middleware.RateLimitConfig{
		MaxRequests:   cfg.LoginRateLimitMaxAttempts,
		TimeWindow:    time.Duration(cfg.LoginRateLimitWindowSeconds) * time.Second,
		BlockDuration: time.Duration(cfg.LoginRateLimitBlockMinutes) * time.Minute,
	}
	resetLimit := middleware.RateLimitConfig{
		MaxRequests:   cfg.PasswordResetMaxAttempts,
		TimeWindow:    time.Duration(cfg.PasswordResetWindowMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.PasswordResetBlockHours) * time.Hour,
	}

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Auth endpoints
	router.POST("/api/auth/login", rateLimiter.Limit("login", loginLimit), authHandler.Login)
	router.PUT("/api/auth/change-password", middleware.AuthMiddleware(), authHandler.ChangePassword)
	router.POST("/api/auth/forgot-password", rateLimiter.Limit("reset", resetLimit), authHandler.ForgotPassword)
	router.GET("/api/auth/reset-password/:token", authHandler.VerifyResetToken)
	router.POST("/api/auth/reset-password/:token", authHandler.ResetPassword)

	// Report endpoints
	router.POST("/api/reports", reportHandler.SubmitReport)
	router.GET("/api/reports", middleware.AuthMiddleware(), reportHandler.GetReports)
	router.DELETE("/api/reports/:id", middleware.AuthMiddleware(), reportHandler.DeleteReport)
	router.GET("/api/reports/ws", feed.HandleConnection)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "report",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Report service starting on %s...", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
