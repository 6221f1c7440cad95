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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/auth"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/config"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/database"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/handlers"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/jobs"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/logger"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/metrics"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/models"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Server.Env)

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	inviteService := services.NewInviteService(database.GetDB())
	authService := services.NewAuthService(database.GetDB(), inviteService)
	promotionService := services.NewPromotionService(database.GetDB())
	claimService := services.NewClaimService(
		database.GetDB(),
		time.Duration(cfg.App.ClaimTTLHours)*time.Hour,
		cfg.App.AllowRepeatClaims,
	)
	adminService := services.NewAdminService(database.GetDB())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	promotionHandler := handlers.NewPromotionHandler(promotionService)
	claimHandler := handlers.NewClaimHandler(claimService)
	inviteHandler := handlers.NewInviteHandler(inviteService, promotionService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Start promotion expiry sweep
	expirer := jobs.NewPromotionExpirer(
		promotionService,
		time.Duration(cfg.App.PromotionSweepMinutes)*time.Minute,
	)
	go expirer.Start()
	defer expirer.Stop()

	// Set up Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.RequestID())
	router.Use(logger.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public promotion feed
	router.GET("/api/promotions", promotionHandler.ListPromotions)
	router.POST("/api/promotions/:id/impressions", promotionHandler.RecordImpression)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.GET("/user/profile", userHandler.GetProfile)

		// Worker endpoints
		worker := api.Group("")
		worker.Use(auth.RequireRole(string(models.RoleWorker)))
		{
			worker.POST("/claims", claimHandler.CreateClaim)
			worker.GET("/claims", claimHandler.ListClaims)
		}

		// Restaurant endpoints
		restaurant := api.Group("")
		restaurant.Use(auth.RequireRole(string(models.RoleRestaurant)))
		{
			restaurant.POST("/redemptions", claimHandler.RedeemClaim)
			restaurant.POST("/promotions", promotionHandler.CreatePromotion)
			restaurant.PATCH("/promotions/:id", promotionHandler.UpdatePromotion)
			restaurant.GET("/promotions/mine", promotionHandler.ListMyPromotions)
			restaurant.POST("/invites", inviteHandler.CreateInvite)
			restaurant.GET("/invites", inviteHandler.ListInvites)
			restaurant.DELETE("/invites/:id", inviteHandler.RevokeInvite)
		}
	}

	// Admin routes (protected + super admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.RequireRole(string(models.RoleSuperAdmin)))
	{
		admin.GET("/users", adminHandler.GetUsers)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.GET("/organizations", adminHandler.GetOrganizations)
		admin.POST("/workers/:id/verify", adminHandler.VerifyWorker)
		admin.GET("/logs", adminHandler.GetAuditLogs)
		admin.GET("/stats", adminHandler.GetStats)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
