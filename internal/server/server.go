package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/auth"
	"suraksha.com/preparedness/internal/config"
	"suraksha.com/preparedness/internal/handler"
	"suraksha.com/preparedness/internal/middleware"
	"suraksha.com/preparedness/internal/repository"
	"suraksha.com/preparedness/internal/service"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	sosRepo := repository.NewSOSRepository(db)
	contactRepo := repository.NewContactRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	var notifier service.Notifier
	if redisClient != nil {
		notifier = service.NewRedisNotifier(redisClient)
	} else {
		notifier = service.NewLogNotifier()
	}

	authService := service.NewAuthService(userRepo, tokens)
	authHandler := handler.NewAuthHandler(authService)

	moduleService := service.NewModuleService(moduleRepo, progressRepo)
	moduleHandler := handler.NewModuleHandler(moduleService)

	emergencyService := service.NewEmergencyService(contactRepo, alertRepo, sosRepo, notifier, redisClient, cfg.SOSRateLimit)
	emergencyHandler := handler.NewEmergencyHandler(emergencyService)

	analyticsService := service.NewAnalyticsService(userRepo, moduleRepo, progressRepo, alertRepo, sosRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	wsHandler := handler.NewWSHandler(redisClient)
	go wsHandler.Run(context.Background())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg.AllowedOrigins)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Suraksha Backend",
			"version":     "1.0.0",
			"description": "Digital Disaster Preparedness Platform Backend API",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET("/ws", wsHandler.Handle)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, tokens)

	api := router.Group("/api")

	// Public routes (no auth required)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}
	api.GET("/emergency/contacts/public", emergencyHandler.PublicContacts)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/logout", authHandler.Logout)

		// Emergency routes
		protected.GET("/emergency/contacts", emergencyHandler.ListContacts)
		protected.GET("/emergency/alerts", emergencyHandler.ListAlerts)
		protected.POST("/emergency/sos", emergencyHandler.TriggerSOS)
		protected.GET("/emergency/sos", emergencyHandler.ListSOS)

		// Module routes
		protected.GET("/modules", moduleHandler.List)
		protected.GET("/modules/:id", moduleHandler.Get)
		protected.GET("/modules/:id/questions", moduleHandler.Questions)
		protected.GET("/modules/:id/progress", moduleHandler.GetProgress)
		protected.PUT("/modules/:id/progress", moduleHandler.UpdateProgress)
		protected.GET("/modules/user/:user_id/progress", moduleHandler.UserProgress)

		// Admin routes
		adminGroup := protected.Group("")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/emergency/contacts", emergencyHandler.CreateContact)
			adminGroup.POST("/emergency/alerts", emergencyHandler.CreateAlert)
			adminGroup.PUT("/emergency/alerts/:id/deactivate", emergencyHandler.DeactivateAlert)
			adminGroup.PUT("/emergency/sos/:id/resolve", emergencyHandler.ResolveSOS)

			adminGroup.POST("/modules", moduleHandler.Create)
			adminGroup.DELETE("/modules/:id", moduleHandler.Delete)

			adminGroup.GET("/analytics/users", analyticsHandler.Users)
			adminGroup.GET("/analytics/modules", analyticsHandler.Modules)
			adminGroup.GET("/analytics/activities", analyticsHandler.Activities)
			adminGroup.GET("/analytics/alerts", analyticsHandler.Alerts)
			adminGroup.GET("/analytics/dashboard", analyticsHandler.Dashboard)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
