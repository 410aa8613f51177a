package main

import (
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kinship-app/kinship/internal/config"
	"github.com/kinship-app/kinship/internal/database"
	"github.com/kinship-app/kinship/internal/handlers"
	"github.com/kinship-app/kinship/internal/middleware"
	"github.com/kinship-app/kinship/internal/realtime"
	"github.com/kinship-app/kinship/internal/repository"
	"github.com/kinship-app/kinship/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	requestRepo := repository.NewMemberRequestRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	confessionRepo := repository.NewConfessionRepository(db)

	// Realtime hub for websocket pushes
	hub := realtime.NewHub()

	// Services
	notificationService := services.NewNotificationService(notifRepo, familyRepo, hub)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	memberService := services.NewMemberService(memberRepo, familyRepo, notificationService)
	familyService := services.NewFamilyService(familyRepo, memberRepo, userRepo, notificationService)
	requestService := services.NewMemberRequestService(requestRepo, familyRepo, memberService, notificationService)
	eventService := services.NewEventService(eventRepo, familyRepo, notificationService)
	confessionService := services.NewConfessionService(confessionRepo, familyRepo, notificationService)

	// Daily reminder loop
	scheduler := services.NewScheduler(familyRepo, memberRepo, eventRepo, notifRepo, notificationService, cfg.ReminderInterval)
	scheduler.Start()
	defer scheduler.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	memberHandler := handlers.NewMemberHandler(memberService)
	requestHandler := handlers.NewMemberRequestHandler(requestService)
	eventHandler := handlers.NewEventHandler(eventService)
	confessionHandler := handlers.NewConfessionHandler(confessionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, hub)

	// Initialize Gin router
	r := gin.Default()

	// CORS for browser clients
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
	corsConfig.AddAllowHeaders("Authorization")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Kinship API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(authService), authHandler.GetCurrentUser)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth(authService))
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
			notifications.POST("/:notificationId/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.GET("/subscribe", notificationHandler.Subscribe)
		}

		// Family routes (protected)
		families := api.Group("/families")
		families.Use(middleware.RequireAuth(authService))
		{
			families.POST("", familyHandler.CreateFamily)
			families.GET("", familyHandler.ListMyFamilies)

			// Joining is open to any authenticated user
			families.POST("/:familyId/join-requests", familyHandler.CreateJoinRequest)

			scoped := families.Group("/:familyId")
			scoped.Use(middleware.RequireFamilyAccess())
			{
				scoped.GET("", familyHandler.GetFamily)
				scoped.PATCH("", middleware.RequireFamilyAdmin(), familyHandler.UpdateFamily)
				scoped.DELETE("", middleware.RequireFamilyAdmin(), familyHandler.DeleteFamily)
				scoped.POST("/transfer-admin", middleware.RequireFamilyAdmin(), familyHandler.TransferAdmin)
				scoped.POST("/leave", familyHandler.LeaveFamily)
				scoped.GET("/statistics", familyHandler.GetStatistics)

				scoped.GET("/join-requests", middleware.RequireFamilyAdmin(), familyHandler.ListJoinRequests)
				scoped.GET("/join-requests/:requestId/suggestions", middleware.RequireFamilyAdmin(), familyHandler.GetJoinRequestSuggestions)
				scoped.POST("/join-requests/:requestId/approve", middleware.RequireFamilyAdmin(), familyHandler.ApproveJoinRequest)
				scoped.POST("/join-requests/:requestId/reject", middleware.RequireFamilyAdmin(), familyHandler.RejectJoinRequest)

				scoped.GET("/members", memberHandler.ListMembers)
				scoped.POST("/members", memberHandler.CreateMember)
				scoped.GET("/members/report", memberHandler.GetYearlyReport)
				scoped.GET("/members/:memberId", memberHandler.GetMember)
				scoped.PATCH("/members/:memberId", memberHandler.UpdateMember)
				scoped.DELETE("/members/:memberId", memberHandler.DeleteMember)
				scoped.POST("/members/:memberId/restore", memberHandler.RestoreMember)
				scoped.DELETE("/members/:memberId/permanent", memberHandler.PermanentlyDeleteMember)

				scoped.POST("/members/:memberId/achievements", memberHandler.CreateAchievement)
				scoped.GET("/members/:memberId/achievements", memberHandler.ListAchievements)
				scoped.PATCH("/achievements/:achievementId", memberHandler.UpdateAchievement)
				scoped.DELETE("/achievements/:achievementId", memberHandler.DeleteAchievement)

				scoped.POST("/member-requests", requestHandler.CreateRequest)
				scoped.GET("/member-requests", requestHandler.ListRequests)
				scoped.POST("/member-requests/:requestId/approve", requestHandler.ApproveRequest)
				scoped.POST("/member-requests/:requestId/reject", requestHandler.RejectRequest)

				scoped.GET("/events", eventHandler.ListEvents)
				scoped.POST("/events", eventHandler.CreateEvent)
				scoped.PATCH("/events/:eventId", eventHandler.UpdateEvent)
				scoped.DELETE("/events/:eventId", eventHandler.DeleteEvent)

				scoped.GET("/confessions", confessionHandler.ListConfessions)
				scoped.POST("/confessions", confessionHandler.CreateConfession)
				scoped.DELETE("/confessions/:confessionId", confessionHandler.DeleteConfession)
			}
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
