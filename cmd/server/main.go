package main

import (
	"log"

	"github.com/altomira/chorequest-api/internal/config"
	"github.com/altomira/chorequest-api/internal/constants"
	"github.com/altomira/chorequest-api/internal/database"
	"github.com/altomira/chorequest-api/internal/handlers"
	"github.com/altomira/chorequest-api/internal/middleware"
	"github.com/altomira/chorequest-api/internal/repository"
	"github.com/altomira/chorequest-api/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
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
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	pointsRepo := repository.NewPointsRepository(db)

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize services
	authService := services.NewAuthService(userRepo)
	familyService := services.NewFamilyService(familyRepo, pointsRepo)
	templateService := services.NewTemplateService(templateRepo, familyRepo, aiService)
	shuffleService := services.NewShuffleService(templateRepo, familyRepo, assignmentRepo)
	assignmentService := services.NewAssignmentService(assignmentRepo, pointsRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	assignmentHandler := handlers.NewAssignmentHandler(shuffleService, assignmentService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "ChoreQuest API is running",
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
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Family routes (protected)
		families := api.Group("/families")
		families.Use(middleware.RequireAuth())
		{
			families.POST("", familyHandler.CreateFamily)
			families.GET("", familyHandler.ListFamilies)
			families.POST("/join", familyHandler.JoinFamily)
			families.GET("/:id", middleware.RequireFamilyAccess(), familyHandler.GetFamily)
			families.PUT("/:id", middleware.RequireFamilyAccess(), middleware.RequireFamilyOwner(), familyHandler.UpdateFamily)
			families.DELETE("/:id", middleware.RequireFamilyAccess(), middleware.RequireFamilyOwner(), familyHandler.DeleteFamily)
			families.POST("/:id/regenerate-code", middleware.RequireFamilyAccess(), middleware.RequireFamilyOwner(), familyHandler.RegenerateInviteCode)
			families.DELETE("/:id/members/:user_id", middleware.RequireFamilyAccess(), middleware.RequireFamilyOwner(), familyHandler.RemoveMember)
			families.PATCH("/:id/members/:user_id", middleware.RequireFamilyAccess(), middleware.RequireFamilyOwner(), familyHandler.SetMemberActive)
			families.GET("/:id/leaderboard", middleware.RequireFamilyAccess(), familyHandler.GetLeaderboard)
			families.GET("/:id/points", middleware.RequireFamilyAccess(), familyHandler.GetPointHistory)

			// Template routes
			families.GET("/:id/templates", middleware.RequireFamilyAccess(), templateHandler.ListTemplates)
			families.POST("/:id/templates", middleware.RequireFamilyAccess(), middleware.RequireFamilyOwner(), templateHandler.CreateTemplate)
			families.GET("/:id/templates/:template_id", middleware.RequireFamilyAccess(), templateHandler.GetTemplate)
			families.PATCH("/:id/templates/:template_id", middleware.RequireFamilyAccess(), middleware.RequireFamilyOwner(), templateHandler.UpdateTemplate)
			families.DELETE("/:id/templates/:template_id", middleware.RequireFamilyAccess(), middleware.RequireFamilyOwner(), templateHandler.DeleteTemplate)

			// Assignment routes
			families.POST("/:id/shuffle", middleware.RequireFamilyAccess(), middleware.RequireFamilyOwner(), assignmentHandler.Shuffle)
			families.GET("/:id/assignments", middleware.RequireFamilyAccess(), assignmentHandler.ListWeek)
			families.GET("/:id/assignments/day", middleware.RequireFamilyAccess(), assignmentHandler.ListForDate)
			families.POST("/:id/assignments/:assignment_id/complete", middleware.RequireFamilyAccess(), assignmentHandler.Complete)
			families.POST("/:id/assignments/sweep-overdue", middleware.RequireFamilyAccess(), assignmentHandler.SweepOverdue)
			families.GET("/:id/progress", middleware.RequireFamilyAccess(), assignmentHandler.GetProgress)
		}

		// AI suggestions (protected, not family scoped)
		api.POST("/templates/suggest", middleware.RequireAuth(), templateHandler.SuggestTemplates)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
