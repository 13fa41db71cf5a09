package main

import (
	"log"

	"contesthub/config"
	"contesthub/handlers"
	"contesthub/middleware"
	"contesthub/models"
	"contesthub/routes"
	"contesthub/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Contest{},
		&models.Question{},
		&models.Option{},
		&models.Submission{},
		&models.Answer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	tokenStore := services.NewRedisTokenStore(redisClient)

	// Initialize services
	authService := services.NewAuthService(db, tokenStore, cfg.JWTSecret)
	userService := services.NewUserService(db)
	contestService := services.NewContestService(db, nil)
	submissionService := services.NewSubmissionService(db, nil)
	statisticsService := services.NewStatisticsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	contestHandler := handlers.NewContestHandler(contestService, submissionService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService)
	userHandler := handlers.NewUserHandler(userService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, contestHandler, submissionHandler, statisticsHandler, userHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
