package routes

import (
	"net/http"

	"contesthub/handlers"
	"contesthub/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	contestHandler *handlers.ContestHandler,
	submissionHandler *handlers.SubmissionHandler,
	statisticsHandler *handlers.StatisticsHandler,
	userHandler *handlers.UserHandler,
	jwtSecret string,
) {
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Participant routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			contests := protected.Group("/contests")
			{
				contests.GET("", contestHandler.GetContests)
				contests.GET("/:id/start", contestHandler.StartContest)
				contests.GET("/:id/submissions", submissionHandler.GetMyContestSubmissions)
			}

			submissions := protected.Group("/submissions")
			{
				submissions.GET("", submissionHandler.GetMySubmissions)
				submissions.POST("/:id/grade", submissionHandler.GradeSubmission)
				submissions.GET("/:id/result", submissionHandler.GetSubmissionResult)
			}
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireAdmin())
		{
			contests := admin.Group("/contests")
			{
				contests.GET("", contestHandler.GetContests)
				contests.POST("", contestHandler.CreateContest)
				contests.GET("/:id", contestHandler.GetContest)
				contests.PUT("/:id", contestHandler.UpdateContest)
				contests.DELETE("/:id", contestHandler.DeleteContest)
				contests.PUT("/:id/questions", contestHandler.UpsertQuestions)
				contests.DELETE("/:id/questions", contestHandler.DeleteQuestions)
				contests.GET("/:id/submissions", submissionHandler.GetContestSubmissions)
			}

			admin.GET("/submissions/:id", submissionHandler.GetSubmission)

			statistics := admin.Group("/statistics")
			{
				statistics.GET("", statisticsHandler.GetOverviewStatistics)
				statistics.GET("/contests/:id", statisticsHandler.GetContestStatistics)
				statistics.GET("/users/:id", statisticsHandler.GetContestsByUser)
			}

			users := admin.Group("/users")
			{
				users.GET("", userHandler.GetUsers)
				users.POST("", userHandler.CreateUsers)
				users.PUT("/:id", userHandler.UpdateUser)
				users.DELETE("/:id", userHandler.DeleteUser)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
