package api

import (
	"net/http"
	"time"

	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth        service.AuthService
	ProgramDays service.ProgramDayService
	WorkoutLogs service.WorkoutLogService
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	services Services,
	loc *time.Location,
	registry *prometheus.Registry,
	metricsManager *metrics.Manager,
) {
	authHandler := NewAuthHandler(services.Auth)
	programHandler := NewProgramHandler(services.ProgramDays, loc)
	workoutLogHandler := NewWorkoutLogHandler(services.WorkoutLogs, loc)

	router.Use(RequestIDMiddleware(), LoggerMiddleware(metricsManager))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := userIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		programGroup := protected.Group("/program")
		{
			// GET /api/v1/program/day?date=YYYY-MM-DD
			programGroup.GET("/day", programHandler.GetDay)
			// GET /api/v1/program/days
			programGroup.GET("/days", programHandler.GetDays)

			programGroup.GET("/navigator", programHandler.GetNavigator)
			programGroup.POST("/navigator/previous", programHandler.Navigate(service.MovePrevious))
			programGroup.POST("/navigator/next", programHandler.Navigate(service.MoveNext))
			programGroup.POST("/navigator/today", programHandler.Navigate(service.MoveToday))
			programGroup.POST("/navigator/retry", programHandler.Navigate(service.MoveRetry))
			programGroup.POST("/navigator/refresh", programHandler.Navigate(service.MoveRefresh))
			programGroup.POST("/navigator/day/:n", programHandler.GoToDay)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("/logs", workoutLogHandler.LogWorkout)
			workoutGroup.GET("/logs", workoutLogHandler.GetLogs)
		}
	}
}
