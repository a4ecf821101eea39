package routes

import (
	"github.com/gin-gonic/gin"

	"launchcontrol/internal/handlers"
	"launchcontrol/internal/middleware"
)

// SetupLaunchRoutes registers the launch flow endpoints. Prepare is rate
// limited because each call does two blob uploads and a curve service
// round trip.
func SetupLaunchRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/submit-launch", handlers.SubmitLaunch)
		api.POST("/persist-launch", handlers.PersistLaunch)
		api.GET("/launch-stream", handlers.LaunchStream)
	}

	prepare := r.Group("/api")
	prepare.Use(middleware.RateLimit(1, 3))
	prepare.POST("/prepare-launch", handlers.PrepareLaunch)
}
