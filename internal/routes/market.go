package routes

import (
	"github.com/gin-gonic/gin"

	"launchcontrol/internal/handlers"
	"launchcontrol/internal/middleware"
)

// SetupMarketRoutes registers the read-side endpoints: records, fees and
// the manual sync trigger.
func SetupMarketRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/records", handlers.ListLaunchRecords)
		api.GET("/records/:mint", handlers.GetLaunchRecord)
		api.GET("/fees", handlers.GetFees)
		api.POST("/claim-partner-fee", handlers.ClaimPartnerFee)
		api.POST("/claim-creator-fee", handlers.ClaimCreatorFee)
	}

	// The sync job walks every record and calls two external services, so
	// manual triggers are throttled hard. GET is kept for external cron
	// services that can only issue GET requests.
	syncGroup := r.Group("/api")
	syncGroup.Use(middleware.RateLimit(0.2, 1))
	syncGroup.POST("/sync-prices", handlers.SyncPrices)
	syncGroup.GET("/sync-prices", handlers.SyncPrices)
}
