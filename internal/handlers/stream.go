package handlers

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// LaunchStream upgrades the connection to a websocket that receives
// every launch record as it is persisted.
func LaunchStream(c *gin.Context) {
	if err := streamHub.Serve(c.Writer, c.Request); err != nil {
		log.Errorf("Websocket upgrade failed: %v", err)
		// Serve already wrote the HTTP error response.
	}
}
