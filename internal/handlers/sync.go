package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SyncPrices triggers one full price and fee refresh and returns the
// run counters. Exposed for manual and external scheduling; the worker
// runs the same job on its own timer.
func SyncPrices(c *gin.Context) {
	result, err := syncer.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to sync prices",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
