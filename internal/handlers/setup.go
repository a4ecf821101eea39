package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"launchcontrol/internal/launch"
	"launchcontrol/internal/stream"
	tokensync "launchcontrol/internal/sync"
	"launchcontrol/pkg/dbc"
)

var (
	launcher  *launch.Orchestrator
	syncer    *tokensync.Syncer
	curve     dbc.Client
	streamHub *stream.Hub
)

// Setup wires the handler package to its collaborators. Must be called
// before the router starts serving.
func Setup(l *launch.Orchestrator, s *tokensync.Syncer, d dbc.Client, h *stream.Hub) {
	launcher = l
	syncer = s
	curve = d
	streamHub = h
}

// writeLaunchError maps launch-stage errors onto HTTP responses. Client
// mistakes are 400s; everything else is a 500 carrying enough detail for
// the caller to decide what is safe to retry.
func writeLaunchError(c *gin.Context, err error) {
	var verr *launch.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
		return
	}

	var serr *launch.SubmissionError
	if errors.As(err, &serr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":        "Failed to submit transactions",
			"details":      serr.Error(),
			"transactions": serr.Submitted,
		})
		return
	}

	var uerr *launch.UploadError
	if errors.As(err, &uerr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to upload launch assets",
			"details": uerr.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to process launch request",
		"details": err.Error(),
	})
}
