package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/clauso/pkg/driver"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	driver driver.SearchDriver
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(drv driver.SearchDriver) *HealthHandler {
	return &HealthHandler{driver: drv}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": string(h.driver.Provider()),
	})
}
