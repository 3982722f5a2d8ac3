package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":    "ok",
		"message":   "FleetWatch is running",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if MonitorService != nil {
		if lastCheck := MonitorService.LastCheck(); !lastCheck.IsZero() {
			response["last_check"] = lastCheck.Format(time.RFC3339)
		}
	}

	c.JSON(200, response)
}
