package router

import (
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/handlers"
	"github.com/fleetwatch-dev/fleetwatch/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:3001", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		devices := api.Group("/devices", middleware.AuthMiddleware())
		{
			devices.GET("", handlers.ListDevices)
			devices.POST("", handlers.CreateDevice)
			devices.GET("/summary", handlers.DeviceSummary)
			devices.GET("/:device_id", handlers.GetDevice)
			devices.POST("/:device_id/transaction", handlers.RecordTransaction)

			// Manual overrides: these bypass the classifier until resumed.
			devices.POST("/:device_id/maintenance", handlers.SetMaintenanceMode)
			devices.POST("/:device_id/shutdown", handlers.SetShutdown)
			devices.POST("/:device_id/resume", handlers.ResumeMonitoring)
		}

		alerts := api.Group("/alerts", middleware.AuthMiddleware())
		{
			alerts.GET("", handlers.ListAlerts)
			alerts.POST("", handlers.CreateAlert)
			alerts.GET("/summary", handlers.AlertsSummary)
			alerts.PATCH("/:alert_id/acknowledge", handlers.AcknowledgeAlert)
			alerts.PATCH("/:alert_id/resolve", handlers.ResolveAlert)
		}
	}

	return r
}
