package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fleetwatch-dev/fleetwatch/db"
	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/store"
	"github.com/fleetwatch-dev/fleetwatch/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type CreateAlertRequest struct {
	DeviceID *uint                  `json:"device_id"`
	Type     string                 `json:"type" binding:"required,oneof=CRITICAL WARNING INFO"`
	Category string                 `json:"category" binding:"required"`
	Title    string                 `json:"title" binding:"required"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata"`
}

func ListAlerts(ctx *gin.Context) {
	var alerts []models.Alert

	query := db.DB.Order("created_at DESC").Limit(200)

	if unresolved := ctx.Query("unresolved"); unresolved == "true" {
		query = query.Where("is_resolved = ?", false)
	}

	if unread := ctx.Query("unread"); unread == "true" {
		query = query.Where("is_read = ?", false)
	}

	if deviceIDStr := ctx.Query("device_id"); deviceIDStr != "" {
		deviceID, err := strconv.ParseUint(deviceIDStr, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid device_id filter"})
			return
		}
		query = query.Where("device_id = ?", uint(deviceID))
	}

	if err := query.Find(&alerts).Error; err != nil {
		Logger.Error("failed to list alerts", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alerts"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// CreateAlert lets an operator raise an alert by hand (weather closures,
// security incidents). Automatic alerts come from the monitoring loop.
func CreateAlert(ctx *gin.Context) {
	var req CreateAlertRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert := models.Alert{
		DeviceID: req.DeviceID,
		Type:     req.Type,
		Category: req.Category,
		Title:    req.Title,
		Message:  req.Message,
	}

	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata format"})
			return
		}
		alert.Metadata = datatypes.JSON(raw)
	}

	if err := AlertStore.CreateAlert(ctx.Request.Context(), &alert); err != nil {
		Logger.Error("failed to create alert", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create alert"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"alert": alert})
}

func AcknowledgeAlert(ctx *gin.Context) {
	alertID, err := utils.GetAlertID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	alert, err := AlertStore.AcknowledgeAlert(ctx.Request.Context(), alertID, actorID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		Logger.Error("failed to acknowledge alert", zap.Uint("alert_id", alertID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to acknowledge alert"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"alert": alert})
}

func ResolveAlert(ctx *gin.Context) {
	alertID, err := utils.GetAlertID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	alert, err := AlertStore.ResolveAlert(ctx.Request.Context(), alertID, actorID)

	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		case errors.Is(err, store.ErrAlreadyResolved):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Alert is already resolved"})
		default:
			Logger.Error("failed to resolve alert", zap.Uint("alert_id", alertID), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve alert"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"alert": alert})
}

// AlertsSummary serves the same aggregate counts the websocket pushes, for
// clients that land on the page before the next broadcast.
func AlertsSummary(ctx *gin.Context) {
	summary, err := AlertStore.Summary(ctx.Request.Context())

	if err != nil {
		Logger.Error("failed to compute alerts summary", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute alerts summary"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"summary": summary})
}
