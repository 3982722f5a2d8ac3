package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/db"
	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/store"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"github.com/fleetwatch-dev/fleetwatch/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateDeviceRequest struct {
	SerialNumber string `json:"serial_number" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Location     string `json:"location"`
	Type         string `json:"type" binding:"required,oneof=fixed handheld"`
}

type OverrideRequest struct {
	Reason string `json:"reason"`
}

func ListDevices(ctx *gin.Context) {
	var devices []models.Device

	query := db.DB.Order("id")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if location := ctx.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}

	if err := query.Find(&devices).Error; err != nil {
		Logger.Error("failed to list devices", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve devices"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"devices": devices})
}

func GetDevice(ctx *gin.Context) {
	deviceID, err := utils.GetDeviceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var device models.Device

	if err := db.DB.First(&device, deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve device"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"device": device})
}

func CreateDevice(ctx *gin.Context) {
	var req CreateDeviceRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device := models.Device{
		SerialNumber: req.SerialNumber,
		Name:         req.Name,
		Location:     req.Location,
		Type:         req.Type,
		Status:       types.StatusDown, // unseen until its first transaction
	}

	if err := db.DB.Create(&device).Error; err != nil {
		Logger.Error("failed to create device", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create device"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"device": device})
}

// RecordTransaction marks observed activity on a device. The vendor
// integration layer calls this on every normalized toll read; the next tick
// picks the new timestamp up.
func RecordTransaction(ctx *gin.Context) {
	deviceID, err := utils.GetDeviceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var device models.Device

	if err := db.DB.First(&device, deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve device"})
		}
		return
	}

	now := time.Now()

	if err := db.DB.Model(&device).Update("last_transaction", now).Error; err != nil {
		Logger.Error("failed to record transaction", zap.Uint("device_id", deviceID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"device_id": deviceID, "last_transaction": now})
}

// DeviceSummary reports per-status counts computed fresh from the store,
// plus when the monitoring loop last completed a pass.
func DeviceSummary(ctx *gin.Context) {
	counts, err := MonitorService.StatusCounts(ctx.Request.Context())

	if err != nil {
		Logger.Error("failed to compute status counts", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute device summary"})
		return
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	response := gin.H{
		"total":       total,
		"live":        counts[types.StatusLive],
		"warning":     counts[types.StatusWarning],
		"down":        counts[types.StatusDown],
		"maintenance": counts[types.StatusMaintenance],
		"shutdown":    counts[types.StatusShutdown],
	}

	if lastCheck := MonitorService.LastCheck(); !lastCheck.IsZero() {
		response["last_check"] = lastCheck
	}

	ctx.JSON(http.StatusOK, response)
}

func SetMaintenanceMode(ctx *gin.Context) {
	applyOverride(ctx, MonitorService.SetMaintenanceMode)
}

func SetShutdown(ctx *gin.Context) {
	applyOverride(ctx, MonitorService.SetShutdown)
}

func ResumeMonitoring(ctx *gin.Context) {
	applyOverride(ctx, MonitorService.ResumeMonitoring)
}

type overrideAction func(ctx context.Context, deviceID, actorID uint, reason string) (*models.Device, error)

func applyOverride(ctx *gin.Context, action overrideAction) {
	deviceID, err := utils.GetDeviceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req OverrideRequest

	// Body is optional; a bare POST means "no reason given".
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	device, err := action(ctx.Request.Context(), deviceID, actorID, req.Reason)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
			return
		}
		Logger.Error("manual override failed",
			zap.Uint("device_id", deviceID),
			zap.Uint("actor_id", actorID),
			zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update device"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"device": device})
}
