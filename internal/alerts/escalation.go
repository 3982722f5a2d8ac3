package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"gorm.io/datatypes"
)

// statusPriority orders statuses by health. Alerts fire only when a device
// moves to a strictly lower priority; recoveries are silent.
var statusPriority = map[string]int{
	types.StatusLive:        3,
	types.StatusWarning:     2,
	types.StatusDown:        1,
	types.StatusMaintenance: 0,
	types.StatusShutdown:    0,
}

// Priority returns the health weight of a status. Unknown statuses rank
// lowest so a malformed transition still counts as a downgrade.
func Priority(status string) int {
	if p, ok := statusPriority[status]; ok {
		return p
	}
	return 0
}

func IsDowngrade(oldStatus, newStatus string) bool {
	return Priority(newStatus) < Priority(oldStatus)
}

// ForTransition synthesizes the alert for an automatic status change, or nil
// when the change is not a downgrade.
func ForTransition(device *models.Device, oldStatus, newStatus string, now time.Time) *models.Alert {
	if !IsDowngrade(oldStatus, newStatus) {
		return nil
	}

	metadata := transitionMetadata(device, oldStatus, newStatus, now)
	deviceID := device.ID

	switch newStatus {
	case types.StatusWarning:
		return &models.Alert{
			DeviceID: &deviceID,
			Type:     types.AlertTypeWarning,
			Category: types.CategoryPerformance,
			Title:    "Device Communication Warning",
			Message: fmt.Sprintf("Device %s at %s has not reported a transaction for 30+ minutes",
				device.SerialNumber, device.Location),
			Metadata: metadata,
		}
	case types.StatusDown:
		return &models.Alert{
			DeviceID: &deviceID,
			Type:     types.AlertTypeCritical,
			Category: types.CategoryDeviceOffline,
			Title:    "Device Offline",
			Message: fmt.Sprintf("Device %s at %s has been offline for 60+ minutes and requires attention",
				device.SerialNumber, device.Location),
			Metadata: metadata,
		}
	default:
		// Downgrades into manual states go through ForOverride instead.
		return nil
	}
}

// ForOverride synthesizes the informational alert for a manual status
// assignment. Manual actions are always logged regardless of direction.
func ForOverride(device *models.Device, targetStatus string, actorID uint, reason string) *models.Alert {
	deviceID := device.ID

	alert := &models.Alert{
		DeviceID: &deviceID,
		Category: types.CategoryMaintenance,
		Metadata: overrideMetadata(device, targetStatus, actorID, reason),
	}

	switch targetStatus {
	case types.StatusShutdown:
		alert.Type = types.AlertTypeWarning
		alert.Title = "Device Shutdown"
		alert.Message = fmt.Sprintf("Device %s at %s was shut down by an operator", device.SerialNumber, device.Location)
	case types.StatusMaintenance:
		alert.Type = types.AlertTypeInfo
		alert.Title = "Device Maintenance Mode"
		alert.Message = fmt.Sprintf("Device %s at %s was placed in maintenance mode", device.SerialNumber, device.Location)
	default:
		alert.Type = types.AlertTypeInfo
		alert.Title = "Device Monitoring Resumed"
		alert.Message = fmt.Sprintf("Device %s at %s was returned to automatic monitoring", device.SerialNumber, device.Location)
	}

	if reason != "" {
		alert.Message = fmt.Sprintf("%s: %s", alert.Message, reason)
	}

	return alert
}

func transitionMetadata(device *models.Device, oldStatus, newStatus string, now time.Time) datatypes.JSON {
	fields := map[string]interface{}{
		"old_status": oldStatus,
		"new_status": newStatus,
	}

	if device.LastTransaction != nil {
		fields["last_transaction"] = device.LastTransaction.Format(time.RFC3339)
		fields["silence_minutes"] = int(now.Sub(*device.LastTransaction).Minutes())
	}

	return mustJSON(fields)
}

func overrideMetadata(device *models.Device, targetStatus string, actorID uint, reason string) datatypes.JSON {
	fields := map[string]interface{}{
		"previous_status": device.Status,
		"target_status":   targetStatus,
		"actor_id":        actorID,
	}

	if reason != "" {
		fields["reason"] = reason
	}

	return mustJSON(fields)
}

func mustJSON(fields map[string]interface{}) datatypes.JSON {
	raw, err := json.Marshal(fields)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}
