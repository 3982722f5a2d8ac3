package alerts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDevice() *models.Device {
	device := &models.Device{
		SerialNumber: "RFID-1042",
		Name:         "Lane 3 Reader",
		Location:     "Plaza North",
		Type:         types.DeviceTypeFixed,
		Status:       types.StatusLive,
	}
	device.ID = 42
	return device
}

func TestIsDowngrade(t *testing.T) {
	tests := []struct {
		old, new string
		want     bool
	}{
		{types.StatusLive, types.StatusWarning, true},
		{types.StatusLive, types.StatusDown, true},
		{types.StatusWarning, types.StatusDown, true},
		{types.StatusLive, types.StatusMaintenance, true},
		{types.StatusDown, types.StatusLive, false},
		{types.StatusWarning, types.StatusLive, false},
		{types.StatusDown, types.StatusWarning, false},
		{types.StatusLive, types.StatusLive, false},
		{types.StatusMaintenance, types.StatusShutdown, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDowngrade(tt.old, tt.new), "%s -> %s", tt.old, tt.new)
	}
}

func TestForTransitionWarning(t *testing.T) {
	device := testDevice()
	last := time.Now().Add(-45 * time.Minute)
	device.LastTransaction = &last

	alert := ForTransition(device, types.StatusLive, types.StatusWarning, time.Now())
	require.NotNil(t, alert)

	assert.Equal(t, types.AlertTypeWarning, alert.Type)
	assert.Equal(t, types.CategoryPerformance, alert.Category)
	assert.Equal(t, "Device Communication Warning", alert.Title)
	assert.Contains(t, alert.Message, "RFID-1042")
	assert.Contains(t, alert.Message, "30+ minutes")
	require.NotNil(t, alert.DeviceID)
	assert.Equal(t, uint(42), *alert.DeviceID)

	var metadata map[string]interface{}
	require.NoError(t, json.Unmarshal(alert.Metadata, &metadata))
	assert.Equal(t, types.StatusLive, metadata["old_status"])
	assert.Equal(t, types.StatusWarning, metadata["new_status"])
	assert.InDelta(t, 45, metadata["silence_minutes"], 1)
}

func TestForTransitionDown(t *testing.T) {
	device := testDevice()
	device.Status = types.StatusWarning
	last := time.Now().Add(-90 * time.Minute)
	device.LastTransaction = &last

	alert := ForTransition(device, types.StatusWarning, types.StatusDown, time.Now())
	require.NotNil(t, alert)

	assert.Equal(t, types.AlertTypeCritical, alert.Type)
	assert.Equal(t, types.CategoryDeviceOffline, alert.Category)
	assert.Equal(t, "Device Offline", alert.Title)
	assert.Contains(t, alert.Message, "60+ minutes")
	assert.Contains(t, alert.Message, "attention")
}

func TestForTransitionSilentRecovery(t *testing.T) {
	device := testDevice()

	assert.Nil(t, ForTransition(device, types.StatusDown, types.StatusLive, time.Now()))
	assert.Nil(t, ForTransition(device, types.StatusWarning, types.StatusLive, time.Now()))
	assert.Nil(t, ForTransition(device, types.StatusDown, types.StatusWarning, time.Now()))
	assert.Nil(t, ForTransition(device, types.StatusLive, types.StatusLive, time.Now()))
}

func TestForOverrideMaintenance(t *testing.T) {
	device := testDevice()

	alert := ForOverride(device, types.StatusMaintenance, 7, "firmware upgrade")
	require.NotNil(t, alert)

	assert.Equal(t, types.AlertTypeInfo, alert.Type)
	assert.Equal(t, types.CategoryMaintenance, alert.Category)
	assert.Contains(t, alert.Message, "firmware upgrade")

	var metadata map[string]interface{}
	require.NoError(t, json.Unmarshal(alert.Metadata, &metadata))
	assert.EqualValues(t, 7, metadata["actor_id"])
	assert.Equal(t, "firmware upgrade", metadata["reason"])
}

func TestForOverrideShutdown(t *testing.T) {
	device := testDevice()

	alert := ForOverride(device, types.StatusShutdown, 7, "")
	require.NotNil(t, alert)

	assert.Equal(t, types.AlertTypeWarning, alert.Type)
	assert.Equal(t, "Device Shutdown", alert.Title)
}

func TestForOverrideResume(t *testing.T) {
	device := testDevice()
	device.Status = types.StatusMaintenance

	alert := ForOverride(device, types.StatusLive, 7, "work complete")
	require.NotNil(t, alert)

	assert.Equal(t, types.AlertTypeInfo, alert.Type)
	assert.Equal(t, "Device Monitoring Resumed", alert.Title)
	assert.Contains(t, alert.Message, "work complete")
}
