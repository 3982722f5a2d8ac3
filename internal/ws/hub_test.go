package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, c *Client) types.PushMessage {
	t.Helper()

	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var msg types.PushMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for push message")
		return types.PushMessage{}
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop())
	go hub.Run()
	return hub
}

func TestHubHandshakeOnRegister(t *testing.T) {
	hub := startHub(t)
	client := NewClient("session-1", hub, nil, zap.NewNop())

	hub.Register(client)

	msg := receive(t, client)
	assert.Equal(t, types.MessageTypeConnected, msg.Type)
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := startHub(t)
	first := NewClient("session-1", hub, nil, zap.NewNop())
	second := NewClient("session-2", hub, nil, zap.NewNop())
	hub.Register(first)
	hub.Register(second)
	receive(t, first)
	receive(t, second)

	last := time.Now()
	device := &models.Device{
		SerialNumber:    "RFID-1042",
		Location:        "Plaza North",
		Status:          types.StatusWarning,
		LastTransaction: &last,
	}
	device.ID = 42

	hub.PublishDeviceMetrics(device)

	for _, client := range []*Client{first, second} {
		msg := receive(t, client)
		assert.Equal(t, types.MessageTypeDeviceMetrics, msg.Type)
		assert.False(t, msg.Timestamp.IsZero())

		data, err := json.Marshal(msg.Data)
		require.NoError(t, err)
		var metrics types.DeviceMetrics
		require.NoError(t, json.Unmarshal(data, &metrics))
		assert.Equal(t, uint(42), metrics.DeviceID)
		assert.Equal(t, types.StatusWarning, metrics.Status)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := NewClient("slow", hub, nil, zap.NewNop())
	healthy := NewClient("healthy", hub, nil, zap.NewNop())
	hub.Register(slow)
	hub.Register(healthy)
	receive(t, slow)
	receive(t, healthy)

	// Never drain the slow client; overflow its send buffer.
	for i := 0; i < sendBufferSize+2; i++ {
		hub.PublishAlertsSummary(types.AlertsSummary{Total: int64(i)})
		receive(t, healthy)
	}

	// The slow client's channel must eventually be closed by the hub while
	// the healthy client keeps receiving.
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-slow.send:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	hub.PublishAlertsSummary(types.AlertsSummary{Total: 99})
	msg := receive(t, healthy)
	assert.Equal(t, types.MessageTypeAlertsSummary, msg.Type)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	client := NewClient("session-1", hub, nil, zap.NewNop())
	hub.Register(client)
	receive(t, client)

	hub.unregister <- client

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-client.send:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
