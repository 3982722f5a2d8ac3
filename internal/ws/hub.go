package ws

import (
	"encoding/json"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"go.uber.org/zap"
)

// Hub maintains the set of connected dashboard clients and fans pushed
// snapshots out to all of them. Broadcast is fire and forget: a client that
// cannot keep up is dropped rather than allowed to stall the others.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run owns the client set; all membership changes and broadcasts go through
// its channels so no lock is shared with connection goroutines.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("dashboard client connected",
				zap.String("session_id", client.ID),
				zap.Int("clients", len(h.clients)))
			client.sendHandshake()

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("dashboard client disconnected",
					zap.String("session_id", client.ID),
					zap.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client is blocked or gone.
					h.logger.Warn("dropping slow dashboard client",
						zap.String("session_id", client.ID))
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Register queues a client for membership. The handshake is sent once the
// hub picks it up.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// PublishDeviceMetrics pushes a single-device status snapshot.
func (h *Hub) PublishDeviceMetrics(device *models.Device) {
	h.publish(types.MessageTypeDeviceMetrics, types.DeviceMetrics{
		DeviceID:        device.ID,
		SerialNumber:    device.SerialNumber,
		Location:        device.Location,
		Status:          device.Status,
		SubStatus:       device.SubStatus,
		LastTransaction: device.LastTransaction,
	})
}

// PublishAlertsSummary pushes aggregate alert counts.
func (h *Hub) PublishAlertsSummary(summary types.AlertsSummary) {
	h.publish(types.MessageTypeAlertsSummary, summary)
}

// PublishWeather pushes per-plaza environment snapshots.
func (h *Hub) PublishWeather(snapshots []types.WeatherSnapshot) {
	h.publish(types.MessageTypeWeatherUpdate, snapshots)
}

func (h *Hub) publish(messageType string, data interface{}) {
	payload, err := json.Marshal(types.PushMessage{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.logger.Error("failed to marshal push message",
			zap.String("type", messageType),
			zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		// The hub itself is backed up; shed the snapshot rather than block
		// the monitoring tick. Clients get a fresh one next tick.
		h.logger.Warn("broadcast queue full, dropping snapshot",
			zap.String("type", messageType))
	}
}
