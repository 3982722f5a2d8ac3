package types

import "time"

// Push message kinds sent over the dashboard websocket.
const (
	MessageTypeConnected     = "connected"
	MessageTypeDeviceMetrics = "device_metrics"
	MessageTypeAlertsSummary = "alerts_summary"
	MessageTypeWeatherUpdate = "weather_update"
)

// PushMessage is the envelope for every payload pushed to dashboard clients.
type PushMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// DeviceMetrics is a single-device status snapshot, emitted when the
// monitoring loop changes a device or an operator overrides one.
type DeviceMetrics struct {
	DeviceID        uint       `json:"device_id"`
	SerialNumber    string     `json:"serial_number"`
	Location        string     `json:"location"`
	Status          string     `json:"status"`
	SubStatus       string     `json:"sub_status,omitempty"`
	LastTransaction *time.Time `json:"last_transaction"`
}

// AlertsSummary is an aggregate view of the alert store.
type AlertsSummary struct {
	Total      int64 `json:"total"`
	Unread     int64 `json:"unread"`
	Unresolved int64 `json:"unresolved"`
	Critical   int64 `json:"critical"`
	Warning    int64 `json:"warning"`
	Info       int64 `json:"info"`
}

// WeatherSnapshot is a per-plaza environment reading.
type WeatherSnapshot struct {
	Plaza       string  `json:"plaza"`
	Condition   string  `json:"condition"`
	TempCelsius float64 `json:"temp_celsius"`
	WindKph     float64 `json:"wind_kph"`
	VisibilityM int     `json:"visibility_m"`
}
