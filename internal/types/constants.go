package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Device statuses. MAINTENANCE and SHUTDOWN are operator-set and are never
// written by the automatic classifier.
const (
	StatusLive        = "LIVE"
	StatusWarning     = "WARNING"
	StatusDown        = "DOWN"
	StatusMaintenance = "MAINTENANCE"
	StatusShutdown    = "SHUTDOWN"
)

// Sub-statuses qualifying a device status.
const (
	SubStatusActive         = "active"
	SubStatusStandby        = "standby"
	SubStatusManualOverride = "manual_override"
	SubStatusSiteShutdown   = "site_shutdown"
)

// Alert types.
const (
	AlertTypeCritical = "CRITICAL"
	AlertTypeWarning  = "WARNING"
	AlertTypeInfo     = "INFO"
)

// Alert categories.
const (
	CategoryDeviceOffline = "DEVICE_OFFLINE"
	CategoryPerformance   = "PERFORMANCE"
	CategoryMaintenance   = "MAINTENANCE"
	CategoryWeather       = "WEATHER"
	CategorySecurity      = "SECURITY"
)

// Device types.
const (
	DeviceTypeFixed    = "fixed"
	DeviceTypeHandheld = "handheld"
)

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
