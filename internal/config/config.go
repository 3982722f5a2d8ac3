package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries every tunable the service reads from the environment.
// Threshold and interval changes take effect on the next process start of
// the monitor; nothing else needs restarting.
type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	LogFormat   string

	MonitorInterval time.Duration // period of the fleet sweep
	DeviceTimeout   time.Duration // budget for one device's classify+write
	WeatherInterval time.Duration

	ActiveThreshold  time.Duration // LIVE/active when last transaction is within this
	LiveThreshold    time.Duration // LIVE/standby up to this
	WarningThreshold time.Duration // WARNING up to this, DOWN beyond

	SlackWebhookURL   string
	DiscordWebhookURL string
}

const (
	defaultMonitorInterval = 30 * time.Second
	defaultDeviceTimeout   = 5 * time.Second
	defaultWeatherInterval = time.Hour

	defaultActiveMinutes  = 10
	defaultLiveMinutes    = 30
	defaultWarningMinutes = 60
)

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		MonitorInterval:   getDuration("MONITOR_INTERVAL", defaultMonitorInterval),
		DeviceTimeout:     getDuration("DEVICE_TIMEOUT", defaultDeviceTimeout),
		WeatherInterval:   getDuration("WEATHER_INTERVAL", defaultWeatherInterval),
		ActiveThreshold:   getMinutes("ACTIVE_THRESHOLD_MINUTES", defaultActiveMinutes),
		LiveThreshold:     getMinutes("LIVE_THRESHOLD_MINUTES", defaultLiveMinutes),
		WarningThreshold:  getMinutes("DOWN_THRESHOLD_MINUTES", defaultWarningMinutes),
		SlackWebhookURL:   os.Getenv("SLACK_WEBHOOK_URL"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if cfg.ActiveThreshold > cfg.LiveThreshold || cfg.LiveThreshold > cfg.WarningThreshold {
		return nil, fmt.Errorf("status thresholds must be ordered: active <= live <= warning")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func getMinutes(key string, fallback int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(fallback) * time.Minute
	}

	minutes, err := strconv.Atoi(value)
	if err != nil || minutes <= 0 {
		return time.Duration(fallback) * time.Minute
	}

	return time.Duration(minutes) * time.Minute
}
