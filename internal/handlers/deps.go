package handlers

import (
	"github.com/fleetwatch-dev/fleetwatch/internal/monitor"
	"github.com/fleetwatch-dev/fleetwatch/internal/store"
	"github.com/fleetwatch-dev/fleetwatch/internal/ws"
	"go.uber.org/zap"
)

// Wired in main before the router starts serving.
var (
	MonitorService *monitor.Service
	Hub            *ws.Hub
	AlertStore     store.AlertStore
	Logger         *zap.Logger
)

func Configure(svc *monitor.Service, hub *ws.Hub, alertStore store.AlertStore, logger *zap.Logger) {
	MonitorService = svc
	Hub = hub
	AlertStore = alertStore
	Logger = logger
}
