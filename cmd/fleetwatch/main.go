package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/db"
	"github.com/fleetwatch-dev/fleetwatch/internal/auth"
	"github.com/fleetwatch-dev/fleetwatch/internal/classifier"
	"github.com/fleetwatch-dev/fleetwatch/internal/config"
	"github.com/fleetwatch-dev/fleetwatch/internal/handlers"
	"github.com/fleetwatch-dev/fleetwatch/internal/logger"
	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/monitor"
	"github.com/fleetwatch-dev/fleetwatch/internal/router"
	"github.com/fleetwatch-dev/fleetwatch/internal/services"
	"github.com/fleetwatch-dev/fleetwatch/internal/store"
	"github.com/fleetwatch-dev/fleetwatch/internal/weather"
	"github.com/fleetwatch-dev/fleetwatch/internal/ws"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatal("jwt init failed", zap.Error(err))
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	deviceStore := store.NewGormDeviceStore(db.DB)
	alertStore := store.NewGormAlertStore(db.DB)

	hub := ws.NewHub(log)
	go hub.Run()

	notifier := services.NewNotifier(cfg.SlackWebhookURL, cfg.DiscordWebhookURL, log)

	monitorService := monitor.New(
		deviceStore,
		alertStore,
		hub,
		classifier.New(cfg.ActiveThreshold, cfg.LiveThreshold, cfg.WarningThreshold),
		cfg.MonitorInterval,
		log,
		monitor.WithNotifier(notifier),
		monitor.WithDeviceTimeout(cfg.DeviceTimeout),
	)
	monitorService.Start()
	defer monitorService.Stop()

	weatherService := weather.New(hub, plazaList(log), cfg.WeatherInterval, log)
	weatherService.Start()
	defer weatherService.Stop()

	handlers.Configure(monitorService, hub, alertStore, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.NewRouter(),
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
}

// plazaList derives the weather coverage set from the registered devices,
// falling back to a demo set on an empty fleet.
func plazaList(log *zap.Logger) []string {
	var plazas []string

	err := db.DB.Model(&models.Device{}).
		Distinct("location").
		Where("location <> ''").
		Pluck("location", &plazas).Error

	if err != nil {
		log.Warn("failed to derive plaza list", zap.Error(err))
	}

	if len(plazas) == 0 {
		plazas = []string{"Plaza North", "Plaza South", "Plaza East"}
	}

	return plazas
}
