package monitor

import (
	"context"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/alerts"
	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"go.uber.org/zap"
)

// SetMaintenanceMode places a device in MAINTENANCE. The write bypasses the
// classifier, wins over any concurrently-racing tick, and always emits an
// informational alert. Idempotent beyond the alert noise.
func (s *Service) SetMaintenanceMode(ctx context.Context, deviceID, actorID uint, reason string) (*models.Device, error) {
	return s.override(ctx, deviceID, actorID, reason, types.StatusMaintenance, types.SubStatusManualOverride)
}

// SetShutdown places a device in SHUTDOWN. Same contract as maintenance.
func (s *Service) SetShutdown(ctx context.Context, deviceID, actorID uint, reason string) (*models.Device, error) {
	return s.override(ctx, deviceID, actorID, reason, types.StatusShutdown, types.SubStatusSiteShutdown)
}

// ResumeMonitoring returns an overridden device to automatic classification.
// The classifier runs immediately against the device's last transaction so
// it never sits in a stale manual state until the next tick.
func (s *Service) ResumeMonitoring(ctx context.Context, deviceID, actorID uint, reason string) (*models.Device, error) {
	device, err := s.devices.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	status, subStatus := s.classifier.Classify(device.LastTransaction, time.Now())

	updated, err := s.devices.SetStatus(ctx, deviceID, status, subStatus)
	if err != nil {
		return nil, err
	}

	s.logOverride(ctx, device, updated, actorID, reason, status)
	return updated, nil
}

func (s *Service) override(ctx context.Context, deviceID, actorID uint, reason, status, subStatus string) (*models.Device, error) {
	device, err := s.devices.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	updated, err := s.devices.SetStatus(ctx, deviceID, status, subStatus)
	if err != nil {
		return nil, err
	}

	s.logOverride(ctx, device, updated, actorID, reason, status)
	return updated, nil
}

func (s *Service) logOverride(ctx context.Context, before, after *models.Device, actorID uint, reason, targetStatus string) {
	alert := alerts.ForOverride(before, targetStatus, actorID, reason)

	if err := s.alerts.CreateAlert(ctx, alert); err != nil {
		s.logger.Error("override alert creation failed",
			zap.Uint("device_id", before.ID),
			zap.Error(err))
	} else if s.notifier != nil {
		go s.notifier.NotifyAlert(alert, after)
	}

	if s.publisher != nil {
		s.publisher.PublishDeviceMetrics(after)
	}

	s.logger.Info("manual override applied",
		zap.Uint("device_id", before.ID),
		zap.String("serial_number", before.SerialNumber),
		zap.String("from", before.Status),
		zap.String("to", after.Status),
		zap.Uint("actor_id", actorID))
}
