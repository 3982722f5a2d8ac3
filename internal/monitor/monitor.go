package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/alerts"
	"github.com/fleetwatch-dev/fleetwatch/internal/classifier"
	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/store"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"go.uber.org/zap"
)

// Publisher receives the deltas a tick produced after its writes committed.
// Delivery is best effort; implementations must never block or fail a tick.
type Publisher interface {
	PublishDeviceMetrics(device *models.Device)
	PublishAlertsSummary(summary types.AlertsSummary)
}

// Notifier fans a created alert out to downstream channels (webhooks etc).
// Called on a separate goroutine so it never delays a tick.
type Notifier interface {
	NotifyAlert(alert *models.Alert, device *models.Device)
}

// Service keeps every non-overridden device's persisted status consistent
// with the classifier, once per tick, and owns the manual-override entry
// points. A single Service instance is the only status writer besides
// operator overrides.
type Service struct {
	devices    store.DeviceStore
	alerts     store.AlertStore
	publisher  Publisher
	notifier   Notifier
	classifier *classifier.Classifier
	logger     *zap.Logger

	interval      time.Duration
	deviceTimeout time.Duration

	// tickMu serializes ticks: if a pass is still running when the timer
	// fires again, the next pass waits.
	tickMu sync.Mutex

	stateMu   sync.RWMutex
	lastCheck time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithDeviceTimeout(d time.Duration) Option {
	return func(s *Service) { s.deviceTimeout = d }
}

func New(devices store.DeviceStore, alertStore store.AlertStore, publisher Publisher, c *classifier.Classifier, interval time.Duration, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		devices:       devices,
		alerts:        alertStore,
		publisher:     publisher,
		classifier:    c,
		logger:        logger,
		interval:      interval,
		deviceTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start launches the periodic sweep. The first pass runs immediately.
func (s *Service) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.logger.Info("monitoring loop started", zap.Duration("interval", s.interval))
		s.Tick(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("monitoring loop stopped")
				return
			case <-ticker.C:
				s.Tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for any in-flight tick to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Tick runs one full pass over the fleet. Exported so tests can drive the
// loop deterministically without a wall-clock timer.
func (s *Service) Tick(ctx context.Context) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	now := time.Now()

	devices, err := s.devices.ListDevices(ctx)
	if err != nil {
		// Total enumeration failure: skip this pass, stay on schedule.
		s.logger.Error("tick skipped: listing devices failed", zap.Error(err))
		return
	}

	changed := 0
	for i := range devices {
		device := &devices[i]

		if device.Status == types.StatusMaintenance || device.Status == types.StatusShutdown {
			continue
		}

		if s.reclassify(ctx, device, now) {
			changed++
		}
	}

	summary, err := s.alerts.Summary(ctx)
	if err != nil {
		s.logger.Error("alerts summary failed", zap.Error(err))
	} else if s.publisher != nil {
		s.publisher.PublishAlertsSummary(summary)
	}

	s.stateMu.Lock()
	s.lastCheck = now
	s.stateMu.Unlock()

	s.logger.Debug("tick completed",
		zap.Int("devices", len(devices)),
		zap.Int("changed", changed),
		zap.Duration("elapsed", time.Since(now)))
}

// reclassify applies the classifier to one device and persists the result
// if it differs. Reports whether a change was written. All failures are
// per-device: logged and skipped, retried next tick.
func (s *Service) reclassify(ctx context.Context, device *models.Device, now time.Time) bool {
	newStatus, newSubStatus := s.classifier.Classify(device.LastTransaction, now)

	if newStatus == device.Status && newSubStatus == device.SubStatus {
		return false
	}

	deviceCtx, cancel := context.WithTimeout(ctx, s.deviceTimeout)
	defer cancel()

	oldStatus := device.Status

	updated, err := s.devices.UpdateStatusFrom(deviceCtx, device.ID, oldStatus, newStatus, newSubStatus)
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			// A manual override won the race; leave the device alone.
			s.logger.Info("skipping device: status changed concurrently",
				zap.Uint("device_id", device.ID))
			return false
		}
		s.logger.Error("device status update failed",
			zap.Uint("device_id", device.ID),
			zap.String("serial_number", device.SerialNumber),
			zap.Error(err))
		return false
	}

	s.raiseTransitionAlert(deviceCtx, updated, oldStatus, newStatus, now)

	if s.publisher != nil {
		s.publisher.PublishDeviceMetrics(updated)
	}

	return true
}

func (s *Service) raiseTransitionAlert(ctx context.Context, device *models.Device, oldStatus, newStatus string, now time.Time) {
	alert := alerts.ForTransition(device, oldStatus, newStatus, now)
	if alert == nil {
		return
	}

	if err := s.alerts.CreateAlert(ctx, alert); err != nil {
		s.logger.Error("alert creation failed",
			zap.Uint("device_id", device.ID),
			zap.String("title", alert.Title),
			zap.Error(err))
		return
	}

	s.logger.Warn("alert raised",
		zap.Uint("device_id", device.ID),
		zap.String("serial_number", device.SerialNumber),
		zap.String("type", alert.Type),
		zap.String("transition", oldStatus+" -> "+newStatus))

	if s.notifier != nil {
		go s.notifier.NotifyAlert(alert, device)
	}
}

// LastCheck reports when the last completed tick started. Zero before the
// first tick finishes.
func (s *Service) LastCheck() time.Time {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.lastCheck
}

// StatusCounts returns the fleet's per-status device counts, computed fresh
// from the store on every call.
func (s *Service) StatusCounts(ctx context.Context) (map[string]int64, error) {
	return s.devices.CountByStatus(ctx)
}
