package store

import (
	"context"
	"errors"

	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
)

var (
	// ErrNotFound is returned when a device or alert id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStatusConflict is returned by UpdateStatusFrom when the device's
	// current status no longer matches the expected one, which means a
	// concurrent writer (usually a manual override) got there first.
	ErrStatusConflict = errors.New("device status changed concurrently")

	// ErrAlreadyResolved is returned when resolving a resolved alert.
	ErrAlreadyResolved = errors.New("alert is already resolved")
)

// DeviceStore is the device persistence contract the monitoring loop runs
// against: read-all plus conditional update-by-id.
type DeviceStore interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
	GetDevice(ctx context.Context, id uint) (*models.Device, error)

	// UpdateStatusFrom writes status/subStatus only if the device still
	// holds fromStatus; otherwise it returns ErrStatusConflict.
	UpdateStatusFrom(ctx context.Context, id uint, fromStatus, status, subStatus string) (*models.Device, error)

	// SetStatus writes status/subStatus unconditionally (manual override).
	SetStatus(ctx context.Context, id uint, status, subStatus string) (*models.Device, error)

	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// AlertStore is the alert persistence contract.
type AlertStore interface {
	CreateAlert(ctx context.Context, alert *models.Alert) error
	AcknowledgeAlert(ctx context.Context, id uint, actorID uint) (*models.Alert, error)
	ResolveAlert(ctx context.Context, id uint, actorID uint) (*models.Alert, error)
	Summary(ctx context.Context) (types.AlertsSummary, error)
}
