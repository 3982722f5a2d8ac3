package store

import (
	"context"
	"errors"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"gorm.io/gorm"
)

// GormAlertStore backs AlertStore with the relational alert table. Alerts
// are never deleted; acknowledge and resolve are the only mutations.
type GormAlertStore struct {
	db *gorm.DB
}

func NewGormAlertStore(db *gorm.DB) *GormAlertStore {
	return &GormAlertStore{db: db}
}

func (s *GormAlertStore) CreateAlert(ctx context.Context, alert *models.Alert) error {
	return s.db.WithContext(ctx).Create(alert).Error
}

func (s *GormAlertStore) AcknowledgeAlert(ctx context.Context, id uint, actorID uint) (*models.Alert, error) {
	alert, err := s.getAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if alert.IsRead {
		return alert, nil
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Model(alert).Updates(map[string]interface{}{
		"is_read": true,
		"read_by": actorID,
		"read_at": now,
	}).Error

	if err != nil {
		return nil, err
	}

	alert.IsRead = true
	alert.ReadBy = &actorID
	alert.ReadAt = &now
	return alert, nil
}

func (s *GormAlertStore) ResolveAlert(ctx context.Context, id uint, actorID uint) (*models.Alert, error) {
	alert, err := s.getAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if alert.IsResolved {
		return nil, ErrAlreadyResolved
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Model(alert).Updates(map[string]interface{}{
		"is_resolved": true,
		"resolved_by": actorID,
		"resolved_at": now,
	}).Error

	if err != nil {
		return nil, err
	}

	alert.IsResolved = true
	alert.ResolvedBy = &actorID
	alert.ResolvedAt = &now
	return alert, nil
}

func (s *GormAlertStore) Summary(ctx context.Context) (types.AlertsSummary, error) {
	var summary types.AlertsSummary

	base := s.db.WithContext(ctx).Model(&models.Alert{})

	if err := base.Session(&gorm.Session{}).Count(&summary.Total).Error; err != nil {
		return summary, err
	}

	counts := []struct {
		dest  *int64
		query string
		args  []interface{}
	}{
		{&summary.Unread, "is_read = ?", []interface{}{false}},
		{&summary.Unresolved, "is_resolved = ?", []interface{}{false}},
		{&summary.Critical, "type = ? AND is_resolved = ?", []interface{}{types.AlertTypeCritical, false}},
		{&summary.Warning, "type = ? AND is_resolved = ?", []interface{}{types.AlertTypeWarning, false}},
		{&summary.Info, "type = ? AND is_resolved = ?", []interface{}{types.AlertTypeInfo, false}},
	}

	for _, c := range counts {
		err := s.db.WithContext(ctx).
			Model(&models.Alert{}).
			Where(c.query, c.args...).
			Count(c.dest).Error
		if err != nil {
			return summary, err
		}
	}

	return summary, nil
}

func (s *GormAlertStore) getAlert(ctx context.Context, id uint) (*models.Alert, error) {
	var alert models.Alert

	if err := s.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &alert, nil
}
