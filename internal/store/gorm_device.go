package store

import (
	"context"
	"errors"

	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"gorm.io/gorm"
)

// GormDeviceStore backs DeviceStore with the relational device table.
type GormDeviceStore struct {
	db *gorm.DB
}

func NewGormDeviceStore(db *gorm.DB) *GormDeviceStore {
	return &GormDeviceStore{db: db}
}

func (s *GormDeviceStore) ListDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device

	if err := s.db.WithContext(ctx).Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}

	return devices, nil
}

func (s *GormDeviceStore) GetDevice(ctx context.Context, id uint) (*models.Device, error) {
	var device models.Device

	if err := s.db.WithContext(ctx).First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &device, nil
}

func (s *GormDeviceStore) UpdateStatusFrom(ctx context.Context, id uint, fromStatus, status, subStatus string) (*models.Device, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{
			"status":     status,
			"sub_status": subStatus,
		})

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Either the device is gone or another writer changed its status
		// between our read and this write.
		if _, err := s.GetDevice(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusConflict
	}

	return s.GetDevice(ctx, id)
}

func (s *GormDeviceStore) SetStatus(ctx context.Context, id uint, status, subStatus string) (*models.Device, error) {
	device, err := s.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(device).
		Updates(map[string]interface{}{
			"status":     status,
			"sub_status": subStatus,
		}).Error

	if err != nil {
		return nil, err
	}

	device.Status = status
	device.SubStatus = subStatus
	return device, nil
}

func (s *GormDeviceStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}

	var rows []row

	err := s.db.WithContext(ctx).
		Model(&models.Device{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}

	return counts, nil
}
