package models

import (
	"time"

	"gorm.io/datatypes"
)

type Alert struct {
	BaseModel

	DeviceID *uint  `gorm:"index" json:"device_id"` // nil for system/region-wide alerts
	Type     string `gorm:"not null" json:"type"`   // "CRITICAL", "WARNING", "INFO"
	Category string `gorm:"not null" json:"category"`
	Title    string `gorm:"not null" json:"title"`
	Message  string `json:"message"`

	IsRead     bool       `gorm:"default:false;index" json:"is_read"`
	ReadBy     *uint      `json:"read_by"`
	ReadAt     *time.Time `json:"read_at"`
	IsResolved bool       `gorm:"default:false;index" json:"is_resolved"`
	ResolvedBy *uint      `json:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at"`

	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata"`

	// Relationships
	Device *Device `gorm:"foreignKey:DeviceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
