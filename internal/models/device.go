package models

import (
	"time"
)

type Device struct {
	BaseModel

	SerialNumber    string     `gorm:"uniqueIndex;not null" json:"serial_number"`
	Name            string     `gorm:"not null" json:"name"`
	Location        string     `json:"location"` // toll plaza / lane
	Type            string     `gorm:"not null" json:"type"` // "fixed", "handheld"
	Status          string     `gorm:"not null;default:DOWN;index" json:"status"`
	SubStatus       string     `json:"sub_status"`
	LastTransaction *time.Time `json:"last_transaction"` // nil means never seen

	// Relationships
	Alerts []Alert `gorm:"foreignKey:DeviceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
