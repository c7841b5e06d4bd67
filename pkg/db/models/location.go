package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/prachya-dev/saithong-backend/pkg/enums"
)

// Location is a physical or logical place that can hold inventory: a retail
// store, a warehouse, or an unattended IoT installation point.
type Location struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string               `gorm:"column:name;not null" json:"name"`
	Code      string               `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Type      enums.LocationType   `gorm:"column:type;not null" json:"type"`
	Province  string               `gorm:"column:province;not null" json:"province"`
	District  string               `gorm:"column:district" json:"district,omitempty"`
	Status    enums.LocationStatus `gorm:"column:status;not null;default:'Active'" json:"status"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
