package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryAddress is a customer shipping destination captured through the
// address-entry flow. Province/district/sub-district ids reference the
// immutable geo index; the denormalized names survive dataset reloads.
type DeliveryAddress struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID    uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index" json:"customer_id"`
	Line1         string    `gorm:"column:line1;not null" json:"line1"`
	ProvinceID    int       `gorm:"column:province_id;not null" json:"province_id"`
	DistrictID    int       `gorm:"column:district_id;not null" json:"district_id"`
	SubDistrictID int       `gorm:"column:sub_district_id;not null" json:"sub_district_id"`
	Province      string    `gorm:"column:province;not null" json:"province"`
	District      string    `gorm:"column:district;not null" json:"district"`
	SubDistrict   string    `gorm:"column:sub_district;not null" json:"sub_district"`
	PostalCode    string    `gorm:"column:postal_code;not null" json:"postal_code"`
	Phone         string    `gorm:"column:phone" json:"phone,omitempty"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
