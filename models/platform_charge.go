package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlatformCharge is the global platform fee configuration. At most one row is
// active at a time; activation deactivates all other rows in the same
// transaction (see controllers/admin.ActivatePlatformCharge).
type PlatformCharge struct {
	gorm.Model

	Charge   decimal.Decimal `gorm:"type:numeric(20,2)" json:"charge"`
	GST      decimal.Decimal `gorm:"type:numeric(20,2);column:gst" json:"gst"`
	IsActive bool            `gorm:"default:false;index" json:"is_active"`
}
