package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DirectionPayin  = "payin"
	DirectionPayout = "payout"

	ChargeTypePercentage = "percentage"
	ChargeTypeFixed      = "fixed"
)

// ChargeBracket is one tier of a merchant's charge table. The bracket whose
// [StartAmount, EndAmount] range contains the transaction amount supplies the
// admin and agent rates; brackets are scanned in ascending StartAmount order
// and the first containing match wins.
type ChargeBracket struct {
	gorm.Model

	MerchantID  uint            `gorm:"index:idx_merchant_direction" json:"merchant_id"`
	Direction   string          `gorm:"size:8;index:idx_merchant_direction" json:"direction"`
	StartAmount decimal.Decimal `gorm:"type:numeric(20,2)" json:"start_amount"`
	EndAmount   decimal.Decimal `gorm:"type:numeric(20,2)" json:"end_amount"`
	ChargeType  string          `gorm:"size:16" json:"charge_type"`
	AdminRate   decimal.Decimal `gorm:"type:numeric(20,2)" json:"admin_rate"`
	AgentRate   decimal.Decimal `gorm:"type:numeric(20,2)" json:"agent_rate"`
}

// Contains reports whether amount falls inside the bracket range, bounds
// inclusive.
func (b *ChargeBracket) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(b.StartAmount) && amount.LessThanOrEqual(b.EndAmount)
}
