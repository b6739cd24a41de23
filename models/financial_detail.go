package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinancialDetail holds one balance row per merchant. All four balances are
// numeric(20,2); mutations go through services.DebitSettlement and
// services.CreditSettlement under a row lock, never through direct updates.
type FinancialDetail struct {
	gorm.Model

	MerchantID     uint            `gorm:"uniqueIndex" json:"merchant_id"`
	Wallet         decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"wallet"`
	Settlement     decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"settlement"`
	Lien           decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"lien"`
	RollingReserve decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"rolling_reserve"`
}
