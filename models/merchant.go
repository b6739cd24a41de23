package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Merchant struct {
	gorm.Model

	MerchantCode    string          `gorm:"uniqueIndex;size:32" json:"merchant_code"`
	Name            string          `gorm:"size:128" json:"name"`
	Email           string          `gorm:"size:128" json:"email"`
	SecretKey       string          `gorm:"size:128" json:"-"`
	IPWhitelist     datatypes.JSON  `json:"ip_whitelist"`
	MinPayoutAmount decimal.Decimal `gorm:"type:numeric(20,2);default:0" json:"min_payout_amount"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`

	FinancialDetail *FinancialDetail `gorm:"foreignKey:MerchantID" json:"-"`
	ChargeBrackets  []ChargeBracket  `gorm:"foreignKey:MerchantID" json:"-"`
	LedgerEntries   []LedgerEntry    `gorm:"foreignKey:MerchantID" json:"-"`
}

// IPAllowed reports whether ip may call merchant endpoints. An empty
// whitelist means no restriction.
func (m *Merchant) IPAllowed(ip string) bool {
	if len(m.IPWhitelist) == 0 {
		return true
	}
	var ips []string
	if err := json.Unmarshal(m.IPWhitelist, &ips); err != nil {
		return false
	}
	if len(ips) == 0 {
		return true
	}
	for _, allowed := range ips {
		if allowed == ip {
			return true
		}
	}
	return false
}
