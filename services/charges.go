package services

import (
	"errors"

	"paygate/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNoBracket = errors.New("no charge bracket matches amount")

var hundred = decimal.NewFromInt(100)

// FindBracket returns the merchant's first charge bracket, in ascending
// start_amount order, whose range contains amount. Brackets are not validated
// for overlap at write time; first match wins.
func FindBracket(db *gorm.DB, merchantID uint, direction string, amount decimal.Decimal) (*models.ChargeBracket, error) {
	var brackets []models.ChargeBracket
	err := db.
		Where("merchant_id = ? AND direction = ?", merchantID, direction).
		Order("start_amount ASC").
		Find(&brackets).Error
	if err != nil {
		return nil, err
	}

	for i := range brackets {
		if brackets[i].Contains(amount) {
			return &brackets[i], nil
		}
	}
	return nil, ErrNoBracket
}

// ActivePlatformCharge returns the single active platform charge row, or nil
// when none is configured.
func ActivePlatformCharge(db *gorm.DB) (*models.PlatformCharge, error) {
	var pc models.PlatformCharge
	err := db.Where("is_active = true").First(&pc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

type ChargeBreakdown struct {
	AdminCharge    decimal.Decimal `json:"admin_charge"`
	AgentCharge    decimal.Decimal `json:"agent_charge"`
	PlatformFee    decimal.Decimal `json:"platform_fee"`
	GSTAmount      decimal.Decimal `json:"gst_amount"`
	TotalDeduction decimal.Decimal `json:"total_deduction"`
}

// CalculateCharges computes the full charge breakdown for amount under the
// matched bracket. The agent charge is ledger-only; it never contributes to
// the merchant's deduction. All values are rounded to 2 places.
func CalculateCharges(bracket *models.ChargeBracket, amount decimal.Decimal, platform *models.PlatformCharge) ChargeBreakdown {
	adminCharge := rateCharge(bracket.ChargeType, amount, bracket.AdminRate)
	agentCharge := rateCharge(bracket.ChargeType, amount, bracket.AgentRate)

	platformFee := decimal.Zero
	gstAmount := decimal.Zero
	if platform != nil {
		platformFee = adminCharge.Mul(platform.Charge).Div(hundred).Round(2)
		gstAmount = adminCharge.Mul(platform.GST).Div(hundred).Round(2)
	}

	return ChargeBreakdown{
		AdminCharge:    adminCharge,
		AgentCharge:    agentCharge,
		PlatformFee:    platformFee,
		GSTAmount:      gstAmount,
		TotalDeduction: amount.Add(adminCharge).Add(platformFee).Add(gstAmount).Round(2),
	}
}

func rateCharge(chargeType string, amount, rate decimal.Decimal) decimal.Decimal {
	if chargeType == models.ChargeTypePercentage {
		return amount.Mul(rate).Div(hundred).Round(2)
	}
	return rate.Round(2)
}
