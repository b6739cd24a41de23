package admin

import (
	"paygate/database"
	"paygate/helpers"
	"paygate/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ChargeBracketRequest struct {
	Direction   string  `json:"direction"`
	StartAmount float64 `json:"start_amount"`
	EndAmount   float64 `json:"end_amount"`
	ChargeType  string  `json:"charge_type"`
	AdminRate   float64 `json:"admin_rate"`
	AgentRate   float64 `json:"agent_rate"`
}

func findMerchant(c *fiber.Ctx) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := database.DB.Where("merchant_code = ?", c.Params("merchant_code")).First(&merchant).Error; err != nil {
		return nil, helpers.JSONErrorStatus(c, fiber.StatusNotFound, "MERCHANT_NOT_FOUND")
	}
	return &merchant, nil
}

func ListMerchantCharges(c *fiber.Ctx) error {
	merchant, err := findMerchant(c)
	if err != nil {
		return err
	}

	var brackets []models.ChargeBracket
	if err := database.DB.
		Where("merchant_id = ?", merchant.ID).
		Order("direction ASC, start_amount ASC").
		Find(&brackets).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_LOAD_BRACKETS")
	}

	return helpers.JSONSuccess(c, "Charge brackets", fiber.Map{
		"merchant_code":   merchant.MerchantCode,
		"charge_brackets": brackets,
	})
}

func CreateMerchantCharge(c *fiber.Ctx) error {
	merchant, err := findMerchant(c)
	if err != nil {
		return err
	}

	var req ChargeBracketRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if req.Direction != models.DirectionPayin && req.Direction != models.DirectionPayout {
		return helpers.JSONError(c, "DIRECTION_MUST_BE_PAYIN_OR_PAYOUT")
	}
	if req.ChargeType != models.ChargeTypePercentage && req.ChargeType != models.ChargeTypeFixed {
		return helpers.JSONError(c, "CHARGE_TYPE_MUST_BE_PERCENTAGE_OR_FIXED")
	}
	if req.EndAmount < req.StartAmount {
		return helpers.JSONError(c, "END_AMOUNT_MUST_NOT_BE_BELOW_START_AMOUNT")
	}
	if req.AdminRate < 0 || req.AgentRate < 0 {
		return helpers.JSONError(c, "RATES_MUST_BE_NON_NEGATIVE")
	}

	bracket := models.ChargeBracket{
		MerchantID:  merchant.ID,
		Direction:   req.Direction,
		StartAmount: decimal.NewFromFloat(req.StartAmount).Round(2),
		EndAmount:   decimal.NewFromFloat(req.EndAmount).Round(2),
		ChargeType:  req.ChargeType,
		AdminRate:   decimal.NewFromFloat(req.AdminRate).Round(2),
		AgentRate:   decimal.NewFromFloat(req.AgentRate).Round(2),
	}

	if err := database.DB.Create(&bracket).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_CREATE_BRACKET")
	}

	return helpers.JSONSuccess(c, "Charge bracket created", fiber.Map{
		"charge_bracket": bracket,
	})
}

func DeleteMerchantCharge(c *fiber.Ctx) error {
	merchant, err := findMerchant(c)
	if err != nil {
		return err
	}

	result := database.DB.
		Where("merchant_id = ? AND id = ?", merchant.ID, c.Params("id")).
		Delete(&models.ChargeBracket{})
	if result.Error != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_DELETE_BRACKET")
	}
	if result.RowsAffected == 0 {
		return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "BRACKET_NOT_FOUND")
	}

	return helpers.JSONSuccess(c, "Charge bracket deleted", nil)
}
