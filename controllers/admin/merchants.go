package admin

import (
	"encoding/json"

	"paygate/database"
	"paygate/helpers"
	"paygate/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RegisterMerchantRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	IPWhitelist     []string `json:"ip_whitelist"`
	MinPayoutAmount float64  `json:"min_payout_amount"`
}

// RegisterMerchant creates the merchant together with its financial record;
// every merchant has exactly one FinancialDetail row from registration on.
func RegisterMerchant(c *fiber.Ctx) error {
	var req RegisterMerchantRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if req.Name == "" {
		return helpers.JSONError(c, "NAME_REQUIRED")
	}

	whitelist, err := json.Marshal(req.IPWhitelist)
	if err != nil {
		return helpers.JSONError(c, "INVALID_IP_WHITELIST")
	}

	merchant := models.Merchant{
		MerchantCode:    helpers.GenerateMerchantCode(),
		Name:            req.Name,
		Email:           req.Email,
		SecretKey:       helpers.GenerateSecretKey(),
		IPWhitelist:     datatypes.JSON(whitelist),
		MinPayoutAmount: decimal.NewFromFloat(req.MinPayoutAmount).Round(2),
		IsActive:        true,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&merchant).Error; err != nil {
			return err
		}
		return tx.Create(&models.FinancialDetail{MerchantID: merchant.ID}).Error
	})
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_REGISTER_MERCHANT")
	}

	return helpers.JSONSuccess(c, "Merchant registered", fiber.Map{
		"merchant_code": merchant.MerchantCode,
		"secret_key":    merchant.SecretKey,
	})
}

// ToggleMerchantStatus flips is_active. Disabled merchants fail auth before
// any balance mutation.
func ToggleMerchantStatus(c *fiber.Ctx) error {
	merchant, err := findMerchant(c)
	if err != nil {
		return err
	}

	if err := database.DB.Model(merchant).Update("is_active", !merchant.IsActive).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_UPDATE_MERCHANT")
	}

	return helpers.JSONSuccess(c, "Merchant status updated", fiber.Map{
		"merchant_code": merchant.MerchantCode,
		"is_active":     merchant.IsActive,
	})
}

func MerchantInfo(c *fiber.Ctx) error {
	merchant, err := findMerchant(c)
	if err != nil {
		return err
	}

	var fin models.FinancialDetail
	if err := database.DB.Where("merchant_id = ?", merchant.ID).First(&fin).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "FINANCIAL_RECORD_NOT_FOUND")
	}

	return helpers.JSONSuccess(c, "Merchant info", fiber.Map{
		"merchant": merchant,
		"balances": fiber.Map{
			"wallet":          fin.Wallet,
			"settlement":      fin.Settlement,
			"lien":            fin.Lien,
			"rolling_reserve": fin.RollingReserve,
		},
	})
}
