package admin

import (
	"errors"

	"paygate/database"
	"paygate/helpers"
	"paygate/logger"
	"paygate/models"
	"paygate/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettleAmountRequest struct {
	MerchantCode string  `json:"merchant_code"`
	Amount       float64 `json:"amount"`
	Remark       string  `json:"remark"`
}

// SettleAmount is the admin-initiated settlement debit: charges are computed
// from the merchant's payout brackets and the amount plus charges is deducted
// from the settlement balance, with the ledger row written in the same
// database transaction.
func SettleAmount(c *fiber.Ctx) error {
	var req SettleAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if req.MerchantCode == "" || req.Amount <= 0 {
		return helpers.JSONError(c, "MERCHANT_CODE_AND_VALID_AMOUNT_REQUIRED")
	}
	amount := decimal.NewFromFloat(req.Amount).Round(2)

	var merchant models.Merchant
	if err := database.DB.Where("merchant_code = ? AND is_active = true", req.MerchantCode).First(&merchant).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "MERCHANT_NOT_FOUND")
	}

	bracket, err := services.FindBracket(database.DB, merchant.ID, models.DirectionPayout, amount)
	if errors.Is(err, services.ErrNoBracket) {
		return helpers.JSONError(c, "NO_CHARGE_BRACKET_FOUND")
	}
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_LOAD_BRACKETS")
	}

	platform, err := services.ActivePlatformCharge(database.DB)
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_LOAD_PLATFORM_CHARGE")
	}

	breakdown := services.CalculateCharges(bracket, amount, platform)

	remark := req.Remark
	if remark == "" {
		remark = "Settlement via admin API"
	}

	createdBy, _ := c.Locals("admin_username").(string)
	entry := &models.LedgerEntry{
		ReferenceID:    uuid.New().String(),
		MerchantCode:   merchant.MerchantCode,
		EntryType:      models.EntryTypeSettlement,
		Amount:         amount,
		AdminCharge:    breakdown.AdminCharge,
		AgentCharge:    breakdown.AgentCharge,
		PlatformFee:    breakdown.PlatformFee,
		GSTAmount:      breakdown.GSTAmount,
		TotalDeduction: breakdown.TotalDeduction,
		Status:         models.StatusCompleted,
		Remark:         remark,
		CreatedBy:      createdBy,
	}

	if err := services.DebitSettlement(database.DB, merchant.ID, entry); err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientBalance):
			return helpers.JSONError(c, "INSUFFICIENT_BALANCE")
		case errors.Is(err, services.ErrFinancialNotFound):
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "FINANCIAL_RECORD_NOT_FOUND")
		default:
			logger.Log.WithError(err).Error("settlement debit failed")
			return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "SETTLEMENT_FAILED")
		}
	}

	services.MirrorLedgerEntry(database.Redis, entry)

	var fin models.FinancialDetail
	_ = database.DB.Where("merchant_id = ?", merchant.ID).First(&fin).Error

	return helpers.JSONSuccess(c, "Amount settled successfully", fiber.Map{
		"wallet_balance":     fin.Wallet,
		"settlement_balance": fin.Settlement,
		"transaction":        entry,
	})
}
