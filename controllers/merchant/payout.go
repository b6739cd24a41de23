package merchant

import (
	"encoding/json"
	"errors"
	"os"

	"paygate/database"
	"paygate/helpers"
	"paygate/logger"
	"paygate/models"
	"paygate/providers"
	"paygate/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

type PayoutRequest struct {
	AccountNumber   string  `json:"account_number" validate:"required"`
	AccountIFSC     string  `json:"account_ifsc" validate:"required"`
	BankName        string  `json:"bank_name" validate:"required"`
	BeneficiaryName string  `json:"beneficiary_name" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	ReferenceID     string  `json:"reference_id" validate:"required,len=12"`
	Remark          string  `json:"remark"`
}

// CreatePayout runs the full payout pipeline: bracket lookup, charge
// calculation, settlement debit plus pending ledger row in one database
// transaction, then the gateway call. A gateway rejection flips the entry to
// failed and refunds the deduction.
func CreatePayout(c *fiber.Ctx) error {
	var req PayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if err := validate.Struct(req); err != nil {
		return helpers.JSONError(c, "VALIDATION_FAILED: "+err.Error())
	}

	merchant, ok := c.Locals("merchant").(models.Merchant)
	if !ok {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_MERCHANT_SESSION")
	}

	amount := decimal.NewFromFloat(req.Amount).Round(2)
	if amount.LessThan(merchant.MinPayoutAmount) {
		return helpers.JSONError(c, "AMOUNT_BELOW_MINIMUM")
	}

	var existing models.LedgerEntry
	err := database.DB.Where("reference_id = ?", req.ReferenceID).First(&existing).Error
	if err == nil {
		return helpers.JSONError(c, "DUPLICATE_REFERENCE_ID")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_CHECK_REFERENCE")
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

	entry := &models.LedgerEntry{
		ReferenceID:     req.ReferenceID,
		MerchantCode:    merchant.MerchantCode,
		EntryType:       models.EntryTypePayout,
		Amount:          amount,
		AdminCharge:     breakdown.AdminCharge,
		AgentCharge:     breakdown.AgentCharge,
		PlatformFee:     breakdown.PlatformFee,
		GSTAmount:       breakdown.GSTAmount,
		TotalDeduction:  breakdown.TotalDeduction,
		AccountNumber:   req.AccountNumber,
		AccountIFSC:     req.AccountIFSC,
		BankName:        req.BankName,
		BeneficiaryName: req.BeneficiaryName,
		Status:          models.StatusPending,
		Remark:          req.Remark,
		CreatedBy:       merchant.MerchantCode,
	}

	if err := services.DebitSettlement(database.DB, merchant.ID, entry); err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientBalance):
			return helpers.JSONError(c, "INSUFFICIENT_BALANCE")
		case errors.Is(err, services.ErrDuplicateReference):
			return helpers.JSONError(c, "DUPLICATE_REFERENCE_ID")
		case errors.Is(err, services.ErrFinancialNotFound):
			return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "FINANCIAL_RECORD_NOT_FOUND")
		default:
			logger.Log.WithError(err).Error("payout debit failed")
			return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "PAYOUT_FAILED")
		}
	}

	gateway := providers.GetGateway(os.Getenv("PAYOUT_GATEWAY"))
	if gateway == nil {
		gateway = providers.GetGateway("FASTPAY")
	}

	result, err := gateway.CreatePayout(providers.PayoutRequest{
		ReferenceID:     entry.ReferenceID,
		Amount:          amount,
		AccountNumber:   req.AccountNumber,
		AccountIFSC:     req.AccountIFSC,
		BankName:        req.BankName,
		BeneficiaryName: req.BeneficiaryName,
		Remark:          req.Remark,
	})
	if err != nil {
		logger.Log.WithError(err).WithField("reference_id", entry.ReferenceID).
			Warn("gateway rejected payout, refunding")
		if rerr := services.ResolvePayout(database.DB, entry, models.StatusFailed, err.Error()); rerr != nil {
			logger.Log.WithError(rerr).Error("failed to refund rejected payout")
		}
		services.MirrorLedgerEntry(database.Redis, entry)
		return helpers.JSONErrorStatus(c, fiber.StatusBadGateway, "GATEWAY_ERROR: "+err.Error())
	}

	payload, _ := json.Marshal(result)
	if err := database.DB.Model(entry).Updates(map[string]any{
		"gateway_ref":     result.GatewayRef,
		"gateway_payload": payload,
	}).Error; err != nil {
		logger.Log.WithError(err).Error("failed to store gateway reference")
	}

	services.MirrorLedgerEntry(database.Redis, entry)

	return helpers.JSONSuccess(c, "Payout initiated", fiber.Map{
		"reference_id":    entry.ReferenceID,
		"gateway_ref":     result.GatewayRef,
		"status":          entry.Status,
		"amount":          amount,
		"admin_charge":    breakdown.AdminCharge,
		"agent_charge":    breakdown.AgentCharge,
		"platform_fee":    breakdown.PlatformFee,
		"gst_amount":      breakdown.GSTAmount,
		"total_deduction": breakdown.TotalDeduction,
		"balance_before":  entry.BalanceBefore,
		"balance_after":   entry.BalanceAfter,
	})
}
