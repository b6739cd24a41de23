package merchant

import (
	"paygate/database"
	"paygate/helpers"
	"paygate/models"

	"github.com/gofiber/fiber/v2"
)

func CheckBalance(c *fiber.Ctx) error {
	merchant, ok := c.Locals("merchant").(models.Merchant)
	if !ok {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_MERCHANT_SESSION")
	}

	var fin models.FinancialDetail
	if err := database.DB.Where("merchant_id = ?", merchant.ID).First(&fin).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "FINANCIAL_RECORD_NOT_FOUND")
	}

	return helpers.JSONSuccess(c, "Merchant balance", fiber.Map{
		"merchant_code":   merchant.MerchantCode,
		"wallet":          fin.Wallet,
		"settlement":      fin.Settlement,
		"lien":            fin.Lien,
		"rolling_reserve": fin.RollingReserve,
	})
}
