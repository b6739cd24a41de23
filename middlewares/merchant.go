package middlewares

import (
	"crypto/hmac"

	"paygate/database"
	"paygate/helpers"
	"paygate/models"

	"github.com/gofiber/fiber/v2"
)

// MerchantAuth authenticates merchant API calls: the X-Merchant-Code header
// names the merchant and X-Signature must be the HMAC-SHA256 of the raw body
// keyed with the merchant's secret. The caller IP must also pass the
// merchant's whitelist. The merchant is stored in c.Locals("merchant").
func MerchantAuth(c *fiber.Ctx) error {
	merchantCode := c.Get("X-Merchant-Code")
	signature := c.Get("X-Signature")

	if merchantCode == "" || signature == "" {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "MERCHANT_CODE_AND_SIGNATURE_REQUIRED")
	}

	var merchant models.Merchant
	if err := database.DB.Where("merchant_code = ?", merchantCode).First(&merchant).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "MERCHANT_NOT_FOUND")
	}

	if !merchant.IsActive {
		return helpers.JSONErrorStatus(c, fiber.StatusForbidden, "MERCHANT_DISABLED")
	}

	expected := helpers.Sign(merchant.SecretKey, c.Body())
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_SIGNATURE")
	}

	if !merchant.IPAllowed(c.IP()) {
		return helpers.JSONErrorStatus(c, fiber.StatusForbidden, "IP_NOT_WHITELISTED")
	}

	c.Locals("merchant", merchant)
	return c.Next()
}
