package merchant

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"paygate/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payoutApp(m models.Merchant) *fiber.App {
	app := fiber.New()
	app.Post("/payout", func(c *fiber.Ctx) error {
		c.Locals("merchant", m)
		return CreatePayout(c)
	})
	return app
}

func postPayout(t *testing.T, app *fiber.App, body map[string]any) (int, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/payout", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]any
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(respBody, &parsed))

	return resp.StatusCode, parsed
}

func validPayoutBody() map[string]any {
	return map[string]any{
		"account_number":   "1234567890",
		"account_ifsc":     "HDFC0001234",
		"bank_name":        "HDFC",
		"beneficiary_name": "Jane Doe",
		"amount":           500.0,
		"reference_id":     "REF123456789",
	}
}

func TestCreatePayoutValidation(t *testing.T) {
	app := payoutApp(models.Merchant{MerchantCode: "Mabcde", IsActive: true})

	t.Run("reference_id must be exactly 12 characters", func(t *testing.T) {
		body := validPayoutBody()
		body["reference_id"] = "SHORT"

		status, parsed := postPayout(t, app, body)

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, false, parsed["success"])
		assert.Contains(t, parsed["message"], "VALIDATION_FAILED")
	})

	t.Run("missing beneficiary fields rejected", func(t *testing.T) {
		body := validPayoutBody()
		delete(body, "account_number")

		status, _ := postPayout(t, app, body)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("amount must be positive", func(t *testing.T) {
		body := validPayoutBody()
		body["amount"] = 0

		status, _ := postPayout(t, app, body)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestCreatePayoutMinimumAmount(t *testing.T) {
	app := payoutApp(models.Merchant{
		MerchantCode:    "Mabcde",
		IsActive:        true,
		MinPayoutAmount: decimal.NewFromInt(1000),
	})

	body := validPayoutBody()
	body["amount"] = 500.0

	status, parsed := postPayout(t, app, body)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "AMOUNT_BELOW_MINIMUM", parsed["message"])
}
