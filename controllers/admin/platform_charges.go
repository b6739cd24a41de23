package admin

import (
	"paygate/database"
	"paygate/helpers"
	"paygate/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PlatformChargeRequest struct {
	Charge float64 `json:"charge"`
	GST    float64 `json:"gst"`
}

func ListPlatformCharges(c *fiber.Ctx) error {
	var charges []models.PlatformCharge
	if err := database.DB.Order("created_at DESC").Find(&charges).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_LOAD_PLATFORM_CHARGES")
	}
	return helpers.JSONSuccess(c, "Platform charges", fiber.Map{
		"platform_charges": charges,
	})
}

// ActivatePlatformCharge creates a new platform charge row and makes it the
// single active one. Deactivate-all and activate-one run in one transaction
// so there is never more than one active row.
func ActivatePlatformCharge(c *fiber.Ctx) error {
	var req PlatformChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if req.Charge < 0 || req.GST < 0 {
		return helpers.JSONError(c, "CHARGE_AND_GST_MUST_BE_NON_NEGATIVE")
	}

	charge := models.PlatformCharge{
		Charge:   decimal.NewFromFloat(req.Charge).Round(2),
		GST:      decimal.NewFromFloat(req.GST).Round(2),
		IsActive: true,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PlatformCharge{}).
			Where("is_active = true").
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&charge).Error
	})
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_ACTIVATE_PLATFORM_CHARGE")
	}

	return helpers.JSONSuccess(c, "Platform charge activated", fiber.Map{
		"platform_charge": charge,
	})
}
