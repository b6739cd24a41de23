package callback

import (
	"errors"

	"paygate/database"
	"paygate/helpers"
	"paygate/logger"
	"paygate/models"
	"paygate/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PayoutStatusRequest struct {
	GatewayRef string `json:"gateway_ref"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// PayoutStatus receives the gateway's transfer status push and transitions
// the matching pending ledger entry. Repeated pushes for an already resolved
// entry are acknowledged without effect.
func PayoutStatus(c *fiber.Ctx) error {
	var req PayoutStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if req.GatewayRef == "" || req.Status == "" {
		return helpers.JSONError(c, "GATEWAY_REF_AND_STATUS_REQUIRED")
	}
	if req.Status != models.StatusCompleted && req.Status != models.StatusFailed {
		return helpers.JSONError(c, "STATUS_MUST_BE_COMPLETED_OR_FAILED")
	}

	var entry models.LedgerEntry
	err := database.DB.
		Where("gateway_ref = ? AND entry_type = ?", req.GatewayRef, models.EntryTypePayout).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "TRANSACTION_NOT_FOUND")
	}
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_LOAD_TRANSACTION")
	}

	if entry.Status != models.StatusPending {
		return helpers.JSONSuccess(c, "Already resolved", fiber.Map{
			"reference_id": entry.ReferenceID,
			"status":       entry.Status,
		})
	}

	if err := services.ResolvePayout(database.DB, &entry, req.Status, req.Message); err != nil {
		logger.Log.WithError(err).WithField("gateway_ref", req.GatewayRef).
			Error("failed to resolve payout from callback")
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_RESOLVE_PAYOUT")
	}

	services.MirrorLedgerEntry(database.Redis, &entry)

	return helpers.JSONSuccess(c, "Payout status updated", fiber.Map{
		"reference_id": entry.ReferenceID,
		"status":       entry.Status,
	})
}
