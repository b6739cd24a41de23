package jobs

import (
	"os"
	"time"

	"paygate/database"
	"paygate/logger"
	"paygate/models"
	"paygate/providers"
	"paygate/services"
	tasks "paygate/task"

	"github.com/sirupsen/logrus"
)

const pendingThreshold = 5 * time.Minute

// StartReconciler periodically re-queries the payout gateway for payouts
// stuck in pending and applies the same transition as the callback handler.
// It also runs the Redis mirror retention trim on a slower tick.
func StartReconciler() {
	ticker := time.NewTicker(2 * time.Minute)
	go func() {
		for {
			<-ticker.C
			if err := reconcilePending(); err != nil {
				logger.Log.WithError(err).Error("payout reconciliation failed")
			}
		}
	}()

	trimTicker := time.NewTicker(6 * time.Hour)
	go func() {
		for {
			<-trimTicker.C
			tasks.TrimMirrorLists()
		}
	}()
}

func reconcilePending() error {
	gateway := providers.GetGateway(os.Getenv("PAYOUT_GATEWAY"))
	if gateway == nil {
		gateway = providers.GetGateway("FASTPAY")
	}

	var pending []models.LedgerEntry
	err := database.DB.
		Where("entry_type = ? AND status = ? AND gateway_ref <> '' AND created_at < ?",
			models.EntryTypePayout, models.StatusPending, time.Now().Add(-pendingThreshold)).
		Find(&pending).Error
	if err != nil {
		return err
	}

	for i := range pending {
		entry := &pending[i]
		result, err := gateway.CheckStatus(entry.GatewayRef)
		if err != nil {
			logger.Log.WithError(err).WithField("gateway_ref", entry.GatewayRef).
				Warn("status check failed")
			continue
		}

		if result.Status != models.StatusCompleted && result.Status != models.StatusFailed {
			continue
		}

		if err := services.ResolvePayout(database.DB, entry, result.Status, result.Message); err != nil {
			logger.Log.WithError(err).WithField("reference_id", entry.ReferenceID).
				Error("failed to resolve payout")
			continue
		}
		services.MirrorLedgerEntry(database.Redis, entry)

		logger.Log.WithFields(logrus.Fields{
			"reference_id": entry.ReferenceID,
			"status":       entry.Status,
		}).Info("reconciled pending payout")
	}

	return nil
}
