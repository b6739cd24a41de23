package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paygate/logger"
	"paygate/models"

	"github.com/go-redis/redis/v8"
)

const mirrorTimeout = 2 * time.Second

// MirrorLedgerEntry writes a reporting copy of the ledger entry to Redis:
// the full entry JSON under ledger:<reference_id> plus the reference pushed
// onto the merchant's ledger list. The database row is the source of truth;
// a mirror failure is logged and swallowed.
func MirrorLedgerEntry(rdb *redis.Client, entry *models.LedgerEntry) {
	if rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	payload, err := json.Marshal(entry)
	if err != nil {
		logger.Log.WithError(err).Error("failed to marshal ledger entry for mirror")
		return
	}

	key := fmt.Sprintf("ledger:%s", entry.ReferenceID)
	if err := rdb.Set(ctx, key, payload, 0).Err(); err != nil {
		logger.Log.WithError(err).WithField("reference_id", entry.ReferenceID).
			Warn("failed to mirror ledger entry")
		return
	}

	listKey := fmt.Sprintf("merchant:%s:ledger", entry.MerchantCode)
	if err := rdb.LPush(ctx, listKey, entry.ReferenceID).Err(); err != nil {
		logger.Log.WithError(err).WithField("reference_id", entry.ReferenceID).
			Warn("failed to push ledger reference to merchant list")
	}
}
