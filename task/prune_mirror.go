package tasks

import (
	"context"
	"time"

	"paygate/database"
	"paygate/logger"
)

const mirrorListMax = 10000

// TrimMirrorLists caps each merchant's Redis ledger list at mirrorListMax
// entries. The database ledger is never pruned; only the reporting mirror is.
func TrimMirrorLists() {
	if database.Redis == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var cursor uint64
	for {
		keys, next, err := database.Redis.Scan(ctx, cursor, "merchant:*:ledger", 100).Result()
		if err != nil {
			logger.Log.WithError(err).Warn("mirror list scan failed")
			return
		}

		for _, key := range keys {
			if err := database.Redis.LTrim(ctx, key, 0, mirrorListMax-1).Err(); err != nil {
				logger.Log.WithError(err).WithField("key", key).Warn("failed to trim mirror list")
			}
		}

		cursor = next
		if cursor == 0 {
			return
		}
	}
}
