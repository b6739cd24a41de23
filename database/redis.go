package database

import (
	"context"
	"os"
	"strconv"

	"paygate/logger"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

// ConnectRedis initializes the reporting-mirror store. The mirror is
// best-effort: when Redis is unreachable the service keeps running and mirror
// writes are skipped.
func ConnectRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Log.WithError(err).Warn("redis connection failed, continuing without mirror store")
		return
	}

	Redis = rdb
	logger.Log.Info("connected to redis")
}
