package redisdb

import (
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"foodcourt/internal/constants"
)

const menuCacheTTL = 5 * time.Minute

func menuKey(vendorID string) string {
	return constants.RedisKeyMenuPrefix + vendorID
}

// SetCachedMenu stores the raw menu JSON exactly as the core API returned it.
func SetCachedMenu(vendorID, raw string) error {
	err := redisClient.rdb.Set(ctx, menuKey(vendorID), raw, menuCacheTTL).Err()
	if err != nil {
		log.Printf("redisClient.rdb.Set %s, err: %s", vendorID, err.Error())
		return err
	}
	return nil
}

func GetCachedMenu(vendorID string) (string, bool) {
	val, err := redisClient.rdb.Get(ctx, menuKey(vendorID)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("redisClient.rdb.Get %s, err: %s", vendorID, err.Error())
		return "", false
	}
	return val, true
}

func DropCachedMenu(vendorID string) error {
	err := redisClient.rdb.Del(ctx, menuKey(vendorID)).Err()
	if err != nil {
		log.Printf("redisClient.rdb.Del %s, err: %s", vendorID, err.Error())
		return err
	}
	return nil
}
