package redisdb

import (
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/golang/glog"
	"golang.org/x/net/context"
)

type Client struct {
	rdb *redis.Client
}

var (
	redisClient *Client
	ctx         = context.Background()
)

func Init() error {
	redisDbNumberStr := os.Getenv("REDIS_DB_NUMBER")

	redisDbNumber, errAtoi := strconv.Atoi(redisDbNumberStr)
	if errAtoi != nil {
		glog.Errorf("Error converting REDIS_DB_NUMBER to int: %v", errAtoi)
		return errAtoi
	}

	redisClient = &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDbNumber,
		}),
	}

	// Test connection
	_, err := redisClient.rdb.Ping(ctx).Result()
	if err != nil {
		glog.Errorf("Redis connection error: %s", err.Error())
		return err
	}

	return nil
}

// Initialized reports whether Init has been called successfully. Sandbox mode
// runs without Redis and every store falls back to memory.
func Initialized() bool {
	return redisClient != nil
}
