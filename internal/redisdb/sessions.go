package redisdb

import (
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionStore is the payment session persistence seam. Keys come in already
// prefixed, values are session JSON.
type SessionStore struct{}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Get(key string) (string, error) {
	val, err := redisClient.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		log.Printf("redisClient.rdb.Get %s, err: %s", key, err.Error())
		return "", err
	}
	return val, nil
}

func (s *SessionStore) Set(key, value string, expiration time.Duration) error {
	err := redisClient.rdb.Set(ctx, key, value, expiration).Err()
	if err != nil {
		log.Printf("redisClient.rdb.Set %s, err: %s", key, err.Error())
		return err
	}
	return nil
}

func (s *SessionStore) Del(key string) error {
	err := redisClient.rdb.Del(ctx, key).Err()
	if err != nil {
		log.Printf("redisClient.rdb.Del %s, err: %s", key, err.Error())
		return err
	}
	return nil
}
