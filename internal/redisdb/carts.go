package redisdb

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"foodcourt/internal/constants"
	"foodcourt/internal/types"
)

const cartTTL = 6 * time.Hour

func cartKey(cartID string) string {
	return constants.RedisKeyCartPrefix + cartID
}

func UpsertCart(cart *types.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	err = redisClient.rdb.Set(ctx, cartKey(cart.ID), data, cartTTL).Err()
	if err != nil {
		log.Printf("redisClient.rdb.Set %s, err: %s", cart.ID, err.Error())
		return err
	}
	return nil
}

func DelCart(cartID string) error {
	err := redisClient.rdb.Del(ctx, cartKey(cartID)).Err()
	if err != nil {
		log.Printf("redisClient.rdb.Del %s, err: %s", cartID, err.Error())
		return err
	}
	return nil
}

func GetCart(cartID string) (*types.Cart, error) {
	data, err := redisClient.rdb.Get(ctx, cartKey(cartID)).Result()
	if err != nil {
		log.Printf("redisClient.rdb.Get %s, err: %s", cartID, err.Error())
		return nil, fmt.Errorf("cart '%s' not exist", cartID)
	}

	cart := &types.Cart{}
	err = json.Unmarshal([]byte(data), cart)
	if err != nil {
		return nil, err
	}
	return cart, nil
}
