package redisdb

import (
	"encoding/json"
	"log"

	"foodcourt/internal/constants"
	"foodcourt/internal/types"
)

func deviceKey(vendorID string) string {
	return constants.RedisKeyDeviceTokenPrefix + vendorID
}

// RegisterDevice adds or refreshes a push target for a vendor. Tokens live in
// a hash keyed by the token string so re-registering is idempotent.
func RegisterDevice(vendorID string, device *types.DeviceToken) error {
	data, err := json.Marshal(device)
	if err != nil {
		return err
	}

	err = redisClient.rdb.HSet(ctx, deviceKey(vendorID), device.Token, data).Err()
	if err != nil {
		log.Printf("redisClient.rdb.HSet %s, err: %s", vendorID, err.Error())
		return err
	}
	return nil
}

func UnregisterDevice(vendorID, token string) error {
	err := redisClient.rdb.HDel(ctx, deviceKey(vendorID), token).Err()
	if err != nil {
		log.Printf("redisClient.rdb.HDel %s, err: %s", vendorID, err.Error())
		return err
	}
	return nil
}

func GetDevices(vendorID string) []*types.DeviceToken {
	data, err := redisClient.rdb.HGetAll(ctx, deviceKey(vendorID)).Result()
	if err != nil {
		log.Printf("redisClient.rdb.HGetAll %s, err: %s", vendorID, err.Error())
		return nil
	}

	var devices []*types.DeviceToken
	for token, item := range data {
		device := &types.DeviceToken{}
		err = json.Unmarshal([]byte(item), device)
		if err != nil {
			log.Printf("Failed to unmarshal device %s: %v", token, err)
			continue
		}
		devices = append(devices, device)
	}

	return devices
}
