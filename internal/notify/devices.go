package notify

import (
	"fmt"
	"sync"
	"time"

	"foodcourt/internal/redisdb"
	"foodcourt/internal/types"
)

// DeviceRegistry tracks push targets per vendor. Tokens live in a redis hash,
// sandbox runs keep them in memory.
type DeviceRegistry struct {
	mu     sync.Mutex
	memory map[string]map[string]*types.DeviceToken
}

func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{
		memory: make(map[string]map[string]*types.DeviceToken),
	}
}

// Register adds or refreshes a device token. Re-registering the same token
// just bumps RegisteredAt.
func (r *DeviceRegistry) Register(vendorID string, device types.DeviceToken) error {
	if vendorID == "" {
		return fmt.Errorf("vendor id is empty")
	}
	if device.Token == "" {
		return fmt.Errorf("device token is empty")
	}
	if device.Platform == "" {
		return fmt.Errorf("device platform is empty")
	}
	device.RegisteredAt = time.Now()

	if redisdb.Initialized() {
		return redisdb.RegisterDevice(vendorID, &device)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.memory[vendorID] == nil {
		r.memory[vendorID] = make(map[string]*types.DeviceToken)
	}
	r.memory[vendorID][device.Token] = &device
	return nil
}

// Unregister drops a token, it is not an error if the token is unknown.
func (r *DeviceRegistry) Unregister(vendorID, token string) error {
	if vendorID == "" || token == "" {
		return fmt.Errorf("vendor id and token are required")
	}
	if redisdb.Initialized() {
		return redisdb.UnregisterDevice(vendorID, token)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.memory[vendorID], token)
	return nil
}

// Devices lists a vendor's registered push targets.
func (r *DeviceRegistry) Devices(vendorID string) []*types.DeviceToken {
	if redisdb.Initialized() {
		return redisdb.GetDevices(vendorID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	devices := make([]*types.DeviceToken, 0, len(r.memory[vendorID]))
	for _, device := range r.memory[vendorID] {
		copied := *device
		devices = append(devices, &copied)
	}
	return devices
}
