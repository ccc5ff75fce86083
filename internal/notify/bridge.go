package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"foodcourt/pkg/utils"
)

// HostBridge is the capability surface an embedding wrapper app offers the
// dashboard. Handlers receive it per request, nothing reaches for globals.
type HostBridge interface {
	IsEmbedded() bool
	AppVersion() string
	SaveFile(name string, data []byte) (string, error)
	OpenExternal(url string) error
}

const bridgeUAToken = "FoodcourtVendor/"

// MinBridgeVersion is the oldest wrapper the dashboard still talks to.
// Older wrappers miss the push-token callback endpoint.
const MinBridgeVersion = "1.4.0"

// DetectBridgeVersion extracts the wrapper version from a User-Agent header.
func DetectBridgeVersion(userAgent string) (string, bool) {
	idx := strings.Index(userAgent, bridgeUAToken)
	if idx < 0 {
		return "", false
	}
	version := userAgent[idx+len(bridgeUAToken):]
	if cut := strings.IndexAny(version, " ;()"); cut >= 0 {
		version = version[:cut]
	}
	if version == "" {
		return "", false
	}
	return version, true
}

// BridgeSupported reports whether the request comes from a wrapper the
// dashboard supports.
func BridgeSupported(userAgent string) bool {
	version, ok := DetectBridgeVersion(userAgent)
	if !ok {
		return false
	}
	return utils.AtLeast(version, MinBridgeVersion)
}

// BridgeFor builds the bridge for one request. Plain browsers get NoBridge.
func BridgeFor(userAgent, fileDir string) HostBridge {
	version, ok := DetectBridgeVersion(userAgent)
	if !ok || !utils.AtLeast(version, MinBridgeVersion) {
		return NoBridge{}
	}
	return &WrapperBridge{Version: version, FileDir: fileDir}
}

// NoBridge is the browser case, nothing host-side is available.
type NoBridge struct{}

func (NoBridge) IsEmbedded() bool   { return false }
func (NoBridge) AppVersion() string { return "" }

func (NoBridge) SaveFile(name string, data []byte) (string, error) {
	return "", fmt.Errorf("not embedded, downloads go through the browser")
}

func (NoBridge) OpenExternal(url string) error {
	return fmt.Errorf("not embedded, links open in the browser")
}

// WrapperBridge backs requests from the vendor wrapper app. Saved files land
// in FileDir where the wrapper picks them up.
type WrapperBridge struct {
	Version string
	FileDir string
}

func (b *WrapperBridge) IsEmbedded() bool   { return true }
func (b *WrapperBridge) AppVersion() string { return b.Version }

func (b *WrapperBridge) SaveFile(name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name is empty")
	}
	if err := utils.CheckDir(b.FileDir); err != nil {
		return "", err
	}
	path := filepath.Join(b.FileDir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (b *WrapperBridge) OpenExternal(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https", "upi":
		return nil
	}
	return fmt.Errorf("scheme '%s' is not allowed", u.Scheme)
}

// ErrExchangeTimeout is returned when the wrapper never calls back.
var ErrExchangeTimeout = errors.New("bridge exchange timed out")

// DefaultExchangeTimeout bounds the push-token handoff.
const DefaultExchangeTimeout = 15 * time.Second

type pendingExchange struct {
	ch       chan string
	resolved bool
}

// Exchange is a single-shot request/response channel between the dashboard
// and the wrapper. Begin hands an id to the wrapper, the wrapper posts the
// value back, Await picks it up exactly once.
type Exchange struct {
	mu      sync.Mutex
	pending map[string]*pendingExchange
}

func NewExchange() *Exchange {
	return &Exchange{pending: make(map[string]*pendingExchange)}
}

// Begin registers a new request and returns its id.
func (e *Exchange) Begin() string {
	id := uuid.NewString()
	e.mu.Lock()
	e.pending[id] = &pendingExchange{ch: make(chan string, 1)}
	e.mu.Unlock()
	return id
}

// Await blocks until the request resolves, the timeout fires, or ctx is
// canceled. The request is dropped on return, late resolutions are no-ops.
func (e *Exchange) Await(ctx context.Context, id string, timeout time.Duration) (string, error) {
	e.mu.Lock()
	p, ok := e.pending[id]
	e.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("no pending exchange '%s'", id)
	}
	defer e.drop(id)

	if timeout <= 0 {
		timeout = DefaultExchangeTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case value := <-p.ch:
		return value, nil
	case <-timer.C:
		return "", ErrExchangeTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Resolve hands a value to the waiting request and reports whether this call
// was the one that resolved it. Second resolutions and unknown ids are no-ops.
func (e *Exchange) Resolve(id, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.pending[id]
	if !ok || p.resolved {
		return false
	}
	p.resolved = true
	p.ch <- value
	return true
}

// Cancel drops a pending request without resolving it.
func (e *Exchange) Cancel(id string) {
	e.drop(id)
}

func (e *Exchange) drop(id string) {
	e.mu.Lock()
	delete(e.pending, id)
	e.mu.Unlock()
}
