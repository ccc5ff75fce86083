package notify

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectBridgeVersion(t *testing.T) {
	tests := []struct {
		userAgent string
		version   string
		embedded  bool
	}{
		{"Mozilla/5.0 (Linux; Android 13) FoodcourtVendor/1.5.2", "1.5.2", true},
		{"FoodcourtVendor/1.4.0 (Android 13)", "1.4.0", true},
		{"FoodcourtVendor/2.0.1;wv", "2.0.1", true},
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/117.0", "", false},
		{"FoodcourtVendor/", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		version, embedded := DetectBridgeVersion(tt.userAgent)
		assert.Equal(t, tt.version, version, tt.userAgent)
		assert.Equal(t, tt.embedded, embedded, tt.userAgent)
	}
}

func TestBridgeSupported(t *testing.T) {
	assert.True(t, BridgeSupported("FoodcourtVendor/1.4.0"))
	assert.True(t, BridgeSupported("Mozilla/5.0 FoodcourtVendor/1.5.2 (Android 13)"))
	assert.False(t, BridgeSupported("FoodcourtVendor/1.3.9"), "below the minimum version")
	assert.False(t, BridgeSupported("FoodcourtVendor/banana"), "unparseable version")
	assert.False(t, BridgeSupported("Mozilla/5.0 (X11; Linux x86_64) Firefox/117.0"))
}

func TestBridgeForSelectsImplementation(t *testing.T) {
	browser := BridgeFor("Mozilla/5.0 (X11; Linux x86_64) Firefox/117.0", t.TempDir())
	assert.False(t, browser.IsEmbedded())
	assert.Empty(t, browser.AppVersion())
	_, err := browser.SaveFile("a.pdf", []byte("x"))
	assert.Error(t, err)
	assert.Error(t, browser.OpenExternal("https://example.com"))

	outdated := BridgeFor("FoodcourtVendor/1.3.9", t.TempDir())
	assert.False(t, outdated.IsEmbedded())

	wrapper := BridgeFor("FoodcourtVendor/1.5.2 (Android 13)", t.TempDir())
	require.True(t, wrapper.IsEmbedded())
	assert.Equal(t, "1.5.2", wrapper.AppVersion())
}

func TestWrapperBridgeSaveFile(t *testing.T) {
	dir := t.TempDir()
	bridge := &WrapperBridge{Version: "1.5.0", FileDir: dir}

	path, err := bridge.SaveFile("INV-2024-00042.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "INV-2024-00042.pdf"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	// path segments in the name must not escape the pickup directory
	path, err = bridge.SaveFile("../../evil.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evil.pdf"), path)

	_, err = bridge.SaveFile("", []byte("x"))
	assert.Error(t, err)
}

func TestWrapperBridgeOpenExternal(t *testing.T) {
	bridge := &WrapperBridge{Version: "1.5.0", FileDir: t.TempDir()}

	assert.NoError(t, bridge.OpenExternal("https://pay.example.com/checkout"))
	assert.NoError(t, bridge.OpenExternal("http://example.com"))
	assert.NoError(t, bridge.OpenExternal("upi://pay?pa=stall@upi&am=120.00"))
	assert.Error(t, bridge.OpenExternal("javascript:alert(1)"))
	assert.Error(t, bridge.OpenExternal("file:///etc/passwd"))
}

func TestExchangeResolveBeforeAwait(t *testing.T) {
	e := NewExchange()
	id := e.Begin()

	require.True(t, e.Resolve(id, "push-token-1"))

	value, err := e.Await(context.Background(), id, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "push-token-1", value)

	// the request is single use
	_, err = e.Await(context.Background(), id, time.Second)
	assert.Error(t, err)
}

func TestExchangeAwaitThenResolve(t *testing.T) {
	e := NewExchange()
	id := e.Begin()

	go func() {
		time.Sleep(10 * time.Millisecond)
		e.Resolve(id, "push-token-2")
	}()

	value, err := e.Await(context.Background(), id, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "push-token-2", value)
}

func TestExchangeTimeout(t *testing.T) {
	e := NewExchange()
	id := e.Begin()

	_, err := e.Await(context.Background(), id, 10*time.Millisecond)
	require.ErrorIs(t, err, ErrExchangeTimeout)

	// the wrapper calling back after the timeout is a no-op
	assert.False(t, e.Resolve(id, "too-late"))
}

func TestExchangeDoubleResolve(t *testing.T) {
	e := NewExchange()
	id := e.Begin()

	assert.True(t, e.Resolve(id, "first"))
	assert.False(t, e.Resolve(id, "second"))

	value, err := e.Await(context.Background(), id, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "first", value)
}

func TestExchangeUnknownID(t *testing.T) {
	e := NewExchange()

	assert.False(t, e.Resolve("nope", "value"))
	_, err := e.Await(context.Background(), "nope", time.Second)
	assert.Error(t, err)
}

func TestExchangeCancel(t *testing.T) {
	e := NewExchange()
	id := e.Begin()
	e.Cancel(id)

	assert.False(t, e.Resolve(id, "value"))
}

func TestExchangeContextCancellation(t *testing.T) {
	e := NewExchange()
	id := e.Begin()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := e.Await(ctx, id, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}
