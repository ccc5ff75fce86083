package qr

import (
	"encoding/base64"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestPNGProducesImage(t *testing.T) {
	png, err := PNG("https://order.foodcourt.local/menu/vendor-7?table=t12", 0)
	assert.NilError(t, err)
	assert.Assert(t, len(png) > len(pngMagic))
	assert.DeepEqual(t, png[:len(pngMagic)], pngMagic)
}

func TestPNGRejectsEmptyContent(t *testing.T) {
	_, err := PNG("", 256)
	assert.ErrorContains(t, err, "empty")
}

func TestDataURIDecodesBackToPNG(t *testing.T) {
	uri, err := DataURI("upi://pay?pa=chaat@upi", 128)
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	assert.NilError(t, err)
	assert.DeepEqual(t, raw[:len(pngMagic)], pngMagic)
}

func TestUPIIntentEscapesFields(t *testing.T) {
	got := UPIIntent("chaat@upi", "Chaat Corner", "150.00", "Order ORD1001")
	assert.Equal(t, got, "upi://pay?pa=chaat%40upi&pn=Chaat+Corner&am=150.00&cu=INR&tn=Order+ORD1001")
}

func TestUPIQRRequiresVPA(t *testing.T) {
	_, err := UPIQR("", "Chaat Corner", "150.00", "", 0)
	assert.ErrorContains(t, err, "vpa")
}

func TestMenuQRRendersLink(t *testing.T) {
	png, err := MenuQR("vendor-7", "t12", 64)
	assert.NilError(t, err)
	assert.DeepEqual(t, png[:len(pngMagic)], pngMagic)

	_, err = MenuQR("", "t12", 64)
	assert.ErrorContains(t, err, "vendor id")
}
