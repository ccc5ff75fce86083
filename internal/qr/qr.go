package qr

import (
	"encoding/base64"
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"

	"foodcourt/internal/constants"
	"foodcourt/internal/menu"
)

// DefaultSize is the pixel width used when callers pass size <= 0. Table
// tent cards print at this size without scaling artifacts.
const DefaultSize = 256

// PNG renders content as a QR code image.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

// DataURI renders content as an inline-able image for the dashboard.
func DataURI(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// MenuQR renders the public menu link for a vendor table.
func MenuQR(vendorID, tableID string, size int) ([]byte, error) {
	if vendorID == "" {
		return nil, fmt.Errorf("vendor id is empty")
	}
	return PNG(menu.PublicLink(vendorID, tableID), size)
}

// UPIIntent builds a upi://pay deep link. Every field is query-escaped, the
// currency is fixed to INR.
func UPIIntent(vpa, payeeName, amount, note string) string {
	return fmt.Sprintf(constants.UPIIntentTempl,
		url.QueryEscape(vpa),
		url.QueryEscape(payeeName),
		url.QueryEscape(amount),
		url.QueryEscape(note))
}

// UPIQR renders a scan-to-pay code for counter payments. High recovery level
// because these get laminated and scratched.
func UPIQR(vpa, payeeName, amount, note string, size int) ([]byte, error) {
	if vpa == "" {
		return nil, fmt.Errorf("vendor vpa is empty")
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(UPIIntent(vpa, payeeName, amount, note), qrcode.High, size)
}
