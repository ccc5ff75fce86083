package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"foodcourt/internal/backend"
	"foodcourt/internal/types"
)

// CartTotals is the aggregation the cart page and checkout share. All money
// fields are fixed two-decimal strings.
type CartTotals struct {
	ItemCount       int    `json:"item_count"`
	Subtotal        string `json:"subtotal"`
	PackagingCharge string `json:"packaging_charge"`
	ServiceCharge   string `json:"service_charge"`
	GrandTotal      string `json:"grand_total"`
}

// ComputeTotals aggregates a cart with decimal arithmetic. Vendor settings
// contribute a flat packaging charge and a percentage service charge; nil
// settings means neither applies.
func ComputeTotals(cart *types.Cart, settings *backend.VendorSettings) (*CartTotals, error) {
	totals := &CartTotals{
		Subtotal:        "0.00",
		PackagingCharge: "0.00",
		ServiceCharge:   "0.00",
		GrandTotal:      "0.00",
	}
	if cart == nil || len(cart.Lines) == 0 {
		return totals, nil
	}

	subtotal := decimal.Zero
	for _, line := range cart.Lines {
		price, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line %s has unparseable price %q: %w", line.ItemID, line.UnitPrice, err)
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		totals.ItemCount += line.Quantity
	}

	packaging := decimal.Zero
	service := decimal.Zero
	if settings != nil {
		if settings.PackagingCharge != "" {
			p, err := decimal.NewFromString(settings.PackagingCharge)
			if err != nil {
				return nil, fmt.Errorf("vendor packaging charge %q: %w", settings.PackagingCharge, err)
			}
			packaging = p
		}
		if settings.ServicePercent != "" {
			pct, err := decimal.NewFromString(settings.ServicePercent)
			if err != nil {
				return nil, fmt.Errorf("vendor service percent %q: %w", settings.ServicePercent, err)
			}
			service = subtotal.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
		}
	}

	totals.Subtotal = subtotal.StringFixed(2)
	totals.PackagingCharge = packaging.StringFixed(2)
	totals.ServiceCharge = service.StringFixed(2)
	totals.GrandTotal = subtotal.Add(packaging).Add(service).StringFixed(2)
	return totals, nil
}
