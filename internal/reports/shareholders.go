package reports

import (
	"fmt"

	"github.com/shopspring/decimal"

	"foodcourt/internal/backend"
)

// ShareholderStatement is one holder's cut of a vendor's net revenue.
type ShareholderStatement struct {
	Name    string `json:"name"`
	Percent string `json:"percent"`
	Amount  string `json:"amount"`
}

var hundred = decimal.NewFromInt(100)

// ShareholderStatements apportions net revenue by the profile's share
// percentages. Percentages must sum to exactly 100. Each cut is truncated to
// two decimals and the leftover paise go to the largest holder, so the
// statements always add back up to the net amount.
func ShareholderStatements(profile *backend.VendorProfile, net string) ([]ShareholderStatement, error) {
	netAmount, err := decimal.NewFromString(net)
	if err != nil {
		return nil, fmt.Errorf("net amount %q: %w", net, err)
	}

	if len(profile.Shareholders) == 0 {
		return []ShareholderStatement{{
			Name:    profile.Name,
			Percent: "100",
			Amount:  netAmount.StringFixed(2),
		}}, nil
	}

	percents := make([]decimal.Decimal, len(profile.Shareholders))
	total := decimal.Zero
	largest := 0
	for i, holder := range profile.Shareholders {
		pct, err := decimal.NewFromString(holder.Percent)
		if err != nil {
			return nil, fmt.Errorf("shareholder '%s' percent %q: %w", holder.Name, holder.Percent, err)
		}
		if pct.IsNegative() {
			return nil, fmt.Errorf("shareholder '%s' has a negative share", holder.Name)
		}
		percents[i] = pct
		total = total.Add(pct)
		if pct.GreaterThan(percents[largest]) {
			largest = i
		}
	}
	if !total.Equal(hundred) {
		return nil, fmt.Errorf("share percentages sum to %s, want 100", total.String())
	}

	statements := make([]ShareholderStatement, len(profile.Shareholders))
	assigned := decimal.Zero
	amounts := make([]decimal.Decimal, len(profile.Shareholders))
	for i, holder := range profile.Shareholders {
		cut := netAmount.Mul(percents[i]).Div(hundred).Truncate(2)
		amounts[i] = cut
		assigned = assigned.Add(cut)
		statements[i] = ShareholderStatement{Name: holder.Name, Percent: holder.Percent}
	}

	// ties keep the first holder, profile order is stable
	remainder := netAmount.Sub(assigned)
	amounts[largest] = amounts[largest].Add(remainder)

	for i := range statements {
		statements[i].Amount = amounts[i].StringFixed(2)
	}
	return statements, nil
}
