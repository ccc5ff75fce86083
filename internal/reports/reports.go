package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/golang/glog"
	"github.com/shopspring/decimal"
	"github.com/thoas/go-funk"

	"foodcourt/internal/backend"
)

// Settlement row statuses the core API reports.
const (
	SettlementSettled  = "settled"
	SettlementRefunded = "refunded"
	SettlementPending  = "pending"
)

// DayRevenue is one point of the per-day series.
type DayRevenue struct {
	Date  string `json:"date"`
	Gross string `json:"gross"`
	Count int    `json:"count"`
}

// RevenueReport is the dashboard aggregation of one vendor's settlements.
// Gross counts everything that came in (settled + refunded), Net is what the
// vendor keeps after refunds. Pending rows are excluded from both.
type RevenueReport struct {
	VendorID     string            `json:"vendor_id"`
	From         string            `json:"from"`
	To           string            `json:"to"`
	Gross        string            `json:"gross"`
	Refunded     string            `json:"refunded"`
	Net          string            `json:"net"`
	PaymentTypes map[string]string `json:"payment_types"`
	Days         []DayRevenue      `json:"days"`
	RowCount     int               `json:"row_count"`
}

// Revenue fetches settlements for a period and aggregates them.
func Revenue(vendorID, from, to, token string) (*RevenueReport, error) {
	str, err := backend.Settlements(vendorID, from, to, token)
	if err != nil {
		return nil, err
	}
	rows, err := backend.ParseSettlements(str)
	if err != nil {
		return nil, err
	}
	return Aggregate(vendorID, from, to, rows)
}

// Aggregate folds settlement rows into a revenue report.
func Aggregate(vendorID, from, to string, rows []backend.SettlementRow) (*RevenueReport, error) {
	report := &RevenueReport{
		VendorID:     vendorID,
		From:         from,
		To:           to,
		Gross:        "0.00",
		Refunded:     "0.00",
		Net:          "0.00",
		PaymentTypes: map[string]string{},
	}

	counted := funk.Filter(rows, func(row backend.SettlementRow) bool {
		return funk.Contains([]string{SettlementSettled, SettlementRefunded}, row.Status)
	}).([]backend.SettlementRow)

	gross := decimal.Zero
	refunded := decimal.Zero
	byType := map[string]decimal.Decimal{}
	byDay := map[string]*DayRevenue{}
	dayGross := map[string]decimal.Decimal{}

	for _, row := range counted {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("settlement %s has unparseable amount %q: %w", row.TransactionID, row.Amount, err)
		}
		gross = gross.Add(amount)
		if row.Status == SettlementRefunded {
			refunded = refunded.Add(amount)
		}
		byType[row.PaymentType] = byType[row.PaymentType].Add(amount)

		day, ok := settlementDay(row.SettledAt)
		if !ok {
			glog.Warningf("settlement %s has unparseable date %q", row.TransactionID, row.SettledAt)
			continue
		}
		if _, ok := byDay[day]; !ok {
			byDay[day] = &DayRevenue{Date: day}
		}
		byDay[day].Count++
		dayGross[day] = dayGross[day].Add(amount)
	}

	report.RowCount = len(counted)
	report.Gross = gross.StringFixed(2)
	report.Refunded = refunded.StringFixed(2)
	report.Net = gross.Sub(refunded).StringFixed(2)
	for paymentType, total := range byType {
		report.PaymentTypes[paymentType] = total.StringFixed(2)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		point := byDay[day]
		point.Gross = dayGross[day].StringFixed(2)
		report.Days = append(report.Days, *point)
	}
	return report, nil
}

// OverviewByVendor groups settlement rows by vendor and aggregates each
// group. Feeds the operator's cross-vendor view.
func OverviewByVendor(from, to string, rows []backend.SettlementRow) (map[string]*RevenueReport, error) {
	overview := make(map[string]*RevenueReport)
	for vendorID, vendorRows := range backend.ConvertSettlementsToVendorMap(rows) {
		report, err := Aggregate(vendorID, from, to, vendorRows)
		if err != nil {
			return nil, err
		}
		overview[vendorID] = report
	}
	return overview, nil
}

func settlementDay(settledAt string) (string, bool) {
	if t, err := time.Parse(time.RFC3339, settledAt); err == nil {
		return t.Format("2006-01-02"), true
	}
	if t, err := time.Parse("2006-01-02", settledAt); err == nil {
		return t.Format("2006-01-02"), true
	}
	return "", false
}

// SettlementCSV renders rows for spreadsheet export.
func SettlementCSV(rows []backend.SettlementRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"transaction_id", "order_id", "amount", "payment_type", "status", "utr", "settled_at"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{row.TransactionID, row.OrderID, row.Amount, row.PaymentType, row.Status, row.UTR, row.SettledAt}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
