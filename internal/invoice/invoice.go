package invoice

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/shopspring/decimal"

	"foodcourt/internal/backend"
	"foodcourt/internal/history"
	"foodcourt/internal/payment"
	"foodcourt/internal/redisdb"
	"foodcourt/internal/types"
	"foodcourt/pkg/utils"
)

// Invoice is the printable view of one settled payment.
type Invoice struct {
	Number        string    `json:"number"`
	IssuedAt      time.Time `json:"issued_at"`
	Seller        Party     `json:"seller"`
	Buyer         Party     `json:"buyer"`
	OrderID       string    `json:"order_id,omitempty"`
	TransactionID string    `json:"transaction_id"`
	PaymentType   string    `json:"payment_type"`
	UTR           string    `json:"utr,omitempty"`
	Lines         []Line    `json:"lines"`
	Total         string    `json:"total"`
}

type Party struct {
	Name    string `json:"name"`
	VPA     string `json:"vpa,omitempty"`
	Address string `json:"address,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
}

type Line struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Total       string `json:"total"`
}

// RecordSource is the slice of the history module invoices read from.
type RecordSource interface {
	QueryRecords(condition *history.QueryCondition) ([]*history.PaymentRecord, error)
}

// Manager assigns invoice numbers and assembles invoices from history rows.
// Sequence counters live in redis; sandbox runs count in memory.
type Manager struct {
	source RecordSource

	mu     sync.Mutex
	memSeq map[string]int64
}

func NewManager(source RecordSource) *Manager {
	return &Manager{
		source: source,
		memSeq: make(map[string]int64),
	}
}

// NextNumber reserves the next invoice number for a vendor.
func (m *Manager) NextNumber(vendorID string) (string, error) {
	if vendorID == "" {
		return "", fmt.Errorf("vendor id is empty")
	}
	var seq int64
	if redisdb.Initialized() {
		n, err := redisdb.NextInvoiceSeq(vendorID)
		if err != nil {
			return "", err
		}
		seq = n
	} else {
		m.mu.Lock()
		m.memSeq[vendorID]++
		seq = m.memSeq[vendorID]
		m.mu.Unlock()
	}
	return fmt.Sprintf("FC-%s-%05d", vendorID, seq), nil
}

// Build assembles an invoice from a settled payment record and the vendor
// profile. Only successful payments are invoiceable.
func (m *Manager) Build(record *history.PaymentRecord, profile *backend.VendorProfile) (*Invoice, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}
	if record.Status != string(payment.StatusSuccess) {
		return nil, fmt.Errorf("transaction '%s' is not settled, status %s", record.TransactionID, record.Status)
	}
	amount, err := decimal.NewFromString(record.Amount)
	if err != nil {
		return nil, fmt.Errorf("record %s has unparseable amount %q: %w", record.TransactionID, record.Amount, err)
	}

	number, err := m.NextNumber(record.VendorID)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		Number:        number,
		IssuedAt:      time.Unix(record.Time, 0),
		OrderID:       record.OrderID,
		TransactionID: record.TransactionID,
		PaymentType:   record.PaymentType,
		UTR:           record.UTR,
		Total:         amount.StringFixed(2),
	}
	if profile != nil {
		inv.Seller = Party{
			Name:    profile.Name,
			VPA:     profile.VPA,
			Address: profile.Address,
			GSTIN:   profile.GSTIN,
		}
	}

	inv.Buyer = Party{Name: "Customer"}
	if record.Extended != "" {
		var update types.PaymentResolvedUpdate
		if err := json.Unmarshal([]byte(record.Extended), &update); err != nil {
			glog.Warningf("json.Unmarshal %s, err:%s", record.Extended, err.Error())
		} else {
			if update.PayerName != "" {
				inv.Buyer.Name = update.PayerName
			}
			inv.Buyer.VPA = update.VPA
		}
	}

	description := "Payment"
	switch {
	case record.PaymentType == payment.PaymentTypeSubscription:
		description = "Vendor subscription fee"
	case record.OrderID != "":
		description = "Order " + record.OrderID
	}
	inv.Lines = []Line{{
		Description: description,
		Quantity:    1,
		UnitPrice:   inv.Total,
		Total:       inv.Total,
	}}
	return inv, nil
}

// ForTransaction builds and renders the invoice for one transaction.
func (m *Manager) ForTransaction(vendorID, transactionID, token string) (*Invoice, []byte, error) {
	if m.source == nil {
		return nil, nil, fmt.Errorf("history is not configured")
	}
	records, err := m.source.QueryRecords(&history.QueryCondition{
		VendorID:      vendorID,
		TransactionID: transactionID,
		Type:          history.TypePaymentResolved,
		Limit:         1,
	})
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no settled payment for transaction '%s'", transactionID)
	}

	profile, err := m.vendorProfile(vendorID, token)
	if err != nil {
		return nil, nil, err
	}
	inv, err := m.Build(records[0], profile)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := RenderPDF(inv)
	if err != nil {
		return nil, nil, err
	}
	return inv, pdf, nil
}

// exportQueryLimit caps one export bundle. Date ranges wider than this need
// to be split by the caller.
const exportQueryLimit = 500

// ExportRange renders every settled payment in [from, to] to PDF and bundles
// them into a zip under dstDir. It returns the archive path.
func (m *Manager) ExportRange(vendorID, token string, from, to time.Time, dstDir string) (string, error) {
	if m.source == nil {
		return "", fmt.Errorf("history is not configured")
	}
	records, err := m.source.QueryRecords(&history.QueryCondition{
		VendorID:  vendorID,
		Type:      history.TypePaymentResolved,
		Status:    string(payment.StatusSuccess),
		StartTime: from.Unix(),
		EndTime:   to.Unix(),
		Limit:     exportQueryLimit,
	})
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("no settled payments for vendor '%s' between %s and %s",
			vendorID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	profile, err := m.vendorProfile(vendorID, token)
	if err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "fc-invoices-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	files := make([]string, 0, len(records))
	for _, record := range records {
		inv, err := m.Build(record, profile)
		if err != nil {
			glog.Warningf("skip record %s: %s", record.TransactionID, err.Error())
			continue
		}
		pdf, err := RenderPDF(inv)
		if err != nil {
			return "", err
		}
		file := filepath.Join(tmpDir, inv.Number+".pdf")
		if err := os.WriteFile(file, pdf, 0644); err != nil {
			return "", err
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no invoiceable records for vendor '%s'", vendorID)
	}

	if err := utils.CheckDir(dstDir); err != nil {
		return "", err
	}
	dst := filepath.Join(dstDir, fmt.Sprintf("invoices-%s-%s-%s.zip",
		vendorID, from.Format("20060102"), to.Format("20060102")))
	if err := utils.Archive(files, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (m *Manager) vendorProfile(vendorID, token string) (*backend.VendorProfile, error) {
	str, err := backend.Profile(vendorID, token)
	if err != nil {
		return nil, fmt.Errorf("vendor profile for invoice: %w", err)
	}
	return backend.ParseProfile(str)
}
