package invoice

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/backend"
	"foodcourt/internal/constants"
	"foodcourt/internal/history"
	"foodcourt/internal/payment"
	"foodcourt/internal/types"
)

type fakeSource struct {
	records  []*history.PaymentRecord
	lastCond *history.QueryCondition
}

func (f *fakeSource) QueryRecords(condition *history.QueryCondition) ([]*history.PaymentRecord, error) {
	f.lastCond = condition
	return f.records, nil
}

func settledRecord(txnID string) *history.PaymentRecord {
	extended, _ := json.Marshal(types.PaymentResolvedUpdate{
		TransactionID: txnID,
		PayerName:     "A Payer",
		VPA:           "payer@upi",
	})
	return &history.PaymentRecord{
		Type:          history.TypePaymentResolved,
		TransactionID: txnID,
		OrderID:       "ORD1001",
		VendorID:      "vendor-7",
		Status:        string(payment.StatusSuccess),
		PaymentType:   "order",
		Amount:        "150",
		UTR:           "UTR9",
		Time:          time.Date(2024, 5, 12, 10, 30, 0, 0, time.UTC).Unix(),
		Extended:      string(extended),
	}
}

func profileTestServer(t *testing.T) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&backend.VendorProfile{
			VendorID: "vendor-7",
			Name:     "Chaat Corner",
			VPA:      "chaat@upi",
			Address:  "Stall 12, Food Court",
			GSTIN:    "29ABCDE1234F1Z5",
		})
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	t.Setenv(constants.CoreHostEnv, u.Hostname())
	t.Setenv(constants.CorePortEnv, u.Port())
}

func TestNextNumberMonotonicPerVendor(t *testing.T) {
	m := NewManager(nil)

	first, err := m.NextNumber("vendor-7")
	require.NoError(t, err)
	second, err := m.NextNumber("vendor-7")
	require.NoError(t, err)
	third, err := m.NextNumber("vendor-7")
	require.NoError(t, err)

	assert.Equal(t, "FC-vendor-7-00001", first)
	assert.Equal(t, "FC-vendor-7-00002", second)
	assert.Equal(t, "FC-vendor-7-00003", third)

	other, err := m.NextNumber("vendor-8")
	require.NoError(t, err)
	assert.Equal(t, "FC-vendor-8-00001", other, "counters are per vendor")
}

func TestBuildInvoiceFromRecord(t *testing.T) {
	m := NewManager(nil)
	profile := &backend.VendorProfile{Name: "Chaat Corner", VPA: "chaat@upi", GSTIN: "29ABCDE1234F1Z5"}

	inv, err := m.Build(settledRecord("TXN1"), profile)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.Number, "FC-vendor-7-"))
	assert.Equal(t, "150.00", inv.Total, "amount is normalized to two decimals")
	assert.Equal(t, "Chaat Corner", inv.Seller.Name)
	assert.Equal(t, "A Payer", inv.Buyer.Name)
	assert.Equal(t, "payer@upi", inv.Buyer.VPA)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Order ORD1001", inv.Lines[0].Description)
	assert.Equal(t, "150.00", inv.Lines[0].Total)
	assert.Equal(t, "UTR9", inv.UTR)
}

func TestBuildRejectsUnsettledRecord(t *testing.T) {
	m := NewManager(nil)
	record := settledRecord("TXN2")
	record.Status = string(payment.StatusFailure)

	_, err := m.Build(record, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not settled")
}

func TestBuildRejectsBadAmount(t *testing.T) {
	m := NewManager(nil)
	record := settledRecord("TXN3")
	record.Amount = "one fifty"

	_, err := m.Build(record, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable amount")
}

func TestBuildSubscriptionDescription(t *testing.T) {
	m := NewManager(nil)
	record := settledRecord("TXN4")
	record.OrderID = ""
	record.PaymentType = payment.PaymentTypeSubscription

	inv, err := m.Build(record, nil)
	require.NoError(t, err)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Vendor subscription fee", inv.Lines[0].Description)
}

func TestRenderPDFMagic(t *testing.T) {
	m := NewManager(nil)
	inv, err := m.Build(settledRecord("TXN5"), &backend.VendorProfile{Name: "Chaat Corner"})
	require.NoError(t, err)

	pdf, err := RenderPDF(inv)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "rendered bytes start with the PDF magic")
}

func TestForTransaction(t *testing.T) {
	profileTestServer(t)
	source := &fakeSource{records: []*history.PaymentRecord{settledRecord("TXN6")}}
	m := NewManager(source)

	inv, pdf, err := m.ForTransaction("vendor-7", "TXN6", "token-1")
	require.NoError(t, err)
	assert.Equal(t, "TXN6", inv.TransactionID)
	assert.Equal(t, "Chaat Corner", inv.Seller.Name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	require.NotNil(t, source.lastCond)
	assert.Equal(t, "TXN6", source.lastCond.TransactionID)
	assert.Equal(t, history.TypePaymentResolved, source.lastCond.Type)
}

func TestForTransactionWithoutRecord(t *testing.T) {
	profileTestServer(t)
	m := NewManager(&fakeSource{})

	_, _, err := m.ForTransaction("vendor-7", "TXN404", "token-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no settled payment")
}

func TestExportRangeBundlesZip(t *testing.T) {
	profileTestServer(t)
	source := &fakeSource{records: []*history.PaymentRecord{settledRecord("TXN7"), settledRecord("TXN8")}}
	m := NewManager(source)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)
	dstDir := t.TempDir()

	path, err := m.ExportRange("vendor-7", "token-1", from, to, dstDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dstDir, "invoices-vendor-7-20240501-20240531.zip"), path)

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	require.Len(t, reader.File, 2)
	for _, f := range reader.File {
		assert.True(t, strings.HasPrefix(f.Name, "FC-vendor-7-"))
		assert.True(t, strings.HasSuffix(f.Name, ".pdf"))
	}

	require.NotNil(t, source.lastCond)
	assert.Equal(t, string(payment.StatusSuccess), source.lastCond.Status)
	assert.Equal(t, from.Unix(), source.lastCond.StartTime)
}

func TestExportRangeWithoutRecords(t *testing.T) {
	profileTestServer(t)
	m := NewManager(&fakeSource{})

	_, err := m.ExportRange("vendor-7", "token-1", time.Now().Add(-time.Hour), time.Now(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no settled payments")
}
