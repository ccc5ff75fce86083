package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/cart"
	"foodcourt/internal/payment"
)

// queueVerifier replays a fixed sequence of verification results and then
// keeps repeating the last one.
type queueVerifier struct {
	mu        sync.Mutex
	calls     int
	snapshots []*payment.Snapshot
	errs      []error
}

func (v *queueVerifier) Verify(ctx context.Context, transactionID string) (*payment.Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	idx := v.calls
	v.calls++
	if idx >= len(v.snapshots) {
		idx = len(v.snapshots) - 1
	}
	return v.snapshots[idx], v.errs[idx]
}

func (v *queueVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

func (v *queueVerifier) reset(snapshots []*payment.Snapshot, errs []error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = 0
	v.snapshots = snapshots
	v.errs = errs
}

func pendingSnapshot() *payment.Snapshot {
	return &payment.Snapshot{Status: payment.StatusPending}
}

func successSnapshot(amount string) *payment.Snapshot {
	return &payment.Snapshot{
		Status: payment.StatusSuccess,
		Detail: &payment.TransactionDetail{Amount: amount, PaymentType: "order"},
	}
}

func newPaymentTestServer(verifier payment.Verifier) *Server {
	m := payment.NewManager(verifier, nil, nil, nil)
	m.SetPolling(2*time.Millisecond, 5)
	m.SetRedirectDelay(10 * time.Millisecond)
	return NewServer("0", m, cart.NewManager(nil, nil))
}

// paymentEnvelope is the handler response with the view model decoded.
type paymentEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    payment.ViewModel `json:"data"`
}

func doPayment(t *testing.T, s *Server, method, target string) (int, paymentEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var envelope paymentEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec.Code, envelope
}

func waitForPhase(t *testing.T, s *Server, sessionID string, phase payment.Phase) paymentEnvelope {
	t.Helper()
	var envelope paymentEnvelope
	require.Eventually(t, func() bool {
		_, envelope = doPayment(t, s, http.MethodGet, "/api/v2/payment/sessions/"+sessionID)
		return envelope.Data.Phase == phase
	}, 3*time.Second, 2*time.Millisecond)
	return envelope
}

func TestBeginSessionResolvesAfterPolling(t *testing.T) {
	verifier := &queueVerifier{
		snapshots: []*payment.Snapshot{pendingSnapshot(), pendingSnapshot(), successSnapshot("120.00")},
		errs:      []error{nil, nil, nil},
	}
	s := newPaymentTestServer(verifier)

	code, opened := doPayment(t, s, http.MethodPost,
		"/api/v2/payment/sessions?client_txn_id=TXN900&vendor_id=vendor-7&order_id=ord-1")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, opened.Success)
	assert.Equal(t, "Payment session opened", opened.Message)
	require.NotEmpty(t, opened.Data.SessionID)

	resolved := waitForPhase(t, s, opened.Data.SessionID, payment.PhaseResolved)
	assert.Equal(t, payment.StatusSuccess, resolved.Data.Status)
	assert.Equal(t, "Payment successful", resolved.Data.Headline)
	assert.Contains(t, resolved.Data.Actions, payment.ActionViewOrder)
	require.NotNil(t, resolved.Data.Txn)
	assert.Equal(t, "120.00", resolved.Data.Txn.Amount)
}

func TestBeginByPathUsesPathIdentifier(t *testing.T) {
	verifier := &queueVerifier{
		snapshots: []*payment.Snapshot{successSnapshot("45.50")},
		errs:      []error{nil},
	}
	s := newPaymentTestServer(verifier)

	code, opened := doPayment(t, s, http.MethodPost, "/api/v2/payment/status/TXN901")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, opened.Data.SessionID)

	resolved := waitForPhase(t, s, opened.Data.SessionID, payment.PhaseResolved)
	assert.Equal(t, payment.StatusSuccess, resolved.Data.Status)
	assert.Equal(t, 1, verifier.callCount())
}

func TestBeginWithRedirectErrorNeverCallsVerifier(t *testing.T) {
	verifier := &queueVerifier{
		snapshots: []*payment.Snapshot{pendingSnapshot()},
		errs:      []error{nil},
	}
	s := newPaymentTestServer(verifier)

	code, opened := doPayment(t, s, http.MethodPost, "/api/v2/payment/sessions?error=missing_txn_id")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, opened.Success, "settled sessions still open fine, the view carries the error")
	assert.Equal(t, payment.PhaseError, opened.Data.Phase)
	assert.Equal(t, payment.CodeMissingIdentifier, opened.Data.ErrorCode)
	assert.Equal(t, []string{payment.ActionBackToMenu}, opened.Data.Actions)
	assert.Equal(t, 0, verifier.callCount())

	// no id was ever known, so retry is refused
	retryCode, retried := doPayment(t, s, http.MethodPost,
		"/api/v2/payment/sessions/"+opened.Data.SessionID+"/retry")
	assert.Equal(t, http.StatusBadRequest, retryCode)
	assert.False(t, retried.Success)
}

func TestGetUnknownSessionReturns404(t *testing.T) {
	verifier := &queueVerifier{
		snapshots: []*payment.Snapshot{pendingSnapshot()},
		errs:      []error{nil},
	}
	s := newPaymentTestServer(verifier)

	code, envelope := doPayment(t, s, http.MethodGet, "/api/v2/payment/sessions/no-such-session")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Payment session not found", envelope.Message)
}

func TestRetryAfterNetworkError(t *testing.T) {
	verifier := &queueVerifier{
		snapshots: []*payment.Snapshot{nil},
		errs:      []error{&payment.ResolutionError{Code: payment.CodeNetwork}},
	}
	s := newPaymentTestServer(verifier)

	_, opened := doPayment(t, s, http.MethodPost, "/api/v2/payment/status/TXN902")
	require.NotEmpty(t, opened.Data.SessionID)

	failed := waitForPhase(t, s, opened.Data.SessionID, payment.PhaseError)
	assert.Equal(t, payment.CodeNetwork, failed.Data.ErrorCode)
	assert.Contains(t, failed.Data.Actions, payment.ActionRetryCheck)

	verifier.reset([]*payment.Snapshot{successSnapshot("75.00")}, []error{nil})
	code, retried := doPayment(t, s, http.MethodPost,
		"/api/v2/payment/sessions/"+opened.Data.SessionID+"/retry")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, retried.Success)
	assert.Equal(t, "Status check restarted", retried.Message)

	resolved := waitForPhase(t, s, opened.Data.SessionID, payment.PhaseResolved)
	assert.Equal(t, payment.StatusSuccess, resolved.Data.Status)
}

func TestCancelSession(t *testing.T) {
	verifier := &queueVerifier{
		snapshots: []*payment.Snapshot{pendingSnapshot()},
		errs:      []error{nil},
	}
	s := newPaymentTestServer(verifier)

	_, opened := doPayment(t, s, http.MethodPost, "/api/v2/payment/sessions?txn_id=TXN903")
	require.NotEmpty(t, opened.Data.SessionID)

	code, cancelled := doPayment(t, s, http.MethodDelete,
		"/api/v2/payment/sessions/"+opened.Data.SessionID)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, cancelled.Success)
	assert.Equal(t, "Payment session cancelled", cancelled.Message)

	// the session stays readable after cancel
	getCode, _ := doPayment(t, s, http.MethodGet, "/api/v2/payment/sessions/"+opened.Data.SessionID)
	assert.Equal(t, http.StatusOK, getCode)

	missingCode, _ := doPayment(t, s, http.MethodDelete, "/api/v2/payment/sessions/no-such-session")
	assert.Equal(t, http.StatusNotFound, missingCode)
}
