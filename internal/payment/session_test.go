package payment

import (
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/types"
)

// recorder captures published events and history writes.
type recorder struct {
	mu        sync.Mutex
	published []types.PaymentResolvedUpdate
	recorded  []types.PaymentResolvedUpdate
}

func (r *recorder) SendPaymentResolved(update types.PaymentResolvedUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, update)
	return nil
}

func (r *recorder) RecordResolution(update types.PaymentResolvedUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, update)
	return nil
}

func (r *recorder) publishedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.published)
}

// memStore is an in-memory StateStore.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memStore) Set(key, value string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Del(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func newTestManager(verifier Verifier) (*Manager, *recorder) {
	rec := &recorder{}
	m := NewManager(verifier, nil, rec, rec)
	m.SetPolling(2*time.Millisecond, 30)
	m.SetRedirectDelay(50 * time.Millisecond)
	return m, rec
}

func waitFor(t *testing.T, m *Manager, sessionID string, cond func(*Session) bool) *Session {
	t.Helper()
	var session *Session
	require.Eventually(t, func() bool {
		s, err := m.GetSession(sessionID)
		if err != nil {
			return false
		}
		session = s
		return cond(s)
	}, 3*time.Second, 2*time.Millisecond)
	return session
}

func TestImmediateSuccessSkipsPolling(t *testing.T) {
	// TXN123: first verify is already terminal
	verifier := &scriptedVerifier{steps: []verifyStep{
		successStep(&TransactionDetail{Amount: "150.00", PaymentType: "order"}),
	}}
	m, rec := newTestManager(verifier)

	session := m.Begin(BeginInput{PathID: "TXN123", Query: url.Values{}, VendorID: "vendor-7", Authenticated: true})

	resolved := waitFor(t, m, session.ID, func(s *Session) bool { return s.Phase == PhaseResolved })
	assert.Equal(t, StatusSuccess, resolved.Snapshot.Status)
	assert.Equal(t, "150.00", resolved.Snapshot.Detail.Amount)
	assert.Equal(t, 1, verifier.callCount(), "terminal first verify means zero polling calls")

	// payment_type is not subscription_fee, so no redirect may ever appear
	time.Sleep(120 * time.Millisecond)
	fresh, err := m.GetSession(session.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.RedirectTo)

	assert.Equal(t, 1, rec.publishedCount())
	assert.Equal(t, "TXN123", rec.published[0].TransactionID)
	assert.Equal(t, string(StatusSuccess), rec.published[0].Status)
}

func TestPollingRunThenSubscriptionRedirect(t *testing.T) {
	// TXN124: pending on verify, five pending polls, then subscription success
	steps := []verifyStep{pendingStep()}
	for i := 0; i < 5; i++ {
		steps = append(steps, pendingStep())
	}
	steps = append(steps, successStep(&TransactionDetail{Amount: "499.00", PaymentType: PaymentTypeSubscription}))
	verifier := &scriptedVerifier{steps: steps}
	m, rec := newTestManager(verifier)

	session := m.Begin(BeginInput{
		Query:         url.Values{QueryKeyClientTxnID: {"TXN124"}},
		VendorID:      "vendor-7",
		Authenticated: true,
	})

	resolved := waitFor(t, m, session.ID, func(s *Session) bool {
		return s.Phase == PhaseResolved && s.Snapshot.Status == StatusSuccess
	})
	assert.Equal(t, 7, verifier.callCount(), "one verify plus six polls")
	assert.Empty(t, resolved.RedirectTo, "redirect must be delayed, not immediate")

	redirected := waitFor(t, m, session.ID, func(s *Session) bool { return s.RedirectTo != "" })
	assert.Equal(t, "/dashboard/vendor-7", redirected.RedirectTo)

	// exactly one redirect and one resolution event
	time.Sleep(120 * time.Millisecond)
	fresh, err := m.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/vendor-7", fresh.RedirectTo)
	assert.Equal(t, 1, rec.publishedCount())
}

func TestNetworkErrorThenManualRetry(t *testing.T) {
	// TXN125: verification fails on the wire
	verifier := &scriptedVerifier{steps: []verifyStep{errorStep(CodeNetwork)}}
	m, _ := newTestManager(verifier)

	session := m.Begin(BeginInput{PathID: "TXN125", Query: url.Values{}})

	failed := waitFor(t, m, session.ID, func(s *Session) bool { return s.Phase == PhaseError })
	assert.Equal(t, CodeNetwork, failed.ErrorCode)
	assert.True(t, failed.Retryable)

	view := BuildView(failed)
	assert.Equal(t, "Network problem while checking your payment", view.Headline)
	assert.Contains(t, view.Actions, ActionRetryCheck)

	// retry re-invokes verification
	verifier.setScript([]verifyStep{successStep(nil)})
	_, err := m.Retry(session.ID)
	require.NoError(t, err)

	resolved := waitFor(t, m, session.ID, func(s *Session) bool { return s.Phase == PhaseResolved })
	assert.Equal(t, StatusSuccess, resolved.Snapshot.Status)
	assert.Equal(t, 1, verifier.callCount())
}

func TestMissingIdentifierSettlesWithoutNetwork(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{pendingStep()}}
	m, _ := newTestManager(verifier)

	session := m.Begin(BeginInput{Query: url.Values{}})

	assert.Equal(t, PhaseError, session.Phase)
	assert.Equal(t, CodeMissingIdentifier, session.ErrorCode)
	assert.False(t, session.Retryable)
	assert.Equal(t, 0, verifier.callCount())

	view := BuildView(session)
	assert.Equal(t, []string{ActionBackToMenu}, view.Actions, "retry is not offered without an id")

	_, err := m.Retry(session.ID)
	require.Error(t, err)
	assert.Equal(t, CodeMissingIdentifier, Classify(err))
}

func TestRedirectErrorBypassesNetwork(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{pendingStep()}}
	m, _ := newTestManager(verifier)

	session := m.Begin(BeginInput{Query: url.Values{QueryKeyError: {"missing_txn_id"}}})

	assert.Equal(t, PhaseError, session.Phase)
	assert.Equal(t, CodeMissingIdentifier, session.ErrorCode)
	assert.Equal(t, 0, verifier.callCount(), "out-of-band errors never reach the network")
}

func TestRedirectErrorWithIdStaysRetryable(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{successStep(nil)}}
	m, _ := newTestManager(verifier)

	session := m.Begin(BeginInput{Query: url.Values{
		QueryKeyError:       {"server_error"},
		QueryKeyClientTxnID: {"TXN9"},
	}})

	assert.Equal(t, PhaseError, session.Phase)
	assert.Equal(t, CodeServer, session.ErrorCode)
	assert.Equal(t, "TXN9", session.TransactionID)
	assert.True(t, session.Retryable)
	assert.Equal(t, 0, verifier.callCount())

	_, err := m.Retry(session.ID)
	require.NoError(t, err)
	resolved := waitFor(t, m, session.ID, func(s *Session) bool { return s.Phase == PhaseResolved })
	assert.Equal(t, StatusSuccess, resolved.Snapshot.Status)
}

func TestBudgetExhaustionRendersStillPending(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{pendingStep()}}
	m, rec := newTestManager(verifier)
	m.SetPolling(time.Millisecond, 3)

	session := m.Begin(BeginInput{PathID: "TXN77", Query: url.Values{}})

	settled := waitFor(t, m, session.ID, func(s *Session) bool { return s.Phase == PhaseResolved })
	assert.Equal(t, StatusPending, settled.Snapshot.Status)
	assert.True(t, settled.Retryable, "exhaustion keeps manual retry open")
	assert.Equal(t, 4, verifier.callCount(), "one verify plus the full budget")

	view := BuildView(settled)
	assert.Equal(t, "Payment still processing", view.Headline)
	assert.Contains(t, view.Actions, ActionRetryCheck)

	// non-terminal settlement publishes nothing
	assert.Equal(t, 0, rec.publishedCount())

	// and a manual retry can still settle it for real
	verifier.setScript([]verifyStep{successStep(nil)})
	_, err := m.Retry(session.ID)
	require.NoError(t, err)
	waitFor(t, m, session.ID, func(s *Session) bool {
		return s.Resolved() && s.Snapshot.Status == StatusSuccess
	})
	assert.Equal(t, 1, rec.publishedCount())
}

func TestCancelInvalidatesInFlightCallbacks(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{pendingStep()}}
	m, _ := newTestManager(verifier)
	m.SetPolling(2*time.Millisecond, 1000)

	session := m.Begin(BeginInput{PathID: "TXN88", Query: url.Values{}})
	polling := waitFor(t, m, session.ID, func(s *Session) bool { return s.Phase == PhasePolling })
	staleGen := polling.Generation

	require.NoError(t, m.Cancel(session.ID))

	err := m.mutate(session.ID, staleGen, func(s *Session) error {
		s.Phase = PhaseError
		return nil
	})
	assert.True(t, errors.Is(err, errStaleGeneration))

	// the poll loop stops issuing requests once its context is cancelled
	require.Eventually(t, func() bool {
		before := verifier.callCount()
		time.Sleep(15 * time.Millisecond)
		return verifier.callCount() == before
	}, 2*time.Second, 5*time.Millisecond)

	fresh, err := m.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, PhasePolling, fresh.Phase, "cancel freezes the session as-is")
}

func TestTerminalStateIsNeverDowngraded(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{successStep(nil)}}
	m, rec := newTestManager(verifier)

	session := m.Begin(BeginInput{PathID: "TXN99", Query: url.Values{}})
	resolved := waitFor(t, m, session.ID, func(s *Session) bool { return s.Phase == PhaseResolved })

	// a late finish from the same generation must bounce off
	m.finish(session.ID, resolved.Generation, &Snapshot{Status: StatusPending})

	fresh, err := m.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseResolved, fresh.Phase)
	assert.Equal(t, StatusSuccess, fresh.Snapshot.Status)
	assert.Equal(t, 1, rec.publishedCount())
}

func TestRetryRejectedOnceResolved(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{successStep(nil)}}
	m, _ := newTestManager(verifier)

	session := m.Begin(BeginInput{PathID: "TXN11", Query: url.Values{}})
	waitFor(t, m, session.ID, func(s *Session) bool { return s.Phase == PhaseResolved })

	_, err := m.Retry(session.ID)
	require.Error(t, err)
}

func TestSessionsSurviveThroughStore(t *testing.T) {
	store := newMemStore()
	verifier := &scriptedVerifier{steps: []verifyStep{pendingStep()}}
	m1 := NewManager(verifier, store, nil, nil)

	session := m1.Begin(BeginInput{Query: url.Values{}})
	require.Eventually(t, func() bool {
		val, _ := store.Get(redisSessionKey(session.ID))
		return val != ""
	}, 2*time.Second, 2*time.Millisecond)

	m2 := NewManager(verifier, store, nil, nil)
	loaded, err := m2.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseError, loaded.Phase)
	assert.Equal(t, CodeMissingIdentifier, loaded.ErrorCode)
}

func TestCleanupSettledSessions(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{successStep(nil)}}
	m, _ := newTestManager(verifier)

	session := m.Begin(BeginInput{PathID: "TXN55", Query: url.Values{}})
	waitFor(t, m, session.ID, func(s *Session) bool { return s.Phase == PhaseResolved })

	m.CleanupSettled(0)

	_, err := m.GetSession(session.ID)
	require.Error(t, err, "settled session is gone from memory and no store is configured")
}
