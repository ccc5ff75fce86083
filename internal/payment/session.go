package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"

	"foodcourt/internal/constants"
	"foodcourt/internal/types"
)

const (
	// DefaultRedirectDelay is how long a resolved subscription payment stays
	// on the success view before the dashboard redirect is offered.
	DefaultRedirectDelay = 2 * time.Second

	sessionTTL = time.Hour
)

var errStaleGeneration = errors.New("stale session generation")

// NewManager creates a session manager. store, events and history may be nil
// in sandbox mode; the resolution flow itself never needs them.
func NewManager(verifier Verifier, store StateStore, events EventSenderInterface, history HistoryWriter) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		cancels:     make(map[string]context.CancelFunc),
		verifier:    verifier,
		interval:    DefaultPollInterval,
		maxAttempts: DefaultMaxAttempts,
		delay:       DefaultRedirectDelay,
		store:       store,
		events:      events,
		history:     history,
	}
}

// SetPolling overrides the polling cadence and budget.
func (m *Manager) SetPolling(interval time.Duration, maxAttempts int) {
	if interval > 0 {
		m.interval = interval
	}
	if maxAttempts > 0 {
		m.maxAttempts = maxAttempts
	}
}

// SetRedirectDelay overrides the post-success redirect delay.
func (m *Manager) SetRedirectDelay(delay time.Duration) {
	if delay >= 0 {
		m.delay = delay
	}
}

// BeginInput is everything one gateway redirect gives us.
type BeginInput struct {
	PathID        string
	Query         url.Values
	VendorID      string
	OrderID       string
	Authenticated bool
}

// Begin opens a resolution session for one gateway redirect. Out-of-band
// error codes and a missing transaction id settle the session immediately
// with zero network calls; everything else starts the verify-then-poll flow
// in the background.
func (m *Manager) Begin(input BeginInput) *Session {
	now := time.Now()
	session := &Session{
		ID:            uuid.NewString(),
		VendorID:      input.VendorID,
		OrderID:       input.OrderID,
		Authenticated: input.Authenticated,
		Phase:         PhaseLoading,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := RedirectError(input.Query); err != nil {
		code := Classify(err)
		log.Printf("session %s settled from redirect error: %v", session.ID, err)
		// keep the id around if the gateway sent one, retry can use it
		if id, rerr := ResolveTransactionID(input.PathID, input.Query); rerr == nil {
			session.TransactionID = id
		}
		session.Phase = PhaseError
		session.ErrorCode = code
		session.Retryable = code.Retryable() && session.TransactionID != ""
		m.setSession(session)
		return session
	}

	id, err := ResolveTransactionID(input.PathID, input.Query)
	if err != nil {
		log.Printf("session %s has no transaction id: %v", session.ID, err)
		session.Phase = PhaseError
		session.ErrorCode = Classify(err)
		session.Retryable = false
		m.setSession(session)
		return session
	}

	session.TransactionID = id
	m.setSession(session)
	m.startResolution(session.ID, session.Generation)
	return session
}

// Retry re-enters verification for a session that did not reach a terminal
// status: a transient error, an exhausted polling budget, or a redirect error
// that still carried an id. The generation bump cuts off every callback of
// the superseded run.
func (m *Manager) Retry(sessionID string) (*Session, error) {
	session, err := m.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Resolved() {
		return nil, fmt.Errorf("session %s is already resolved", sessionID)
	}
	if session.TransactionID == "" || session.ErrorCode == CodeMissingIdentifier {
		return nil, newError(CodeMissingIdentifier, "cannot retry without a transaction id")
	}

	m.mu.Lock()
	current, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	next := *current
	next.Generation++
	next.Phase = PhaseVerifying
	next.ErrorCode = ""
	next.Retryable = false
	next.UpdatedAt = time.Now()
	m.sessions[sessionID] = &next
	m.mu.Unlock()

	go m.persist(&next)
	m.startResolution(sessionID, next.Generation)
	return &next, nil
}

// Cancel stops background work for a session, for example when the status
// page unmounts. The session stays readable; the generation bump makes every
// in-flight callback a no-op.
func (m *Manager) Cancel(sessionID string) error {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	var next *Session
	if ok {
		copied := *session
		copied.Generation++
		copied.UpdatedAt = time.Now()
		m.sessions[sessionID] = &copied
		next = &copied
	}
	cancel, hasCancel := m.cancels[sessionID]
	delete(m.cancels, sessionID)
	m.mu.Unlock()

	if hasCancel {
		cancel()
	}
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	go m.persist(next)
	return nil
}

// GetSession returns a session from memory, falling back to the store.
func (m *Manager) GetSession(sessionID string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return session, nil
	}
	return m.loadFromStore(sessionID)
}

// startResolution launches the verify-then-poll flow for one generation.
func (m *Manager) startResolution(sessionID string, generation uint64) {
	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	if old, exists := m.cancels[sessionID]; exists {
		old()
	}
	m.cancels[sessionID] = cancel
	m.mu.Unlock()

	go m.resolve(ctx, sessionID, generation)
}

func (m *Manager) resolve(ctx context.Context, sessionID string, generation uint64) {
	session, err := m.GetSession(sessionID)
	if err != nil {
		log.Printf("resolve: %v", err)
		return
	}
	transactionID := session.TransactionID

	if err := m.mutate(sessionID, generation, func(s *Session) error {
		s.Phase = PhaseVerifying
		s.ErrorCode = ""
		s.Retryable = false
		return nil
	}); err != nil {
		log.Printf("resolve %s skipped: %v", sessionID, err)
		return
	}

	// Step 1: exactly one verification before any polling.
	snapshot, err := m.verifier.Verify(ctx, transactionID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		code := Classify(err)
		log.Printf("session %s verification failed: %v", sessionID, err)
		_ = m.mutate(sessionID, generation, func(s *Session) error {
			s.Phase = PhaseError
			s.ErrorCode = code
			s.Retryable = code.Retryable()
			return nil
		})
		return
	}

	if snapshot.Status.Terminal() {
		m.finish(sessionID, generation, snapshot)
		return
	}

	// Step 2: bounded polling with live intermediate updates.
	if err := m.mutate(sessionID, generation, func(s *Session) error {
		s.Phase = PhasePolling
		s.Snapshot = snapshot
		return nil
	}); err != nil {
		log.Printf("resolve %s skipped before polling: %v", sessionID, err)
		return
	}

	poller := &Poller{Verifier: m.verifier, Interval: m.interval, MaxAttempts: m.maxAttempts}
	final, pollErr := poller.Poll(ctx, transactionID, func(update *Snapshot) {
		if uerr := m.mutate(sessionID, generation, func(s *Session) error {
			if s.Resolved() {
				return fmt.Errorf("session %s already resolved", sessionID)
			}
			s.Phase = PhasePolling
			s.Snapshot = update
			return nil
		}); uerr != nil {
			log.Printf("poll update for session %s dropped: %v", sessionID, uerr)
		}
	})
	if pollErr != nil {
		if ctx.Err() != nil {
			log.Printf("session %s polling cancelled", sessionID)
			return
		}
		code := Classify(pollErr)
		log.Printf("session %s polling gave up: %v", sessionID, pollErr)
		_ = m.mutate(sessionID, generation, func(s *Session) error {
			s.Phase = PhaseError
			s.ErrorCode = code
			s.Retryable = code.Retryable()
			return nil
		})
		return
	}

	m.finish(sessionID, generation, final)
}

// finish settles a session with the poller's outcome. A terminal snapshot
// resolves it for good; a non-terminal one means the budget ran out and the
// customer gets a "still processing" view with retry left open.
func (m *Manager) finish(sessionID string, generation uint64, snapshot *Snapshot) {
	var resolved Session
	err := m.mutate(sessionID, generation, func(s *Session) error {
		if s.Resolved() {
			return fmt.Errorf("session %s already resolved", sessionID)
		}
		s.Phase = PhaseResolved
		s.Snapshot = snapshot
		s.ErrorCode = ""
		s.Retryable = !snapshot.Status.Terminal()
		resolved = *s
		return nil
	})
	if err != nil {
		log.Printf("finish %s skipped: %v", sessionID, err)
		return
	}

	if !snapshot.Status.Terminal() {
		return
	}

	m.emitResolved(&resolved)

	if snapshot.Status == StatusSuccess && resolved.Authenticated &&
		snapshot.Detail != nil && snapshot.Detail.PaymentType == PaymentTypeSubscription {
		m.scheduleDashboardRedirect(sessionID, generation)
	}
}

// scheduleDashboardRedirect arms the one-shot delayed redirect for a
// subscription payment. The generation check keeps a redirect from a
// superseded run from ever surfacing.
func (m *Manager) scheduleDashboardRedirect(sessionID string, generation uint64) {
	time.AfterFunc(m.delay, func() {
		err := m.mutate(sessionID, generation, func(s *Session) error {
			if s.RedirectTo != "" {
				return fmt.Errorf("redirect already set for session %s", sessionID)
			}
			if s.VendorID != "" {
				s.RedirectTo = fmt.Sprintf(constants.DashboardPathTempl, s.VendorID)
			} else {
				s.RedirectTo = "/dashboard"
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStaleGeneration) {
			log.Printf("dashboard redirect for session %s dropped: %v", sessionID, err)
		}
	})
}

func (m *Manager) emitResolved(session *Session) {
	update := types.PaymentResolvedUpdate{
		TransactionID: session.TransactionID,
		OrderID:       session.OrderID,
		VendorID:      session.VendorID,
		Status:        string(session.Snapshot.Status),
		Timestamp:     time.Now().Unix(),
	}
	if d := session.Snapshot.Detail; d != nil {
		update.Amount = d.Amount
		update.PaymentType = d.PaymentType
		update.UTR = d.UTR
		update.VPA = d.VPA
		update.PayerName = d.PayerName
	}

	if m.events != nil {
		if err := m.events.SendPaymentResolved(update); err != nil {
			log.Printf("failed to publish resolution for %s: %v", session.TransactionID, err)
		}
	}
	if m.history != nil {
		if err := m.history.RecordResolution(update); err != nil {
			log.Printf("failed to record resolution for %s: %v", session.TransactionID, err)
		}
	}
}

// mutate applies updater to a session under the generation guard. The
// session is copied first so readers never observe a half-applied update.
func (m *Manager) mutate(sessionID string, generation uint64, updater func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return fmt.Errorf("session %s not found", sessionID)
	}
	if session.Generation != generation {
		return errStaleGeneration
	}

	newSession := *session
	if err := updater(&newSession); err != nil {
		return err
	}
	newSession.UpdatedAt = time.Now()
	m.sessions[sessionID] = &newSession

	// Sync to the store asynchronously to avoid blocking
	go m.persist(&newSession)
	return nil
}

func (m *Manager) setSession(session *Session) {
	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	go m.persist(session)
}

func (m *Manager) persist(session *Session) {
	if m.store == nil {
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		log.Printf("failed to marshal session %s: %v", session.ID, err)
		return
	}
	if err := m.store.Set(redisSessionKey(session.ID), string(data), sessionTTL); err != nil {
		log.Printf("failed to persist session %s: %v", session.ID, err)
	}
}

func (m *Manager) loadFromStore(sessionID string) (*Session, error) {
	if m.store == nil {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	val, err := m.store.Get(redisSessionKey(sessionID))
	if err != nil || val == "" {
		return nil, fmt.Errorf("session %s not found in store: %w", sessionID, err)
	}
	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to parse session %s from store: %w", sessionID, err)
	}
	m.mu.Lock()
	m.sessions[sessionID] = &session
	m.mu.Unlock()
	return &session, nil
}

func redisSessionKey(sessionID string) string {
	return constants.RedisKeyPaymentPrefix + sessionID
}

// CleanupSettled drops settled sessions that have not been touched for a
// while. Their store entries age out through the TTL.
func (m *Manager) CleanupSettled(olderThan time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	for id, session := range m.sessions {
		settled := session.Phase == PhaseError || session.Phase == PhaseResolved
		if settled && session.UpdatedAt.Before(cutoff) {
			if cancel, ok := m.cancels[id]; ok {
				cancel()
				delete(m.cancels, id)
			}
			delete(m.sessions, id)
			log.Printf("cleaned up settled session: %s", id)
		}
	}
}

// StartCleanup runs CleanupSettled on a fixed cadence until ctx is done.
func (m *Manager) StartCleanup(ctx context.Context, every, olderThan time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CleanupSettled(olderThan)
			}
		}
	}()
}
