package payment

import (
	"context"
	"sync"
	"time"

	"foodcourt/internal/types"
)

// Status (dimension 1): gateway-reported transaction status
type Status string

const (
	StatusPending  Status = "pending"  // order created, customer has not paid yet
	StatusScanning Status = "scanning" // customer scanned the code, gateway waiting on the bank
	StatusSuccess  Status = "success"  // money received
	StatusFailure  Status = "failure"  // declined, expired or reversed
)

// Terminal reports whether the status can never change again.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// Known reports whether the status is one the gateway contract defines.
// Unknown strings are carried through and treated as non-terminal.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusScanning, StatusSuccess, StatusFailure:
		return true
	}
	return false
}

// PaymentTypeSubscription marks vendor subscription fee payments, which get a
// delayed dashboard redirect after success.
const PaymentTypeSubscription = "subscription_fee"

// TransactionDetail is the transaction block of the core API verify response.
type TransactionDetail struct {
	Amount      string `json:"amount"`
	UTR         string `json:"utr,omitempty"`
	VPA         string `json:"vpa,omitempty"`
	PayerName   string `json:"payer_name,omitempty"`
	PaymentType string `json:"payment_type,omitempty"`
	Remark      string `json:"ug_remark,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Snapshot is one verification result. Detail may be nil while the gateway
// has not attached transaction data yet.
type Snapshot struct {
	Status Status             `json:"status"`
	Detail *TransactionDetail `json:"transaction,omitempty"`
}

// Phase (dimension 2): where a resolution session currently is
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseVerifying Phase = "verifying"
	PhasePolling   Phase = "polling"
	PhaseResolved  Phase = "resolved"
	PhaseError     Phase = "error"
)

// Session is the full state of one payment resolution flow.
type Session struct {
	// Basic information
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	VendorID      string `json:"vendor_id,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
	Authenticated bool   `json:"authenticated"`

	// Resolution state
	Phase     Phase     `json:"phase"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
	ErrorCode ErrorCode `json:"error_code,omitempty"`
	Retryable bool      `json:"retryable"`

	// Generation increases on retry and cancel. Callbacks created under an
	// older generation must not touch the session anymore.
	Generation uint64 `json:"generation"`

	// RedirectTo is set once, after the post-success delay, for subscription
	// payments of an authenticated vendor.
	RedirectTo string `json:"redirect_to,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetKey returns the session store key.
func (s *Session) GetKey() string {
	return s.ID
}

// Resolved reports whether the session carries a terminal gateway status.
func (s *Session) Resolved() bool {
	return s.Phase == PhaseResolved && s.Snapshot != nil && s.Snapshot.Status.Terminal()
}

// StateStore persists sessions across restarts. A nil store keeps sessions
// in memory only.
type StateStore interface {
	Get(key string) (string, error)
	Set(key string, value string, expiration time.Duration) error
	Del(key string) error
}

// EventSenderInterface defines methods to publish resolution events.
type EventSenderInterface interface {
	SendPaymentResolved(update types.PaymentResolvedUpdate) error
}

// HistoryWriter appends terminal resolutions to the local history store.
type HistoryWriter interface {
	RecordResolution(update types.PaymentResolvedUpdate) error
}

// Manager owns all live resolution sessions.
type Manager struct {
	sessions map[string]*Session
	cancels  map[string]context.CancelFunc
	mu       sync.RWMutex

	verifier    Verifier
	interval    time.Duration
	maxAttempts int
	delay       time.Duration

	store   StateStore
	events  EventSenderInterface
	history HistoryWriter
}
