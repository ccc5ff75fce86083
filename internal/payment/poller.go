package payment

import (
	"context"
	"log"
	"time"
)

// Polling controls. Both are exposed on the Poller so callers can shrink them
// in tests; zero values fall back to these defaults.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultMaxAttempts  = 30
)

// Poller re-verifies a transaction until it reaches a terminal status or the
// attempt budget runs out. Polling is strictly sequential: at most one
// verification is in flight, and every attempt starts with a full interval
// wait, so the first poll lands one interval after the initial verify.
type Poller struct {
	Verifier    Verifier
	Interval    time.Duration
	MaxAttempts int
}

// Poll runs the bounded polling loop.
//
// onUpdate fires for every successful verification, including the final one.
// Transient verification errors keep the loop going; only exhausting the
// budget without a single successful response surfaces the last error.
// Exhausting the budget with non-terminal responses is not an error: the last
// snapshot comes back with a nil error and the caller renders it as still
// pending. Cancelling ctx stops the loop between steps with ctx.Err().
func (p *Poller) Poll(ctx context.Context, transactionID string, onUpdate func(*Snapshot)) (*Snapshot, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	var last *Snapshot
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			log.Printf("polling for %s cancelled at attempt %d/%d", transactionID, attempt, maxAttempts)
			return last, ctx.Err()
		case <-timer.C:
		}

		snapshot, err := p.Verifier.Verify(ctx, transactionID)
		if err != nil {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			lastErr = err
			log.Printf("polling attempt %d/%d for %s failed: %v", attempt, maxAttempts, transactionID, err)
		} else {
			last = snapshot
			lastErr = nil
			if onUpdate != nil {
				onUpdate(snapshot)
			}
			if snapshot.Status.Terminal() {
				log.Printf("polling for %s reached terminal status %s on attempt %d", transactionID, snapshot.Status, attempt)
				return snapshot, nil
			}
		}

		if attempt < maxAttempts {
			timer.Reset(interval)
		}
	}

	if last != nil {
		log.Printf("polling budget exhausted for %s, last status %s", transactionID, last.Status)
		return last, nil
	}
	log.Printf("polling budget exhausted for %s without any successful verification", transactionID)
	return nil, lastErr
}
