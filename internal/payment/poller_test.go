package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedVerifier plays back a fixed sequence of verification results. The
// last step repeats once the script is exhausted.
type scriptedVerifier struct {
	mu    sync.Mutex
	steps []verifyStep
	calls int
}

type verifyStep struct {
	snapshot *Snapshot
	err      error
}

func pendingStep() verifyStep {
	return verifyStep{snapshot: &Snapshot{Status: StatusPending}}
}

func successStep(detail *TransactionDetail) verifyStep {
	return verifyStep{snapshot: &Snapshot{Status: StatusSuccess, Detail: detail}}
}

func errorStep(code ErrorCode) verifyStep {
	return verifyStep{err: newError(code, "scripted failure")}
}

func (v *scriptedVerifier) Verify(ctx context.Context, transactionID string) (*Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := v.calls
	if idx >= len(v.steps) {
		idx = len(v.steps) - 1
	}
	v.calls++
	step := v.steps[idx]
	return step.snapshot, step.err
}

func (v *scriptedVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

func (v *scriptedVerifier) setScript(steps []verifyStep) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.steps = steps
	v.calls = 0
}

func TestPollStopsOnFirstTerminalStatus(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{
		pendingStep(),
		pendingStep(),
		successStep(nil),
	}}
	poller := &Poller{Verifier: verifier, Interval: time.Millisecond, MaxAttempts: 10}

	snapshot, err := poller.Poll(context.Background(), "TXN1", nil)

	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, StatusSuccess, snapshot.Status)
	assert.Equal(t, 3, verifier.callCount(), "polling must stop with attempts remaining")
}

func TestPollToleratesTransientErrors(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{
		errorStep(CodeNetwork),
		errorStep(CodeServer),
		successStep(nil),
	}}
	poller := &Poller{Verifier: verifier, Interval: time.Millisecond, MaxAttempts: 10}

	snapshot, err := poller.Poll(context.Background(), "TXN1", nil)

	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, StatusSuccess, snapshot.Status)
	assert.Equal(t, 3, verifier.callCount())
}

func TestPollBudgetExhaustionIsNotAnError(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{pendingStep()}}
	poller := &Poller{Verifier: verifier, Interval: time.Millisecond, MaxAttempts: 4}

	snapshot, err := poller.Poll(context.Background(), "TXN1", nil)

	require.NoError(t, err, "still pending is not a failure")
	require.NotNil(t, snapshot)
	assert.Equal(t, StatusPending, snapshot.Status)
	assert.Equal(t, 4, verifier.callCount())
}

func TestPollReturnsLastErrorWhenNothingSucceeded(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{errorStep(CodeNetwork)}}
	poller := &Poller{Verifier: verifier, Interval: time.Millisecond, MaxAttempts: 3}

	snapshot, err := poller.Poll(context.Background(), "TXN1", nil)

	require.Error(t, err)
	assert.Nil(t, snapshot)
	assert.Equal(t, CodeNetwork, Classify(err))
	assert.Equal(t, 3, verifier.callCount())
}

func TestPollLateErrorsKeepLastSnapshot(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{
		pendingStep(),
		errorStep(CodeNetwork),
	}}
	poller := &Poller{Verifier: verifier, Interval: time.Millisecond, MaxAttempts: 3}

	snapshot, err := poller.Poll(context.Background(), "TXN1", nil)

	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, StatusPending, snapshot.Status)
}

func TestPollWaitsIntervalBeforeEachAttempt(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{pendingStep()}}
	interval := 20 * time.Millisecond
	poller := &Poller{Verifier: verifier, Interval: interval, MaxAttempts: 3}

	start := time.Now()
	_, err := poller.Poll(context.Background(), "TXN1", nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, verifier.callCount())
	assert.GreaterOrEqual(t, elapsed, 3*interval, "every attempt starts with a full interval wait")
}

func TestPollCancellation(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{pendingStep()}}
	poller := &Poller{Verifier: verifier, Interval: 100 * time.Millisecond, MaxAttempts: 30}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	snapshot, err := poller.Poll(ctx, "TXN1", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Nil(t, snapshot)
	assert.Less(t, time.Since(start), 80*time.Millisecond, "cancellation must not wait out the full interval")
	assert.Equal(t, 0, verifier.callCount())
}

func TestPollInvokesOnUpdatePerSuccessfulResponse(t *testing.T) {
	verifier := &scriptedVerifier{steps: []verifyStep{
		pendingStep(),
		errorStep(CodeNetwork),
		pendingStep(),
		successStep(nil),
	}}
	poller := &Poller{Verifier: verifier, Interval: time.Millisecond, MaxAttempts: 10}

	var updates []Status
	_, err := poller.Poll(context.Background(), "TXN1", func(s *Snapshot) {
		updates = append(updates, s.Status)
	})

	require.NoError(t, err)
	assert.Equal(t, []Status{StatusPending, StatusPending, StatusSuccess}, updates)
}

func TestPollDefaults(t *testing.T) {
	assert.Equal(t, 2*time.Second, DefaultPollInterval)
	assert.Equal(t, 30, DefaultMaxAttempts)
}
