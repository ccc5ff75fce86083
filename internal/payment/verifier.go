package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"foodcourt/internal/constants"
)

// Verifier asks the core API for the current state of one transaction.
// Implementations make exactly one round trip per call and never retry
// internally; retry policy belongs to the poller.
type Verifier interface {
	Verify(ctx context.Context, transactionID string) (*Snapshot, error)
}

// VerifyClient is the resty-backed Verifier against the core API.
type VerifyClient struct {
	httpClient *resty.Client
}

func NewVerifyClient() *VerifyClient {
	httpClient := resty.New()
	httpClient.SetTimeout(10 * time.Second)
	return &VerifyClient{httpClient: httpClient}
}

// Verify performs GET /verify-payment/{transactionId} against the core API.
// Every failure comes back as a *ResolutionError; the caller branches on the
// code, not on transport details.
func (c *VerifyClient) Verify(ctx context.Context, transactionID string) (*Snapshot, error) {
	if transactionID == "" {
		return nil, newError(CodeMissingIdentifier, "empty transaction id")
	}

	host, port := constants.GetCoreAPIHostAndPort()
	endpoint := fmt.Sprintf(constants.CoreVerifyPaymentURLTempl, host, port, transactionID)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(endpoint)
	if err != nil {
		log.Printf("verify %s transport error: %v", transactionID, err)
		return nil, newError(CodeNetwork, "verify request failed: %v", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, newError(CodeNotFound, "transaction %s not known to the core API", transactionID)
	case resp.StatusCode() >= http.StatusInternalServerError:
		return nil, newError(CodeServer, "core API returned %d: %s", resp.StatusCode(), string(resp.Body()))
	case resp.StatusCode() < 200 || resp.StatusCode() >= 300:
		return nil, newError(CodeUnknown, "core API returned unexpected status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var snapshot Snapshot
	if err := json.Unmarshal(resp.Body(), &snapshot); err != nil {
		return nil, newError(CodeUnknown, "core API response not parseable: %v", err)
	}
	if snapshot.Status == "" {
		return nil, newError(CodeUnknown, "core API response has no status field")
	}
	if !snapshot.Status.Known() {
		log.Printf("verify %s: unrecognized status %q carried through as non-terminal", transactionID, snapshot.Status)
	}

	return &snapshot, nil
}
