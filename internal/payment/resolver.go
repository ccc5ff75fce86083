package payment

import (
	"net/url"
	"strings"
)

// Query parameter names of the gateway redirect contract.
const (
	QueryKeyClientTxnID = "client_txn_id"
	QueryKeyGatewayTxn  = "txn_id"
	QueryKeyStatus      = "status"
	QueryKeyError       = "error"
)

// Error codes the gateway puts into the redirect URL when it could not even
// start verification.
const (
	redirectErrMissingTxnID = "missing_txn_id"
	redirectErrNotFound     = "transaction_not_found"
	redirectErrServer       = "server_error"
)

// ResolveTransactionID picks the transaction id out of the redirect URL.
// The path segment wins, then the client-generated client_txn_id, then the
// gateway's txn_id. Whitespace-only values count as absent.
func ResolveTransactionID(pathID string, query url.Values) (string, error) {
	candidates := []string{pathID, query.Get(QueryKeyClientTxnID), query.Get(QueryKeyGatewayTxn)}
	for _, c := range candidates {
		if v := strings.TrimSpace(c); v != "" {
			return v, nil
		}
	}
	return "", newError(CodeMissingIdentifier, "no transaction identifier in path or query")
}

// RedirectError classifies the out-of-band error parameter of a gateway
// redirect. A session beginning with such a code never talks to the network.
// Returns nil when the parameter is absent.
func RedirectError(query url.Values) error {
	code := strings.TrimSpace(query.Get(QueryKeyError))
	if code == "" {
		return nil
	}
	switch code {
	case redirectErrMissingTxnID:
		return newError(CodeMissingIdentifier, "gateway redirect reports missing transaction id")
	case redirectErrNotFound:
		return newError(CodeNotFound, "gateway redirect reports unknown transaction")
	case redirectErrServer:
		return newError(CodeServer, "gateway redirect reports a server error")
	default:
		return newError(CodeUnknown, "gateway redirect error %q", code)
	}
}
