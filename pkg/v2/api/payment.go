package api

import (
	"log"
	"net/http"

	"foodcourt/internal/constants"
	"foodcourt/internal/payment"

	"github.com/gorilla/mux"
)

// isAuthenticated reports whether the request carries a dashboard session.
// Guests hitting the public status page have neither cookie nor header.
func isAuthenticated(r *http.Request) bool {
	if cookie, err := r.Cookie(constants.AuthorizationTokenCookieKey); err == nil && cookie.Value != "" {
		return true
	}
	return r.Header.Get(constants.AuthorizationTokenKey) != ""
}

// beginPaymentSession handles POST /api/v2/payment/sessions
//
// The status page forwards the gateway redirect query untouched, so the
// identifier is picked out of client_txn_id/txn_id here.
func (s *Server) beginPaymentSession(w http.ResponseWriter, r *http.Request) {
	log.Println("POST /api/v2/payment/sessions - Beginning payment resolution")

	query := r.URL.Query()
	session := s.payments.Begin(payment.BeginInput{
		Query:         query,
		VendorID:      query.Get("vendor_id"),
		OrderID:       query.Get("order_id"),
		Authenticated: isAuthenticated(r),
	})

	log.Printf("Payment session %s opened, phase %s", session.ID, session.Phase)
	s.sendResponse(w, http.StatusOK, true, "Payment session opened", payment.BuildView(session))
}

// beginPaymentSessionByPath handles POST /api/v2/payment/status/{txn}
//
// Same flow as beginPaymentSession, for pages that carry the transaction id
// in the path instead of the query.
func (s *Server) beginPaymentSessionByPath(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	transactionID := vars["txn"]

	log.Printf("POST /api/v2/payment/status/%s - Beginning payment resolution", transactionID)

	query := r.URL.Query()
	session := s.payments.Begin(payment.BeginInput{
		PathID:        transactionID,
		Query:         query,
		VendorID:      query.Get("vendor_id"),
		OrderID:       query.Get("order_id"),
		Authenticated: isAuthenticated(r),
	})

	log.Printf("Payment session %s opened, phase %s", session.ID, session.Phase)
	s.sendResponse(w, http.StatusOK, true, "Payment session opened", payment.BuildView(session))
}

// getPaymentSession handles GET /api/v2/payment/sessions/{id}
func (s *Server) getPaymentSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	session, err := s.payments.GetSession(sessionID)
	if err != nil {
		log.Printf("Payment session %s not found: %v", sessionID, err)
		s.sendResponse(w, http.StatusNotFound, false, "Payment session not found", nil)
		return
	}

	s.sendResponse(w, http.StatusOK, true, "Payment session retrieved", payment.BuildView(session))
}

// retryPaymentSession handles POST /api/v2/payment/sessions/{id}/retry
func (s *Server) retryPaymentSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	log.Printf("POST /api/v2/payment/sessions/%s/retry - Retrying status check", sessionID)

	session, err := s.payments.Retry(sessionID)
	if err != nil {
		log.Printf("Retry of payment session %s failed: %v", sessionID, err)
		s.sendResponse(w, http.StatusBadRequest, false, err.Error(), nil)
		return
	}

	s.sendResponse(w, http.StatusOK, true, "Status check restarted", payment.BuildView(session))
}

// cancelPaymentSession handles DELETE /api/v2/payment/sessions/{id}
func (s *Server) cancelPaymentSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	log.Printf("DELETE /api/v2/payment/sessions/%s - Cancelling session", sessionID)

	if err := s.payments.Cancel(sessionID); err != nil {
		log.Printf("Cancel of payment session %s failed: %v", sessionID, err)
		s.sendResponse(w, http.StatusNotFound, false, "Payment session not found", nil)
		return
	}

	s.sendResponse(w, http.StatusOK, true, "Payment session cancelled", nil)
}
