package api

import (
	"encoding/json"
	"log"
	"net/http"

	"foodcourt/internal/backend"
	"foodcourt/internal/cart"
	"foodcourt/internal/payment"

	"github.com/gorilla/mux"
)

// Server represents the public ordering HTTP server
type Server struct {
	router   *mux.Router
	port     string
	payments *payment.Manager
	carts    *cart.Manager
	tokens   *backend.TokenClient
}

// NewServer creates a new server instance
func NewServer(port string, payments *payment.Manager, carts *cart.Manager) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		port:     port,
		payments: payments,
		carts:    carts,
		tokens:   backend.NewTokenClient(),
	}
	s.setupRoutes()
	return s
}

// serviceToken mints a core API token for guest traffic. Sandbox cores accept
// the public pseudo token when no service credentials are configured.
func (s *Server) serviceToken(ops ...string) string {
	token, err := s.tokens.GetAccessToken(ops...)
	if err != nil {
		log.Printf("service token unavailable, using public access: %v", err)
		return publicToken
	}
	return token
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// API version prefix
	api := s.router.PathPrefix("/api/v2").Subrouter()

	// Public menu of one vendor
	api.HandleFunc("/vendors/{vendor}/menu", s.getPublicMenu).Methods("GET")

	// Cart endpoints
	api.HandleFunc("/carts", s.createCart).Methods("POST")
	api.HandleFunc("/carts/{id}", s.getCart).Methods("GET")
	api.HandleFunc("/carts/{id}/items", s.upsertCartLine).Methods("PUT")
	api.HandleFunc("/carts/{id}/items", s.clearCart).Methods("DELETE")
	api.HandleFunc("/carts/{id}/totals", s.getCartTotals).Methods("GET")
	api.HandleFunc("/carts/{id}/checkout", s.checkoutCart).Methods("POST")

	// Order status after checkout
	api.HandleFunc("/orders/{id}", s.getOrder).Methods("GET")

	// Payment status resolution
	api.HandleFunc("/payment/sessions", s.beginPaymentSession).Methods("POST")
	api.HandleFunc("/payment/status/{txn}", s.beginPaymentSessionByPath).Methods("POST")
	api.HandleFunc("/payment/sessions/{id}", s.getPaymentSession).Methods("GET")
	api.HandleFunc("/payment/sessions/{id}/retry", s.retryPaymentSession).Methods("POST")
	api.HandleFunc("/payment/sessions/{id}", s.cancelPaymentSession).Methods("DELETE")

	// Health endpoint
	api.HandleFunc("/health", s.healthCheck).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting public server on port %s", s.port)
	return http.ListenAndServe(":"+s.port, s.router)
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// sendResponse sends a JSON response
func (s *Server) sendResponse(w http.ResponseWriter, statusCode int, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := Response{
		Success: success,
		Message: message,
		Data:    data,
	}

	json.NewEncoder(w).Encode(response)
}
