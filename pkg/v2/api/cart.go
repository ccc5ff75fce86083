package api

import (
	"encoding/json"
	"log"
	"net/http"

	"foodcourt/internal/types"

	"github.com/gorilla/mux"
)

// CreateCartRequest represents the request body for opening a cart
type CreateCartRequest struct {
	VendorID string `json:"vendor_id"`
	TableID  string `json:"table_id,omitempty"`
}

// createCart handles POST /api/v2/carts
func (s *Server) createCart(w http.ResponseWriter, r *http.Request) {
	log.Println("POST /api/v2/carts - Opening cart")

	var req CreateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode request body: %v", err)
		s.sendResponse(w, http.StatusBadRequest, false, "Invalid request body", nil)
		return
	}

	if req.VendorID == "" {
		s.sendResponse(w, http.StatusBadRequest, false, "Vendor id cannot be empty", nil)
		return
	}

	cart, err := s.carts.Create(req.VendorID, req.TableID)
	if err != nil {
		log.Printf("Failed to create cart: %v", err)
		s.sendResponse(w, http.StatusInternalServerError, false, "Failed to create cart", nil)
		return
	}

	log.Printf("Cart %s opened for vendor %s", cart.ID, cart.VendorID)
	s.sendResponse(w, http.StatusOK, true, "Cart created successfully", cart)
}

// getCart handles GET /api/v2/carts/{id}
func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cartID := vars["id"]

	cart, err := s.carts.Get(cartID)
	if err != nil {
		log.Printf("Cart %s not found: %v", cartID, err)
		s.sendResponse(w, http.StatusNotFound, false, "Cart not found", nil)
		return
	}

	s.sendResponse(w, http.StatusOK, true, "Cart retrieved successfully", cart)
}

// upsertCartLine handles PUT /api/v2/carts/{id}/items
func (s *Server) upsertCartLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cartID := vars["id"]

	log.Printf("PUT /api/v2/carts/%s/items - Updating cart line", cartID)

	var line types.CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		log.Printf("Failed to decode request body: %v", err)
		s.sendResponse(w, http.StatusBadRequest, false, "Invalid request body", nil)
		return
	}

	cart, err := s.carts.UpsertLine(cartID, line)
	if err != nil {
		log.Printf("Failed to update cart %s: %v", cartID, err)
		s.sendResponse(w, http.StatusBadRequest, false, err.Error(), nil)
		return
	}

	s.sendResponse(w, http.StatusOK, true, "Cart updated successfully", cart)
}

// clearCart handles DELETE /api/v2/carts/{id}/items
func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cartID := vars["id"]

	log.Printf("DELETE /api/v2/carts/%s/items - Clearing cart", cartID)

	cart, err := s.carts.Clear(cartID)
	if err != nil {
		log.Printf("Failed to clear cart %s: %v", cartID, err)
		s.sendResponse(w, http.StatusNotFound, false, "Cart not found", nil)
		return
	}

	s.sendResponse(w, http.StatusOK, true, "Cart cleared successfully", cart)
}

// getCartTotals handles GET /api/v2/carts/{id}/totals
func (s *Server) getCartTotals(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cartID := vars["id"]

	totals, err := s.carts.Totals(cartID, s.serviceToken("settings.read"))
	if err != nil {
		log.Printf("Failed to compute totals for cart %s: %v", cartID, err)
		s.sendResponse(w, http.StatusBadRequest, false, err.Error(), nil)
		return
	}

	s.sendResponse(w, http.StatusOK, true, "Totals computed successfully", totals)
}

// checkoutCart handles POST /api/v2/carts/{id}/checkout
func (s *Server) checkoutCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cartID := vars["id"]

	log.Printf("POST /api/v2/carts/%s/checkout - Submitting order", cartID)

	receipt, err := s.carts.Checkout(cartID, s.serviceToken("order.submit"))
	if err != nil {
		log.Printf("Checkout of cart %s failed: %v", cartID, err)
		s.sendResponse(w, http.StatusBadRequest, false, err.Error(), nil)
		return
	}

	log.Printf("Cart %s checked out, order %s, txn %s", cartID, receipt.OrderID, receipt.ClientTxnID)
	s.sendResponse(w, http.StatusOK, true, "Order submitted successfully", receipt)
}
