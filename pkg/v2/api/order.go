package api

import (
	"encoding/json"
	"log"
	"net/http"

	"foodcourt/internal/backend"

	"github.com/gorilla/mux"
)

// getOrder handles GET /api/v2/orders/{id}
func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID := vars["id"]

	log.Printf("GET /api/v2/orders/%s - Fetching order", orderID)

	body, err := backend.GetOrder(orderID, s.serviceToken("order.read"))
	if err != nil {
		log.Printf("Failed to fetch order %s: %v", orderID, err)
		s.sendResponse(w, http.StatusNotFound, false, "Order not found", nil)
		return
	}

	var order map[string]interface{}
	if err := json.Unmarshal([]byte(body), &order); err != nil {
		log.Printf("Failed to parse order %s: %v", orderID, err)
		s.sendResponse(w, http.StatusInternalServerError, false, "Failed to parse order", nil)
		return
	}

	s.sendResponse(w, http.StatusOK, true, "Order retrieved successfully", order)
}
