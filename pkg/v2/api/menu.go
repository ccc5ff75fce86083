package api

import (
	"log"
	"net/http"

	"foodcourt/internal/menu"

	"github.com/gorilla/mux"
)

// publicToken is accepted by the core API for unauthenticated menu reads.
const publicToken = "public"

// getPublicMenu handles GET /api/v2/vendors/{vendor}/menu
func (s *Server) getPublicMenu(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vendorID := vars["vendor"]

	log.Printf("GET /api/v2/vendors/%s/menu - Getting public menu", vendorID)

	if vendorID == "" {
		s.sendResponse(w, http.StatusBadRequest, false, "Vendor id cannot be empty", nil)
		return
	}

	payload, err := menu.FetchVendorMenu(vendorID, s.serviceToken("menu.read"))
	if err != nil {
		log.Printf("Failed to fetch menu for vendor %s: %v", vendorID, err)
		s.sendResponse(w, http.StatusNotFound, false, "Menu not found", nil)
		return
	}

	view := menu.BuildPublicView(payload)

	s.sendResponse(w, http.StatusOK, true, "Menu retrieved successfully", view)
}
