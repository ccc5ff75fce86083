package api

import (
	"net/http"
	"time"

	"foodcourt/internal/conf"
	"foodcourt/internal/redisdb"
)

// HealthStatus reports the liveness of the server and its backing stores
type HealthStatus struct {
	Status    string `json:"status"`
	Sandbox   bool   `json:"sandbox"`
	Redis     bool   `json:"redis"`
	Timestamp int64  `json:"timestamp"`
}

// healthCheck handles GET /api/v2/health
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Sandbox:   conf.GetIsSandbox(),
		Redis:     redisdb.Initialized(),
		Timestamp: time.Now().Unix(),
	}

	s.sendResponse(w, http.StatusOK, true, "Service is healthy", status)
}
