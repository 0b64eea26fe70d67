package handler

import (
	"net/http"
	"time"
)

// isoMillis matches the ISO 8601 form browsers produce with Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /api/health. It answers without touching the database so
// the keepalive pinger measures process liveness only.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(isoMillis),
	})
}

// Ready handles GET /api/health/ready and reports whether the database answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC().Format(isoMillis)
	if err := h.db.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "unavailable",
			Timestamp: now,
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK", Timestamp: now})
}
