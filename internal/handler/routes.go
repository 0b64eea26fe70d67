package handler

import "net/http"

// NewMux registers the API routes. submitLimit wraps POST /api/contact only;
// pass nil to leave submissions unlimited.
func NewMux(h *Handler, contacts *ContactHandler, submitLimit func(http.Handler) http.Handler) *http.ServeMux {
	submit := http.Handler(http.HandlerFunc(contacts.Submit))
	if submitLimit != nil {
		submit = submitLimit(submit)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/health/ready", h.Ready)
	mux.Handle("POST /api/contact", submit)

	// Admin routes: no auth here; protect them at the gateway.
	mux.HandleFunc("GET /api/contact", contacts.List)
	mux.HandleFunc("PATCH /api/contact/{id}/status", contacts.UpdateStatus)
	return mux
}
