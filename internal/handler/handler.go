package handler

import (
	"net/http"
	"slices"

	"github.com/contactbox/backend/internal/repository"
)

// Handler serves the health endpoints and the CORS middleware.
type Handler struct {
	db             repository.DB
	allowedOrigins []string
}

// New creates a Handler. db backs the readiness check; allowedOrigins feeds CORS.
func New(db repository.DB, allowedOrigins []string) *Handler {
	return &Handler{db: db, allowedOrigins: allowedOrigins}
}

// CORS echoes the request Origin back only when it is on the allow-list.
// A "*" entry allows any origin, but only explicitly listed origins get
// Access-Control-Allow-Credentials.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		w.Header().Add("Vary", "Origin")
		if origin != "" {
			listed := slices.Contains(h.allowedOrigins, origin)
			if listed || slices.Contains(h.allowedOrigins, "*") {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}
			if listed {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
