package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/contactbox/backend/internal/model"
	"github.com/contactbox/backend/internal/repository"
	"github.com/contactbox/backend/internal/service"
	"github.com/contactbox/backend/internal/validation"
)

// maxBodyBytes caps JSON request bodies on the contact endpoints.
const maxBodyBytes = 10 << 10

// ContactHandler handles contact form submission and admin listing.
type ContactHandler struct {
	contactService    service.ContactService
	trustedProxyCount int
}

// NewContactHandler creates a ContactHandler with the given service.
// trustedProxyCount is forwarded to ClientIP when recording the submitter address.
func NewContactHandler(contactService service.ContactService, trustedProxyCount int) *ContactHandler {
	return &ContactHandler{contactService: contactService, trustedProxyCount: trustedProxyCount}
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.ContactSubmission
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.contactService.Submit(r.Context(), req, ClientIP(r, h.trustedProxyCount))
	if err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Reason)
			return
		}
		slog.Error("contact submit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success: true,
		Message: "Message sent successfully",
		ID:      msg.ID,
	})
}

type listResponse struct {
	Success bool                    `json:"success"`
	Data    []*model.ContactMessage `json:"data"`
}

// List handles GET /api/contact. Access control is left to the gateway in front.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contactService.List(r.Context())
	if err != nil {
		slog.Error("contact list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.ContactMessage{}
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Data: messages})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Success bool                  `json:"success"`
	Data    *model.ContactMessage `json:"data"`
}

// UpdateStatus handles PATCH /api/contact/{id}/status.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.contactService.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		var vErr *validation.Error
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Reason)
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "Message not found")
		default:
			slog.Error("contact status update failed", "id", r.PathValue("id"), "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Data: msg})
}

// decodeBody reads a size-limited JSON body into v and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
