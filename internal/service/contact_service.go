package service

import (
	"context"

	"github.com/contactbox/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates sub, stores it with the caller's ip and returns the
	// stored message. Validation failures are *validation.Error.
	Submit(ctx context.Context, sub model.ContactSubmission, ip string) (*model.ContactMessage, error)

	// List returns every contact message, newest first, without ip.
	List(ctx context.Context) ([]*model.ContactMessage, error)

	// UpdateStatus changes the status of one message. It returns
	// repository.ErrNotFound for unknown ids.
	UpdateStatus(ctx context.Context, id string, status string) (*model.ContactMessage, error)
}
