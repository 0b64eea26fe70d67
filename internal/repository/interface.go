package repository

import (
	"context"

	"github.com/contactbox/backend/internal/model"
)

// DB is the liveness check the readiness endpoint depends on.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository defines the persistence interface for contact messages.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	// Insert assigns msg.ID (and msg.Timestamp when zero) and persists msg.
	Insert(ctx context.Context, msg *model.ContactMessage) error
	// List returns every message, newest first, with IP left empty.
	List(ctx context.Context) ([]*model.ContactMessage, error)
	// UpdateStatus returns ErrNotFound when no message has the given id.
	UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.ContactMessage, error)
}
