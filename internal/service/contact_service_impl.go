package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contactbox/backend/internal/model"
	"github.com/contactbox/backend/internal/notify"
	"github.com/contactbox/backend/internal/repository"
	"github.com/contactbox/backend/internal/validation"
)

const publishTimeout = 3 * time.Second

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo      repository.ContactRepository
	publisher notify.Publisher
	now       func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
// A nil publisher disables event publishing.
func NewContactService(repo repository.ContactRepository, publisher notify.Publisher) ContactService {
	if publisher == nil {
		publisher = notify.Noop{}
	}
	return &contactServiceImpl{repo: repo, publisher: publisher, now: time.Now}
}

// Submit validates the payload before anything touches storage. Anonymous
// messages are stored under the name "Anonymous" with no email.
func (s *contactServiceImpl) Submit(ctx context.Context, sub model.ContactSubmission, ip string) (*model.ContactMessage, error) {
	clean, err := validation.Submission(sub)
	if err != nil {
		return nil, err
	}

	msg := &model.ContactMessage{
		Message:     clean.Message,
		IsAnonymous: clean.Anonymous(),
		Name:        clean.Name,
		Timestamp:   s.now().UTC(),
		IP:          ip,
		Status:      model.ContactStatusNew,
	}
	if !msg.IsAnonymous {
		email := clean.Email
		msg.Email = &email
	}

	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}

	slog.Info("contact message received",
		"id", msg.ID,
		"anonymous", msg.IsAnonymous,
		"name", msg.Name,
		"email", maskEmail(msg.Email),
		"preview", notify.Preview(msg.Message),
		"timestamp", msg.Timestamp,
	)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishContactSubmitted(pubCtx, notify.NewContactSubmitted(msg)); err != nil {
		slog.Warn("publish contact event failed", "id", msg.ID, "error", err)
	}

	return msg, nil
}

// List returns every stored contact message, newest first.
func (s *contactServiceImpl) List(ctx context.Context) ([]*model.ContactMessage, error) {
	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

// UpdateStatus changes the status of a contact message.
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id string, status string) (*model.ContactMessage, error) {
	st, err := validation.Status(status)
	if err != nil {
		return nil, err
	}
	msg, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(id), st)
	if err != nil {
		return nil, fmt.Errorf("update contact status: %w", err)
	}
	return msg, nil
}

// maskEmail keeps the first character of the local part: "jo@example.com"
// becomes "j***@example.com". Anonymous messages log "none".
func maskEmail(email *string) string {
	if email == nil || *email == "" {
		return "none"
	}
	local, domain, ok := strings.Cut(*email, "@")
	if !ok || local == "" {
		return "***"
	}
	return local[:1] + "***@" + domain
}
