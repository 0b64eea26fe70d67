package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contactbox/backend/internal/model"
	"github.com/contactbox/backend/internal/notify"
	"github.com/contactbox/backend/internal/repository"
	"github.com/contactbox/backend/internal/validation"
)

// ---------------------------------------------------------------------------
// mockContactRepository is a function-field stub.
// ---------------------------------------------------------------------------

type mockContactRepository struct {
	insertFunc       func(ctx context.Context, msg *model.ContactMessage) error
	listFunc         func(ctx context.Context) ([]*model.ContactMessage, error)
	updateStatusFunc func(ctx context.Context, id string, status model.ContactStatus) (*model.ContactMessage, error)
	insertCalls      int
}

func (m *mockContactRepository) Insert(ctx context.Context, msg *model.ContactMessage) error {
	m.insertCalls++
	if m.insertFunc != nil {
		return m.insertFunc(ctx, msg)
	}
	msg.ID = "generated-id"
	return nil
}

func (m *mockContactRepository) List(ctx context.Context) ([]*model.ContactMessage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockContactRepository) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.ContactMessage, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return &model.ContactMessage{ID: id, Status: status}, nil
}

type mockPublisher struct {
	events []notify.ContactSubmitted
	err    error
}

func (m *mockPublisher) PublishContactSubmitted(ctx context.Context, event notify.ContactSubmitted) error {
	m.events = append(m.events, event)
	return m.err
}

func boolPtr(b bool) *bool { return &b }

// ---------------------------------------------------------------------------
// Submit tests
// ---------------------------------------------------------------------------

func TestContactService_Submit_Anonymous(t *testing.T) {
	var saved *model.ContactMessage
	repo := &mockContactRepository{
		insertFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			msg.ID = "abc"
			saved = msg
			return nil
		},
	}
	svc := NewContactService(repo, nil)

	msg, err := svc.Submit(context.Background(), model.ContactSubmission{
		Message:     "Hello there, this is a test.",
		IsAnonymous: boolPtr(true),
		Name:        "Should be dropped",
		Email:       "dropped@example.com",
	}, "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID != "abc" {
		t.Errorf("expected id=abc, got %q", msg.ID)
	}
	if saved.Name != model.AnonymousName {
		t.Errorf("expected name=Anonymous, got %q", saved.Name)
	}
	if saved.Email != nil {
		t.Errorf("expected nil email, got %q", *saved.Email)
	}
	if saved.IP != "203.0.113.7" {
		t.Errorf("expected ip recorded, got %q", saved.IP)
	}
	if saved.Status != model.ContactStatusNew {
		t.Errorf("expected status=new, got %q", saved.Status)
	}
	if !saved.IsAnonymous {
		t.Error("expected IsAnonymous=true")
	}
}

func TestContactService_Submit_Attributed(t *testing.T) {
	var saved *model.ContactMessage
	repo := &mockContactRepository{
		insertFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			saved = msg
			return nil
		},
	}
	svc := NewContactService(repo, nil)

	_, err := svc.Submit(context.Background(), model.ContactSubmission{
		Message:     "Hello there, this is a test.",
		IsAnonymous: boolPtr(false),
		Name:        "Jo",
		Email:       " JO@example.com ",
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Name != "Jo" {
		t.Errorf("expected name=Jo, got %q", saved.Name)
	}
	if saved.Email == nil || *saved.Email != "jo@example.com" {
		t.Errorf("expected email=jo@example.com, got %v", saved.Email)
	}
}

// TestContactService_Submit_SetsTimestamp verifies the service stamps submission time.
func TestContactService_Submit_SetsTimestamp(t *testing.T) {
	before := time.Now()
	var saved *model.ContactMessage
	repo := &mockContactRepository{
		insertFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			saved = msg
			return nil
		},
	}
	svc := NewContactService(repo, nil)

	if _, err := svc.Submit(context.Background(), model.ContactSubmission{
		Message:     "Timestamps test message",
		IsAnonymous: boolPtr(true),
	}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := time.Now()
	if saved.Timestamp.Before(before) || saved.Timestamp.After(after) {
		t.Errorf("Timestamp %v not in expected range [%v, %v]", saved.Timestamp, before, after)
	}
}

// TestContactService_Submit_ValidationSkipsStorage verifies invalid input never reaches the repository.
func TestContactService_Submit_ValidationSkipsStorage(t *testing.T) {
	repo := &mockContactRepository{}
	pub := &mockPublisher{}
	svc := NewContactService(repo, pub)

	_, err := svc.Submit(context.Background(), model.ContactSubmission{
		Message:     "too short",
		IsAnonymous: boolPtr(true),
	}, "")

	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	if vErr.Reason != validation.ReasonMessageTooShort {
		t.Errorf("expected reason %q, got %q", validation.ReasonMessageTooShort, vErr.Reason)
	}
	if repo.insertCalls != 0 {
		t.Errorf("expected no Insert calls, got %d", repo.insertCalls)
	}
	if len(pub.events) != 0 {
		t.Errorf("expected no events, got %d", len(pub.events))
	}
}

// TestContactService_Submit_RepositoryError propagates repository errors.
func TestContactService_Submit_RepositoryError(t *testing.T) {
	dbErr := errors.New("db write failed")
	repo := &mockContactRepository{
		insertFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			return dbErr
		},
	}
	pub := &mockPublisher{}
	svc := NewContactService(repo, pub)

	_, err := svc.Submit(context.Background(), model.ContactSubmission{
		Message:     "Hello there, this is a test.",
		IsAnonymous: boolPtr(true),
	}, "")
	if !errors.Is(err, dbErr) {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Error("no event should be published when the insert fails")
	}
}

func TestContactService_Submit_PublishesEvent(t *testing.T) {
	pub := &mockPublisher{}
	svc := NewContactService(&mockContactRepository{}, pub)

	if _, err := svc.Submit(context.Background(), model.ContactSubmission{
		Message:     "Hello there, this is a test.",
		IsAnonymous: boolPtr(true),
	}, "203.0.113.7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	if pub.events[0].ID != "generated-id" {
		t.Errorf("expected event id=generated-id, got %q", pub.events[0].ID)
	}
}

// TestContactService_Submit_PublishErrorIgnored verifies broker failures do not fail the submission.
func TestContactService_Submit_PublishErrorIgnored(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := NewContactService(&mockContactRepository{}, pub)

	msg, err := svc.Submit(context.Background(), model.ContactSubmission{
		Message:     "Hello there, this is a test.",
		IsAnonymous: boolPtr(true),
	}, "")
	if err != nil {
		t.Fatalf("expected success despite publish error, got %v", err)
	}
	if msg.ID == "" {
		t.Error("expected id to be set")
	}
}

// ---------------------------------------------------------------------------
// List / UpdateStatus tests
// ---------------------------------------------------------------------------

func TestContactService_List_ReturnsMessages(t *testing.T) {
	expected := []*model.ContactMessage{{ID: "1"}, {ID: "2"}}
	svc := NewContactService(&mockContactRepository{
		listFunc: func(ctx context.Context) ([]*model.ContactMessage, error) {
			return expected, nil
		},
	}, nil)

	result, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("expected 2 messages, got %d", len(result))
	}
}

func TestContactService_List_RepositoryError(t *testing.T) {
	svc := NewContactService(&mockContactRepository{
		listFunc: func(ctx context.Context) ([]*model.ContactMessage, error) {
			return nil, errors.New("db read failed")
		},
	}, nil)

	if _, err := svc.List(context.Background()); err == nil {
		t.Error("expected error from repository, got nil")
	}
}

func TestContactService_UpdateStatus_Forwards(t *testing.T) {
	var gotID string
	var gotStatus model.ContactStatus
	svc := NewContactService(&mockContactRepository{
		updateStatusFunc: func(ctx context.Context, id string, status model.ContactStatus) (*model.ContactMessage, error) {
			gotID, gotStatus = id, status
			return &model.ContactMessage{ID: id, Status: status}, nil
		},
	}, nil)

	msg, err := svc.UpdateStatus(context.Background(), "abc", "replied")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "abc" || gotStatus != model.ContactStatusReplied {
		t.Errorf("expected (abc, replied), got (%q, %q)", gotID, gotStatus)
	}
	if msg.Status != model.ContactStatusReplied {
		t.Errorf("expected status=replied, got %q", msg.Status)
	}
}

func TestContactService_UpdateStatus_InvalidStatus(t *testing.T) {
	called := false
	svc := NewContactService(&mockContactRepository{
		updateStatusFunc: func(ctx context.Context, id string, status model.ContactStatus) (*model.ContactMessage, error) {
			called = true
			return nil, nil
		},
	}, nil)

	_, err := svc.UpdateStatus(context.Background(), "abc", "archived")
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	if called {
		t.Error("repository must not be called for an invalid status")
	}
}

func TestContactService_UpdateStatus_NotFound(t *testing.T) {
	svc := NewContactService(&mockContactRepository{
		updateStatusFunc: func(ctx context.Context, id string, status model.ContactStatus) (*model.ContactMessage, error) {
			return nil, repository.ErrNotFound
		},
	}, nil)

	_, err := svc.UpdateStatus(context.Background(), "missing", "read")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMaskEmail(t *testing.T) {
	email := "jo@example.com"
	empty := ""
	bad := "@example.com"
	tests := []struct {
		in   *string
		want string
	}{
		{&email, "j***@example.com"},
		{nil, "none"},
		{&empty, "none"},
		{&bad, "***"},
	}
	for _, tt := range tests {
		if got := maskEmail(tt.in); got != tt.want {
			t.Errorf("maskEmail: want %q, got %q", tt.want, got)
		}
	}
}
