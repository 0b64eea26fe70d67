package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/contactbox/backend/internal/model"
	"github.com/google/uuid"
)

// MemoryContactRepository keeps contact messages in process memory.
// It backs handler tests and local runs without PostgreSQL.
type MemoryContactRepository struct {
	mu       sync.RWMutex
	seq      int
	messages map[string]*memoryEntry
}

type memoryEntry struct {
	seq int
	msg model.ContactMessage
}

// NewMemoryContactRepository returns an empty in-memory repository.
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{messages: make(map[string]*memoryEntry)}
}

var _ ContactRepository = (*MemoryContactRepository)(nil)

func (r *MemoryContactRepository) Insert(ctx context.Context, msg *model.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg.ID = uuid.NewString()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if msg.Status == "" {
		msg.Status = model.ContactStatusNew
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.messages[msg.ID] = &memoryEntry{seq: r.seq, msg: *msg}
	return nil
}

// List returns copies ordered by timestamp descending; ties go to the later insert.
func (r *MemoryContactRepository) List(ctx context.Context) ([]*model.ContactMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	entries := make([]*memoryEntry, 0, len(r.messages))
	for _, e := range r.messages {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.msg.Timestamp.Equal(b.msg.Timestamp) {
			return a.msg.Timestamp.After(b.msg.Timestamp)
		}
		return a.seq > b.seq
	})

	out := make([]*model.ContactMessage, 0, len(entries))
	for _, e := range entries {
		m := e.msg
		m.IP = ""
		out = append(out, &m)
	}
	return out, nil
}

func (r *MemoryContactRepository) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.ContactMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.msg.Status = status
	m := e.msg
	m.IP = ""
	return &m, nil
}

// IP returns the recorded submitter address for id. It exists for tests that
// need to confirm the address was stored while staying hidden from List.
func (r *MemoryContactRepository) IP(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.messages[id]
	if !ok {
		return "", false
	}
	return e.msg.IP, true
}
