package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contactbox/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

// Insert writes a new contact_messages row. The id is generated here so the
// caller gets it back without a round trip through RETURNING.
func (r *PgContactRepository) Insert(ctx context.Context, msg *model.ContactMessage) error {
	msg.ID = uuid.NewString()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if msg.Status == "" {
		msg.Status = model.ContactStatusNew
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO contact_messages (id, message, is_anonymous, name, email, created_at, ip, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		msg.ID, msg.Message, msg.IsAnonymous, msg.Name, msg.Email, msg.Timestamp, msg.IP, string(msg.Status),
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

// List returns all contact messages, newest first. The ip column is never selected.
func (r *PgContactRepository) List(ctx context.Context) ([]*model.ContactMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, message, is_anonymous, name, email, created_at, status
		 FROM contact_messages
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

// UpdateStatus sets the status of one message and returns the updated row.
// Ids that are not UUIDs cannot exist and are reported as ErrNotFound.
func (r *PgContactRepository) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.ContactMessage, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE contact_messages SET status = $2
		 WHERE id = $1::uuid
		 RETURNING id::text, message, is_anonymous, name, email, created_at, status`,
		id, string(status),
	)
	m, err := scanContact(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update contact status: %w", err)
	}
	return m, nil
}

func scanContact(row pgx.Row) (*model.ContactMessage, error) {
	var (
		m      model.ContactMessage
		status string
	)
	if err := row.Scan(&m.ID, &m.Message, &m.IsAnonymous, &m.Name, &m.Email, &m.Timestamp, &status); err != nil {
		return nil, err
	}
	m.Status = model.ContactStatus(status)
	return &m, nil
}
