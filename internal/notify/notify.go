// Package notify publishes contact-inbox events to a message broker.
// Publishing is best effort; callers log failures and carry on.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/contactbox/backend/internal/model"
)

// DefaultQueue is the queue submitted-message events are routed to.
const DefaultQueue = "contact.submitted"

const previewLength = 50

// defaultDialTimeout bounds the TCP dial and AMQP handshake when ctx has no deadline.
const defaultDialTimeout = 5 * time.Second

// ContactSubmitted is the event body published for every accepted submission.
// It never carries the submitter's email or ip.
type ContactSubmitted struct {
	ID          string    `json:"id"`
	IsAnonymous bool      `json:"isAnonymous"`
	Name        string    `json:"name"`
	Preview     string    `json:"preview"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewContactSubmitted builds the event for a stored message.
func NewContactSubmitted(msg *model.ContactMessage) ContactSubmitted {
	return ContactSubmitted{
		ID:          msg.ID,
		IsAnonymous: msg.IsAnonymous,
		Name:        msg.Name,
		Preview:     Preview(msg.Message),
		Timestamp:   msg.Timestamp,
	}
}

// Preview returns the first 50 characters of s, with "..." appended when cut.
func Preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLength {
		return s
	}
	return string([]rune(s)[:previewLength]) + "..."
}

// Publisher delivers domain events.
type Publisher interface {
	PublishContactSubmitted(ctx context.Context, event ContactSubmitted) error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishContactSubmitted(context.Context, ContactSubmitted) error { return nil }

// dialFunc is a seam for tests.
var dialFunc = amqp.DialConfig

// AMQPPublisher publishes persistent JSON messages to a durable RabbitMQ queue.
// It dials per publish, so a broker restart never leaves it with a dead channel.
type AMQPPublisher struct {
	url   string
	queue string
}

// NewAMQPPublisher returns a publisher for the broker at url. An empty queue
// selects DefaultQueue.
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &AMQPPublisher{url: url, queue: queue}
}

var _ Publisher = (*AMQPPublisher)(nil)

func (p *AMQPPublisher) PublishContactSubmitted(ctx context.Context, event ContactSubmitted) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// amqp.Dial ignores ctx and waits up to 30s for the handshake, so the
	// connection deadline is taken from ctx instead.
	conn, err := dialFunc(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout(ctx))})
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         "contact.submitted",
		MessageId:    event.ID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func dialTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout
	}
	if d := time.Until(deadline); d > 0 {
		return d
	}
	return time.Millisecond
}
