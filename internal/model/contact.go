package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AnonymousName is stored as the name of every anonymous submission.
const AnonymousName = "Anonymous"

// ContactStatus is the triage state of a contact message.
type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

// Valid reports whether s is one of the known statuses.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}

// ContactMessage represents a message submitted via the contact form.
// IP is recorded on insert but never serialized.
type ContactMessage struct {
	ID          string        `json:"id"`
	Message     string        `json:"message"`
	IsAnonymous bool          `json:"isAnonymous"`
	Name        string        `json:"name"`
	Email       *string       `json:"email"`
	Timestamp   time.Time     `json:"timestamp"`
	IP          string        `json:"-"`
	Status      ContactStatus `json:"status"`
}

// ContactSubmission is the raw payload of POST /api/contact.
// IsAnonymous is a pointer so an omitted field can be told apart from false.
// Form clients that send the flag as "true"/"false" or 1/0 are accepted; see
// UnmarshalJSON.
type ContactSubmission struct {
	Message     string `json:"message"`
	IsAnonymous *bool  `json:"isAnonymous"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

// Anonymous reports the effective anonymity flag; an omitted flag counts as false.
func (s ContactSubmission) Anonymous() bool {
	return s.IsAnonymous != nil && *s.IsAnonymous
}

// UnmarshalJSON decodes a submission, coercing isAnonymous to a boolean.
// JSON booleans, the strings "true"/"false"/"1"/"0" (case-insensitive) and the
// numbers 1/0 are accepted; null leaves the flag unset. Anything else is an error.
func (s *ContactSubmission) UnmarshalJSON(data []byte) error {
	type plain ContactSubmission
	var raw struct {
		plain
		IsAnonymous json.RawMessage `json:"isAnonymous"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	flag, err := parseFlag(raw.IsAnonymous)
	if err != nil {
		return err
	}
	*s = ContactSubmission(raw.plain)
	s.IsAnonymous = flag
	return nil
}

func parseFlag(raw json.RawMessage) (*bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		text = strings.ToLower(strings.TrimSpace(text))
	}

	var v bool
	switch text {
	case "true", "1":
		v = true
	case "false", "0":
		v = false
	default:
		return nil, fmt.Errorf("isAnonymous: cannot use %s as a boolean", raw)
	}
	return &v, nil
}
