// Package validation holds the input rules for contact submissions. The rules are
// pure functions and know nothing about storage.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/contactbox/backend/internal/model"
)

const (
	MinMessageLength = 10
	MaxMessageLength = 2000
	MinNameLength    = 2
	MaxNameLength    = 100
	MaxEmailLength   = 100
)

// Rule reasons, reported verbatim to clients.
const (
	ReasonMessageTooShort = "Message must be at least 10 characters long"
	ReasonMessageTooLong  = "Message must not exceed 2000 characters"
	ReasonNameTooShort    = "Name must be at least 2 characters long"
	ReasonNameTooLong     = "Name must not exceed 100 characters"
	ReasonInvalidEmail    = "Please provide a valid email address"
	ReasonEmailTooLong    = "Email must not exceed 100 characters"
	ReasonInvalidStatus   = "Invalid status"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Error is a client input failure. Reason names the first violated rule.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func fail(reason string) error { return &Error{Reason: reason} }

// Submission checks s and returns its normalized form: trimmed message, and for
// attributed submissions a trimmed name and a trimmed, lower-cased email.
// Anonymous submissions come back with Name "Anonymous" and an empty Email.
func Submission(s model.ContactSubmission) (model.ContactSubmission, error) {
	anonymous := s.Anonymous()
	out := model.ContactSubmission{
		Message:     strings.TrimSpace(s.Message),
		IsAnonymous: &anonymous,
		Name:        model.AnonymousName,
	}

	n := utf8.RuneCountInString(out.Message)
	if n < MinMessageLength {
		return out, fail(ReasonMessageTooShort)
	}
	if n > MaxMessageLength {
		return out, fail(ReasonMessageTooLong)
	}
	if anonymous {
		return out, nil
	}

	out.Name = strings.TrimSpace(s.Name)
	n = utf8.RuneCountInString(out.Name)
	if n < MinNameLength {
		return out, fail(ReasonNameTooShort)
	}
	if n > MaxNameLength {
		return out, fail(ReasonNameTooLong)
	}

	out.Email = strings.ToLower(strings.TrimSpace(s.Email))
	if !ValidEmail(out.Email) {
		return out, fail(ReasonInvalidEmail)
	}
	if utf8.RuneCountInString(out.Email) > MaxEmailLength {
		return out, fail(ReasonEmailTooLong)
	}
	return out, nil
}

// ValidEmail reports whether email has the local-part@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Status checks that raw names a known contact status.
func Status(raw string) (model.ContactStatus, error) {
	s := model.ContactStatus(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fail(ReasonInvalidStatus)
	}
	return s, nil
}
