package domain

import (
	"context"
	"errors"
)

// ErrMailDisabled is returned when no reminder recipient is configured.
var ErrMailDisabled = errors.New("email not configured")

// Message is a single outgoing email. Text is optional; senders derive a
// plain-text part from HTML when it is empty.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Notifier delivers a message once. It does not retry.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
