package mailer

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned when no SMTP host or sender address is set.
	ErrNotConfigured = errors.New("mail transport not configured")
	// ErrNoRecipients is returned for a message with an empty To list.
	ErrNoRecipients = errors.New("message has no recipients")
)

// Attachment is a file carried in memory for the duration of one send.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one HTML email addressed to every entry of To.
type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Transport delivers a message. Implementations must not retry.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}
