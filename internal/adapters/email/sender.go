// Package email delivers outgoing mail. Broadcast notifications are fanned
// out through Sender.SendBatch.
package email

import (
	"context"
	"log/slog"
	"time"
)

// SendRequest contains the data needed to send one email.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address; empty uses the sender's default
	Subject string
	HTML    string // HTML body
	Text    string // Plain-text alternative
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}

// New returns a Resend-backed sender when apiKey is set and a NoopSender
// otherwise.
func New(apiKey, from string, logger *slog.Logger) Sender {
	if apiKey == "" {
		return NewNoopSender(logger)
	}
	return NewResendSender(apiKey, from, logger)
}
