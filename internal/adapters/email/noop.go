package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoopSender logs sends without delivering anything. It keeps the requests
// it was given so callers can inspect them.
type NoopSender struct {
	log *slog.Logger

	mu   sync.Mutex
	sent []SendRequest
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender(logger *slog.Logger) *NoopSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopSender{log: logger}
}

// Send logs the email but does not deliver it.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.record(req)
	s.log.Info("noop_email_send", "to", req.To, "subject", req.Subject)
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

// SendBatch logs the batch but does not deliver.
// POST: One result per request, in order
func (s *NoopSender) SendBatch(_ context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for i, req := range reqs {
		s.record(req)
		results = append(results, SendResult{
			MessageID: fmt.Sprintf("noop-batch-%d-%d", time.Now().UnixNano(), i),
			SentAt:    time.Now(),
		})
	}
	s.log.Info("noop_email_batch", "count", len(reqs))
	return results, nil
}

// Sent returns a copy of every request handed to the sender.
func (s *NoopSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SendRequest, len(s.sent))
	copy(out, s.sent)
	return out
}

func (s *NoopSender) record(req SendRequest) {
	s.mu.Lock()
	s.sent = append(s.sent, req)
	s.mu.Unlock()
}
