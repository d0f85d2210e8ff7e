package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// resendBatchLimit is the maximum number of emails per Resend batch call.
const resendBatchLimit = 100

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	log    *slog.Logger
}

// NewResendSender creates a new ResendSender with the given API key and default from address.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
// POST: Returns a ready-to-use sender
func NewResendSender(apiKey, from string, logger *slog.Logger) *ResendSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    logger,
	}
}

func (s *ResendSender) params(req SendRequest) *resend.SendEmailRequest {
	from := req.From
	if from == "" {
		from = s.from
	}
	p := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    req.Text,
	}
	if req.ReplyTo != "" {
		p.ReplyTo = req.ReplyTo
	}
	return p
}

// Send sends a single email via Resend.
// PRE: req has at least one recipient and a subject
// POST: Email is queued for delivery; returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, s.params(req))
	if err != nil {
		s.log.Error("resend_send_failed", "error", err, "to", req.To, "subject", req.Subject)
		return SendResult{}, fmt.Errorf("resend send failed: %w", err)
	}

	s.log.Info("resend_sent", "message_id", sent.Id, "subject", req.Subject)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

// SendBatch sends emails through Resend's batch API in chunks of
// resendBatchLimit.
// POST: Results are in request order; on error, results for the chunks
// already accepted are returned with it
func (s *ResendSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	results := make([]SendResult, 0, len(reqs))
	for start := 0; start < len(reqs); start += resendBatchLimit {
		end := min(start+resendBatchLimit, len(reqs))
		chunk := reqs[start:end]

		batch := make([]*resend.SendEmailRequest, 0, len(chunk))
		for _, req := range chunk {
			batch = append(batch, s.params(req))
		}

		resp, err := s.client.Batch.SendWithContext(ctx, batch)
		if err != nil {
			s.log.Error("resend_batch_failed", "error", err, "batch_size", len(chunk), "accepted", len(results))
			return results, fmt.Errorf("resend batch send failed: %w", err)
		}
		for _, item := range resp.Data {
			results = append(results, SendResult{MessageID: item.Id, SentAt: time.Now()})
		}
		s.log.Info("resend_batch_sent", "count", len(chunk), "total_sent", len(results))
	}
	return results, nil
}
