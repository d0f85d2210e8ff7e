package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gymdesk/internal/domain/bill"
)

// BillStoreForPayment defines the store interface needed by MarkPaid.
type BillStoreForPayment interface {
	GetByID(ctx context.Context, id string) (bill.Bill, error)
	SavePayment(ctx context.Context, b bill.Bill) error
}

// MarkPaidInput carries input for the mark paid orchestrator.
type MarkPaidInput struct {
	BillID string
}

// MarkPaidDeps holds dependencies for MarkPaid.
type MarkPaidDeps struct {
	BillStore BillStoreForPayment
	Now       func() time.Time
	Logger    *slog.Logger
}

// ExecuteMarkPaid moves a bill to Paid and stamps the paid date.
// PRE: BillID exists
// POST: Bill status is Paid and PaidAt is now. Repeating the call on a paid
// bill succeeds and re-stamps PaidAt.
func ExecuteMarkPaid(ctx context.Context, input MarkPaidInput, deps MarkPaidDeps) (bill.Bill, error) {
	if input.BillID == "" {
		return bill.Bill{}, errors.New("bill ID is required")
	}

	b, err := deps.BillStore.GetByID(ctx, input.BillID)
	if err != nil {
		return bill.Bill{}, err
	}
	wasPaid := b.IsPaid()
	b.MarkPaid(deps.Now())

	if err := deps.BillStore.SavePayment(ctx, b); err != nil {
		return bill.Bill{}, err
	}

	loggerOr(deps.Logger).Info("bill_event", "event", "bill_paid", "bill_id", b.ID, "member_id", b.MemberID, "repeat", wasPaid)
	return b, nil
}
