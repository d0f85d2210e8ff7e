package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/domain/bill"
)

// BillStoreForCreate defines the store interface needed by CreateBill.
type BillStoreForCreate interface {
	Create(ctx context.Context, b bill.Bill) (string, error)
}

// CreateBillInput carries input for the create bill orchestrator.
type CreateBillInput struct {
	MemberID    string
	Amount      string // decimal text as typed by the admin
	Description string
}

// CreateBillDeps holds dependencies for CreateBill.
type CreateBillDeps struct {
	BillStore BillStoreForCreate
	Now       func() time.Time
	Logger    *slog.Logger
}

// ExecuteCreateBill issues an unpaid bill to a member.
// PRE: MemberID is non-empty; Amount parses as a non-negative decimal
// POST: Bill stored with status Unpaid and the current time as issue date
// INVARIANT: MemberID is not checked against the member collection
func ExecuteCreateBill(ctx context.Context, input CreateBillInput, deps CreateBillDeps) (bill.Bill, error) {
	amount, err := bill.ParseAmount(input.Amount)
	if err != nil {
		return bill.Bill{}, err
	}

	b := bill.Bill{
		MemberID:    strings.TrimSpace(input.MemberID),
		Amount:      amount,
		Description: strings.TrimSpace(input.Description),
		IssuedAt:    deps.Now(),
		Status:      bill.StatusUnpaid,
	}
	if err := b.Validate(); err != nil {
		return bill.Bill{}, err
	}

	id, err := deps.BillStore.Create(ctx, b)
	if err != nil {
		return bill.Bill{}, err
	}
	b.ID = id

	loggerOr(deps.Logger).Info("bill_event", "event", "bill_created", "bill_id", b.ID, "member_id", b.MemberID, "amount", bill.FormatAmount(b.Amount))
	return b, nil
}
