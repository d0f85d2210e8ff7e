package projections

import (
	"context"
	"errors"

	"gymdesk/internal/domain/receipt"
)

// ErrReceiptNotFound is returned when the bill does not exist or does not
// belong to the signed-in member.
var ErrReceiptNotFound = errors.New("receipt not found")

// ReceiptQuery carries query parameters.
type ReceiptQuery struct {
	Who    MemberIdentity
	BillID string
}

// ReceiptResult is a ready-to-download receipt file.
type ReceiptResult struct {
	FileName string
	Body     string
}

// ReceiptDeps holds dependencies for Receipt.
type ReceiptDeps struct {
	MemberStore    MemberStore
	BillStore      BillStore
	GymName        string
	CurrencySymbol string
	FilePrefix     string
}

// QueryReceipt renders the plain-text receipt for one of the member's bills.
// PRE: Who describes an authenticated identity
// POST: Returns ErrReceiptNotFound for unknown or foreign bills and
// receipt.ErrNotPaid for unpaid ones
func QueryReceipt(ctx context.Context, query ReceiptQuery, deps ReceiptDeps) (ReceiptResult, error) {
	m, found, err := ResolveMember(ctx, query.Who, deps.MemberStore)
	if err != nil {
		return ReceiptResult{}, err
	}
	if !found {
		return ReceiptResult{}, ErrReceiptNotFound
	}

	b, err := deps.BillStore.GetByID(ctx, query.BillID)
	if isNotFound(err) {
		return ReceiptResult{}, ErrReceiptNotFound
	}
	if err != nil {
		return ReceiptResult{}, err
	}
	if b.MemberID != m.ID {
		return ReceiptResult{}, ErrReceiptNotFound
	}

	r, err := receipt.FromBill(deps.GymName, deps.CurrencySymbol, m.Name, m.Email, b)
	if err != nil {
		return ReceiptResult{}, err
	}
	return ReceiptResult{
		FileName: receipt.FileName(deps.FilePrefix, b.ID),
		Body:     r.Text(),
	}, nil
}
