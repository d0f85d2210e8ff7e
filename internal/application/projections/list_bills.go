package projections

import (
	"context"

	billstore "gymdesk/internal/adapters/storage/bill"
	memberstore "gymdesk/internal/adapters/storage/member"
	domainBill "gymdesk/internal/domain/bill"
)

// dateLayout is how bill dates are shown.
const dateLayout = "2006-01-02"

// ListBillsQuery carries query parameters. An empty MemberID lists every bill.
type ListBillsQuery struct {
	MemberID string
}

// BillRow is one line of a bill table.
type BillRow struct {
	ID          string
	MemberID    string
	MemberName  string
	Amount      string
	Description string
	IssuedOn    string
	Status      string
	PaidOn      string
	Payable     bool
	HasReceipt  bool
}

// ListBillsResult carries the query result.
type ListBillsResult struct {
	Bills     []BillRow
	TotalPaid string
}

// ListBillsDeps holds dependencies for ListBills. MemberStore is only needed
// when listing every bill.
type ListBillsDeps struct {
	BillStore   BillStore
	MemberStore MemberStore
}

// QueryListBills lists bills in insertion order with the total paid.
// PRE: none
// POST: When listing all bills, each row carries the member's name if the
// member still exists, otherwise the raw member ID
// INVARIANT: Only Unpaid bills are payable; only Paid bills have receipts
func QueryListBills(ctx context.Context, query ListBillsQuery, deps ListBillsDeps) (ListBillsResult, error) {
	bills, err := deps.BillStore.List(ctx, billstore.ListFilter{MemberID: query.MemberID})
	if err != nil {
		return ListBillsResult{}, err
	}

	names := map[string]string{}
	if query.MemberID == "" && deps.MemberStore != nil {
		members, err := deps.MemberStore.List(ctx, memberstore.ListFilter{})
		if err != nil {
			return ListBillsResult{}, err
		}
		for _, m := range members {
			names[m.ID] = m.Name
		}
	}

	rows := make([]BillRow, 0, len(bills))
	var totalPaid int64
	for _, b := range bills {
		name, ok := names[b.MemberID]
		if !ok {
			name = b.MemberID
		}
		row := BillRow{
			ID:          b.ID,
			MemberID:    b.MemberID,
			MemberName:  name,
			Amount:      domainBill.FormatAmount(b.Amount),
			Description: b.Description,
			IssuedOn:    b.IssuedAt.Format(dateLayout),
			Status:      b.Status,
			Payable:     !b.IsPaid(),
			HasReceipt:  b.IsPaid(),
		}
		if b.IsPaid() {
			totalPaid += b.Amount
			if !b.PaidAt.IsZero() {
				row.PaidOn = b.PaidAt.Format(dateLayout)
			}
		}
		rows = append(rows, row)
	}
	return ListBillsResult{Bills: rows, TotalPaid: domainBill.FormatAmount(totalPaid)}, nil
}
