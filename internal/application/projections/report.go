package projections

import (
	"context"

	billstore "gymdesk/internal/adapters/storage/bill"
	domainBill "gymdesk/internal/domain/bill"
)

// Report is the admin summary.
type Report struct {
	TotalMembers  int    `json:"total_members"`
	Revenue       int64  `json:"revenue_minor"`
	RevenueText   string `json:"revenue"`
	PaidCount     int    `json:"paid_count"`
	PendingCount  int    `json:"pending_count"`
	PendingAmount int64  `json:"pending_amount_minor"`
	PendingText   string `json:"pending_amount"`
}

// ReportDeps holds dependencies for Report.
type ReportDeps struct {
	MemberStore MemberStore
	BillStore   BillStore
}

// QueryReport scans members and bills and summarises them.
// PRE: none
// POST: Revenue is the sum over Paid bills; PendingCount counts every bill
// that is not Paid
func QueryReport(ctx context.Context, deps ReportDeps) (Report, error) {
	total, err := deps.MemberStore.Count(ctx)
	if err != nil {
		return Report{}, err
	}
	bills, err := deps.BillStore.List(ctx, billstore.ListFilter{})
	if err != nil {
		return Report{}, err
	}
	return ComputeReport(total, bills), nil
}

// ComputeReport summarises a set of bills for a member count.
func ComputeReport(totalMembers int, bills []domainBill.Bill) Report {
	r := Report{TotalMembers: totalMembers}
	for _, b := range bills {
		if b.IsPaid() {
			r.PaidCount++
			r.Revenue += b.Amount
			continue
		}
		r.PendingCount++
		r.PendingAmount += b.Amount
	}
	r.RevenueText = domainBill.FormatAmount(r.Revenue)
	r.PendingText = domainBill.FormatAmount(r.PendingAmount)
	return r
}
