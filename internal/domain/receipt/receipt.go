package receipt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gymdesk/internal/domain/bill"
)

// DefaultFilePrefix is used when no prefix is configured.
const DefaultFilePrefix = "GymPro_Receipt"

const rule = "========================================"

// ErrNotPaid is returned when a receipt is requested for an unpaid bill.
var ErrNotPaid = errors.New("receipts are only available for paid bills")

// Receipt carries everything printed on a plain-text payment receipt.
type Receipt struct {
	GymName        string
	MemberName     string
	MemberEmail    string
	BillID         string
	Description    string
	Amount         int64
	CurrencySymbol string
	IssuedAt       time.Time
}

// FromBill builds a receipt for a paid bill.
// PRE: b is the member's bill
// POST: Returns ErrNotPaid if the bill is not Paid
func FromBill(gymName, currency, memberName, memberEmail string, b bill.Bill) (Receipt, error) {
	if !b.IsPaid() {
		return Receipt{}, ErrNotPaid
	}
	return Receipt{
		GymName:        gymName,
		MemberName:     memberName,
		MemberEmail:    memberEmail,
		BillID:         b.ID,
		Description:    b.Description,
		Amount:         b.Amount,
		CurrencySymbol: currency,
		IssuedAt:       b.IssuedAt,
	}, nil
}

// Text renders the fixed receipt template.
func (r Receipt) Text() string {
	var sb strings.Builder
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("         %s - RECEIPT\n", r.GymName))
	sb.WriteString(rule + "\n\n")
	sb.WriteString(fmt.Sprintf("Member: %s\n", r.MemberName))
	sb.WriteString(fmt.Sprintf("Email: %s\n\n", r.MemberEmail))
	sb.WriteString(fmt.Sprintf("Description: %s\n", r.Description))
	sb.WriteString(fmt.Sprintf("Amount: %s%s\n", r.CurrencySymbol, bill.FormatAmount(r.Amount)))
	sb.WriteString(fmt.Sprintf("Date: %s\n", r.IssuedAt.Format("2006-01-02")))
	sb.WriteString("Status: PAID\n\n")
	sb.WriteString(rule + "\n")
	sb.WriteString("        Thank you for your payment!\n")
	sb.WriteString(rule + "\n")
	return sb.String()
}

// FileName returns "<prefix>_<billID>.txt".
func FileName(prefix, billID string) string {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	return prefix + "_" + billID + ".txt"
}
