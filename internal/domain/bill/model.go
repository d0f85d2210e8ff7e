package bill

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Bill statuses. Unpaid -> Paid is the only transition.
const (
	StatusUnpaid = "Unpaid"
	StatusPaid   = "Paid"
)

// Domain errors
var (
	ErrEmptyMemberID  = errors.New("bill must reference a member")
	ErrInvalidAmount  = errors.New("amount must be a non-negative decimal number")
	ErrInvalidStatus  = errors.New("bill status must be Unpaid or Paid")
	ErrEmptyIssueDate = errors.New("bill issue date must be set")
)

// amountPattern accepts plain decimal text: digits with an optional fraction.
var amountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// maxAmountUnits keeps minor-unit sums well inside int64.
const maxAmountUnits = math.MaxInt64 / 200

// Bill is a single charge owed by a member. Amount is held in minor units
// (hundredths) to keep sums exact.
type Bill struct {
	ID          string
	MemberID    string
	Amount      int64
	Description string
	IssuedAt    time.Time
	Status      string
	PaidAt      time.Time
}

// Validate checks if the Bill has valid data.
// PRE: Bill struct is populated
// POST: Returns nil if valid, error otherwise
func (b *Bill) Validate() error {
	if strings.TrimSpace(b.MemberID) == "" {
		return ErrEmptyMemberID
	}
	if b.Amount < 0 {
		return ErrInvalidAmount
	}
	if b.Status != StatusUnpaid && b.Status != StatusPaid {
		return ErrInvalidStatus
	}
	if b.IssuedAt.IsZero() {
		return ErrEmptyIssueDate
	}
	return nil
}

// IsPaid returns true once the bill has been paid.
// INVARIANT: Status field is not mutated
func (b *Bill) IsPaid() bool {
	return b.Status == StatusPaid
}

// MarkPaid moves the bill to Paid and stamps the paid date. Calling it on a
// bill that is already paid keeps it Paid and re-stamps the date.
// PRE: now is the current time
// POST: Status is Paid, PaidAt == now
func (b *Bill) MarkPaid(now time.Time) {
	b.Status = StatusPaid
	b.PaidAt = now
}

// ParseAmount converts decimal text such as "500" or "12.50" into minor units.
// More than two fractional digits are rounded half away from zero.
// PRE: text is user input
// POST: Returns amount >= 0 or ErrInvalidAmount
func ParseAmount(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if !amountPattern.MatchString(text) {
		return 0, ErrInvalidAmount
	}
	whole, frac, _ := strings.Cut(text, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxAmountUnits {
		return 0, ErrInvalidAmount
	}
	frac += "000"
	cents, _ := strconv.ParseInt(frac[:2], 10, 64)
	minor := units*100 + cents
	if frac[2] >= '5' {
		minor++
	}
	return minor, nil
}

// FormatAmount renders minor units as a decimal with two fractional digits.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// ToDecimal converts minor units to a float for document storage.
func ToDecimal(minor int64) float64 {
	return float64(minor) / 100
}

// FromDecimal converts a stored decimal back into minor units.
func FromDecimal(v float64) int64 {
	return int64(math.Round(v * 100))
}
