package member

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	StatusActive   = "Active"
	RoleMember     = "member"
	DefaultPackage = "Standard"
	JoinDateLayout = "2006-01-02"
)

// Domain errors
var (
	ErrEmptyName       = errors.New("member name cannot be empty")
	ErrNameTooLong     = errors.New("member name cannot exceed 100 characters")
	ErrInvalidEmail    = errors.New("member email must be valid")
	ErrInvalidJoinDate = errors.New("join date must be in YYYY-MM-DD format")
)

// Member is a person with gym access. IdentityID links the directory record to
// a sign-in identity when one was provisioned.
type Member struct {
	ID         string
	IdentityID string
	Name       string
	Email      string
	Phone      string
	JoinDate   string
	Package    string
	Role       string
	Status     string
	CreatedAt  time.Time
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if _, err := time.Parse(JoinDateLayout, m.JoinDate); err != nil {
		return ErrInvalidJoinDate
	}
	return nil
}

// IsActive returns true if the member is currently active.
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// HasIdentity returns true if the member is linked to a sign-in identity.
func (m *Member) HasIdentity() bool {
	return m.IdentityID != ""
}

// DisplayPackage returns the package label, defaulting to Standard.
func (m *Member) DisplayPackage() string {
	if strings.TrimSpace(m.Package) == "" {
		return DefaultPackage
	}
	return m.Package
}

// DisplayPhone returns the phone number or "-" when none is stored.
func (m *Member) DisplayPhone() string {
	if strings.TrimSpace(m.Phone) == "" {
		return "-"
	}
	return m.Phone
}

// MemberSince formats the join date as "Jan 2006". Empty if the join date is unparseable.
func (m *Member) MemberSince() string {
	joined, err := time.Parse(JoinDateLayout, m.JoinDate)
	if err != nil {
		return ""
	}
	return joined.Format("Jan 2006")
}

// DaysActive returns the number of whole days between the join date and now.
// PRE: now is the current time
// POST: Returns 0 for unparseable or future join dates
func (m *Member) DaysActive(now time.Time) int {
	joined, err := time.Parse(JoinDateLayout, m.JoinDate)
	if err != nil {
		return 0
	}
	days := int(now.Sub(joined).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Matches reports whether the member's name, email or phone contains the
// search term, ignoring case. An empty term matches everything.
func (m *Member) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), term) ||
		strings.Contains(strings.ToLower(m.Email), term) ||
		strings.Contains(strings.ToLower(m.Phone), term)
}
