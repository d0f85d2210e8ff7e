package bill

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage/docstore"
	domain "gymdesk/internal/domain/bill"
)

// document is the stored shape of a bill. Amount is a decimal number with
// two fractional digits.
type document struct {
	MemberID    string  `json:"memberId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	PaidDate    string  `json:"paidDate,omitempty"`
}

// DocStore implements Store on the document store.
type DocStore struct {
	docs docstore.Store
}

// Compile-time check that *DocStore satisfies Store.
var _ Store = (*DocStore)(nil)

// NewDocStore creates a new bill Store.
func NewDocStore(docs docstore.Store) *DocStore {
	return &DocStore{docs: docs}
}

// GetByID retrieves a Bill by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping docstore.ErrNotFound
func (s *DocStore) GetByID(ctx context.Context, id string) (domain.Bill, error) {
	doc, err := s.docs.Get(ctx, docstore.CollectionBills, id)
	if err != nil {
		return domain.Bill{}, fmt.Errorf("bill not found: %w", err)
	}
	return fromDocument(doc)
}

// Create persists a new Bill and returns the store-assigned id.
// PRE: value.Validate() == nil
func (s *DocStore) Create(ctx context.Context, value domain.Bill) (string, error) {
	id, err := s.docs.Insert(ctx, docstore.CollectionBills, toDocument(value))
	if err != nil {
		return "", fmt.Errorf("failed to create bill: %w", err)
	}
	return id, nil
}

// SavePayment writes the status and paid date of an existing Bill.
// PRE: value.ID is non-empty
// POST: Only status and paidDate change; other fields are left as stored
func (s *DocStore) SavePayment(ctx context.Context, value domain.Bill) error {
	patch := map[string]any{"status": value.Status, "paidDate": nil}
	if !value.PaidAt.IsZero() {
		patch["paidDate"] = value.PaidAt.UTC().Format(time.RFC3339Nano)
	}
	if err := s.docs.Update(ctx, docstore.CollectionBills, value.ID, patch); err != nil {
		return fmt.Errorf("failed to save bill payment: %w", err)
	}
	return nil
}

// List returns bills in insertion order.
func (s *DocStore) List(ctx context.Context, filter ListFilter) ([]domain.Bill, error) {
	var (
		docs []docstore.Document
		err  error
	)
	switch {
	case filter.MemberID != "":
		docs, err = s.docs.ListWhere(ctx, docstore.CollectionBills, "memberId", filter.MemberID)
	case filter.Status != "":
		docs, err = s.docs.ListWhere(ctx, docstore.CollectionBills, "status", filter.Status)
	default:
		docs, err = s.docs.ListAll(ctx, docstore.CollectionBills)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	bills := make([]domain.Bill, 0, len(docs))
	for _, doc := range docs {
		b, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		bills = append(bills, b)
	}
	return bills, nil
}

func toDocument(b domain.Bill) document {
	d := document{
		MemberID:    b.MemberID,
		Amount:      domain.ToDecimal(b.Amount),
		Description: b.Description,
		Date:        b.IssuedAt.UTC().Format(time.RFC3339Nano),
		Status:      b.Status,
	}
	if !b.PaidAt.IsZero() {
		d.PaidDate = b.PaidAt.UTC().Format(time.RFC3339Nano)
	}
	return d
}

func fromDocument(doc docstore.Document) (domain.Bill, error) {
	var d document
	if err := doc.Decode(&d); err != nil {
		return domain.Bill{}, fmt.Errorf("failed to decode bill %s: %w", doc.ID, err)
	}
	b := domain.Bill{
		ID:          doc.ID,
		MemberID:    d.MemberID,
		Amount:      domain.FromDecimal(d.Amount),
		Description: d.Description,
		Status:      d.Status,
	}
	if t, err := time.Parse(time.RFC3339Nano, d.Date); err == nil {
		b.IssuedAt = t
	} else {
		b.IssuedAt = doc.CreatedAt
	}
	if d.PaidDate != "" {
		b.PaidAt, _ = time.Parse(time.RFC3339Nano, d.PaidDate)
	}
	return b, nil
}
