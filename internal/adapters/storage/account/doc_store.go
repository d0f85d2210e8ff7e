package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymdesk/internal/adapters/storage/docstore"
	domain "gymdesk/internal/domain/account"
)

type document struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
	CreatedAt    string `json:"createdAt"`
	FailedLogins int    `json:"failedLogins"`
	LockedUntil  string `json:"lockedUntil,omitempty"`
}

// DocStore implements Store on the document store.
type DocStore struct {
	docs docstore.Store
}

// Compile-time check that *DocStore satisfies Store.
var _ Store = (*DocStore)(nil)

// NewDocStore creates a new account Store.
func NewDocStore(docs docstore.Store) *DocStore {
	return &DocStore{docs: docs}
}

// GetByID retrieves an Account by its ID.
// POST: Returns the entity or an error wrapping docstore.ErrNotFound
func (s *DocStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	doc, err := s.docs.Get(ctx, docstore.CollectionAccounts, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return fromDocument(doc)
}

// GetByEmail retrieves an Account by email. Emails are stored lower-cased.
// POST: Returns the entity or an error wrapping docstore.ErrNotFound
func (s *DocStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	docs, err := s.docs.ListWhere(ctx, docstore.CollectionAccounts, "email", normalizeEmail(email))
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to look up account: %w", err)
	}
	if len(docs) == 0 {
		return domain.Account{}, fmt.Errorf("account not found: %w", docstore.ErrNotFound)
	}
	return fromDocument(docs[0])
}

// Create persists a new Account and returns the store-assigned id.
// PRE: value.Validate() == nil; the email is not already registered
func (s *DocStore) Create(ctx context.Context, value domain.Account) (string, error) {
	value.Email = normalizeEmail(value.Email)
	id, err := s.docs.Insert(ctx, docstore.CollectionAccounts, toDocument(value))
	if err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}
	return id, nil
}

// Save writes the mutable fields of an existing Account: password hash,
// role and lockout state.
func (s *DocStore) Save(ctx context.Context, value domain.Account) error {
	patch := map[string]any{
		"passwordHash": value.PasswordHash,
		"role":         value.Role,
		"failedLogins": value.FailedLogins,
		"lockedUntil":  nil,
	}
	if !value.LockedUntil.IsZero() {
		patch["lockedUntil"] = value.LockedUntil.UTC().Format(time.RFC3339Nano)
	}
	if err := s.docs.Update(ctx, docstore.CollectionAccounts, value.ID, patch); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// Delete removes an Account.
func (s *DocStore) Delete(ctx context.Context, id string) error {
	if err := s.docs.Delete(ctx, docstore.CollectionAccounts, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// List returns accounts in creation order, optionally restricted to a role.
func (s *DocStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	var (
		docs []docstore.Document
		err  error
	)
	if filter.Role != "" {
		docs, err = s.docs.ListWhere(ctx, docstore.CollectionAccounts, "role", filter.Role)
	} else {
		docs, err = s.docs.ListAll(ctx, docstore.CollectionAccounts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	out := make([]domain.Account, 0, len(docs))
	for _, doc := range docs {
		a, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toDocument(a domain.Account) document {
	d := document{
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339Nano),
		FailedLogins: a.FailedLogins,
	}
	if !a.LockedUntil.IsZero() {
		d.LockedUntil = a.LockedUntil.UTC().Format(time.RFC3339Nano)
	}
	return d
}

func fromDocument(doc docstore.Document) (domain.Account, error) {
	var d document
	if err := doc.Decode(&d); err != nil {
		return domain.Account{}, fmt.Errorf("failed to decode account %s: %w", doc.ID, err)
	}
	a := domain.Account{
		ID:           doc.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		FailedLogins: d.FailedLogins,
	}
	if t, err := time.Parse(time.RFC3339Nano, d.CreatedAt); err == nil {
		a.CreatedAt = t
	} else {
		a.CreatedAt = doc.CreatedAt
	}
	if d.LockedUntil != "" {
		a.LockedUntil, _ = time.Parse(time.RFC3339Nano, d.LockedUntil)
	}
	return a, nil
}
