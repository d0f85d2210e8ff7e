package member

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymdesk/internal/adapters/storage/docstore"
	domain "gymdesk/internal/domain/member"
)

// document is the stored shape of a member in the members collection.
type document struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	JoinDate  string `json:"joinDate"`
	Package   string `json:"package"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	UID       string `json:"uid,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// DocStore implements Store on the document store.
type DocStore struct {
	docs docstore.Store
}

// Compile-time check that *DocStore satisfies Store.
var _ Store = (*DocStore)(nil)

// NewDocStore creates a new member Store.
func NewDocStore(docs docstore.Store) *DocStore {
	return &DocStore{docs: docs}
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping docstore.ErrNotFound
func (s *DocStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	doc, err := s.docs.Get(ctx, docstore.CollectionMembers, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return fromDocument(doc)
}

// GetByIdentityID retrieves the Member linked to an identity account.
func (s *DocStore) GetByIdentityID(ctx context.Context, identityID string) (domain.Member, error) {
	return s.first(ctx, "uid", identityID)
}

// GetByEmail retrieves the first Member registered with email, ignoring case.
// Identity emails are lowercased while member records keep the typed form.
func (s *DocStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Member{}, fmt.Errorf("member not found: %w", docstore.ErrNotFound)
	}
	docs, err := s.docs.ListAll(ctx, docstore.CollectionMembers)
	if err != nil {
		return domain.Member{}, fmt.Errorf("failed to look up member by email: %w", err)
	}
	for _, doc := range docs {
		m, err := fromDocument(doc)
		if err != nil {
			return domain.Member{}, err
		}
		if strings.EqualFold(strings.TrimSpace(m.Email), email) {
			return m, nil
		}
	}
	return domain.Member{}, fmt.Errorf("member not found: %w", docstore.ErrNotFound)
}

func (s *DocStore) first(ctx context.Context, field, value string) (domain.Member, error) {
	if value == "" {
		return domain.Member{}, fmt.Errorf("member not found: %w", docstore.ErrNotFound)
	}
	docs, err := s.docs.ListWhere(ctx, docstore.CollectionMembers, field, value)
	if err != nil {
		return domain.Member{}, fmt.Errorf("failed to look up member by %s: %w", field, err)
	}
	if len(docs) == 0 {
		return domain.Member{}, fmt.Errorf("member not found: %w", docstore.ErrNotFound)
	}
	return fromDocument(docs[0])
}

// Create persists a new Member and returns the store-assigned id.
// PRE: value.Validate() == nil
// POST: Member document inserted; value.ID is ignored
func (s *DocStore) Create(ctx context.Context, value domain.Member) (string, error) {
	id, err := s.docs.Insert(ctx, docstore.CollectionMembers, toDocument(value))
	if err != nil {
		return "", fmt.Errorf("failed to create member: %w", err)
	}
	return id, nil
}

// Delete removes a Member. Bills referencing it are left in place.
func (s *DocStore) Delete(ctx context.Context, id string) error {
	if err := s.docs.Delete(ctx, docstore.CollectionMembers, id); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

// List returns members in insertion order, optionally narrowed by status
// and a case-insensitive search term.
func (s *DocStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	var (
		docs []docstore.Document
		err  error
	)
	if filter.Status != "" {
		docs, err = s.docs.ListWhere(ctx, docstore.CollectionMembers, "status", filter.Status)
	} else {
		docs, err = s.docs.ListAll(ctx, docstore.CollectionMembers)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]domain.Member, 0, len(docs))
	for _, doc := range docs {
		m, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		if !m.Matches(filter.Search) {
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

// Count returns the number of stored members.
func (s *DocStore) Count(ctx context.Context) (int, error) {
	n, err := s.docs.Count(ctx, docstore.CollectionMembers)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

func toDocument(m domain.Member) document {
	return document{
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		JoinDate:  m.JoinDate,
		Package:   m.Package,
		Role:      m.Role,
		Status:    m.Status,
		UID:       m.IdentityID,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromDocument(doc docstore.Document) (domain.Member, error) {
	var d document
	if err := doc.Decode(&d); err != nil {
		return domain.Member{}, fmt.Errorf("failed to decode member %s: %w", doc.ID, err)
	}
	m := domain.Member{
		ID:         doc.ID,
		IdentityID: d.UID,
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		JoinDate:   d.JoinDate,
		Package:    d.Package,
		Role:       d.Role,
		Status:     d.Status,
	}
	if t, err := time.Parse(time.RFC3339Nano, d.CreatedAt); err == nil {
		m.CreatedAt = t
	} else {
		m.CreatedAt = doc.CreatedAt
	}
	return m, nil
}
