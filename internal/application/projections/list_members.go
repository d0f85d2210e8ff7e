package projections

import (
	"context"

	memberstore "gymdesk/internal/adapters/storage/member"
)

// ListMembersQuery carries query parameters.
type ListMembersQuery struct {
	Search string
}

// MemberRow is one line of the admin member table.
type MemberRow struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	JoinDate string
	Package  string
	Status   string
	HasLogin bool
}

// ListMembersResult carries the query result.
type ListMembersResult struct {
	Members []MemberRow
	Search  string
}

// ListMembersDeps holds dependencies for ListMembers.
type ListMembersDeps struct {
	MemberStore MemberStore
}

// QueryListMembers returns every member in insertion order.
// PRE: none
// POST: With a search term, only members whose name, email or phone contain
// it (case-insensitive) are returned. No pagination.
func QueryListMembers(ctx context.Context, query ListMembersQuery, deps ListMembersDeps) (ListMembersResult, error) {
	members, err := deps.MemberStore.List(ctx, memberstore.ListFilter{Search: query.Search})
	if err != nil {
		return ListMembersResult{}, err
	}

	rows := make([]MemberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, MemberRow{
			ID:       m.ID,
			Name:     m.Name,
			Email:    m.Email,
			Phone:    m.DisplayPhone(),
			JoinDate: m.JoinDate,
			Package:  m.DisplayPackage(),
			Status:   m.Status,
			HasLogin: m.HasIdentity(),
		})
	}
	return ListMembersResult{Members: rows, Search: query.Search}, nil
}
