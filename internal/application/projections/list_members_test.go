package projections

import (
	"context"
	"testing"

	domainMember "gymdesk/internal/domain/member"
)

func TestQueryListMembers(t *testing.T) {
	bare := domainMember.Member{ID: "m2", Name: "Ravi", Email: "ravi@x.com", JoinDate: "2024-02-01", Status: domainMember.StatusActive}
	store := &mockMemberStore{members: []domainMember.Member{asha(), bare}}

	tests := []struct {
		name      string
		search    string
		wantNames []string
	}{
		{"all", "", []string{"Asha", "Ravi"}},
		{"by name", "rav", []string{"Ravi"}},
		{"by email case-insensitive", "ASHA@", []string{"Asha"}},
		{"by phone", "999", []string{"Asha"}},
		{"no match", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := QueryListMembers(context.Background(), ListMembersQuery{Search: tt.search}, ListMembersDeps{MemberStore: store})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(res.Members) != len(tt.wantNames) {
				t.Fatalf("expected %d members, got %d", len(tt.wantNames), len(res.Members))
			}
			for i, name := range tt.wantNames {
				if res.Members[i].Name != name {
					t.Errorf("row %d: expected %s, got %s", i, name, res.Members[i].Name)
				}
			}
		})
	}
}

func TestQueryListMembers_DisplayDefaults(t *testing.T) {
	bare := domainMember.Member{ID: "m2", Name: "Ravi", Email: "ravi@x.com", JoinDate: "2024-02-01", Status: domainMember.StatusActive}
	store := &mockMemberStore{members: []domainMember.Member{asha(), bare}}

	res, err := QueryListMembers(context.Background(), ListMembersQuery{}, ListMembersDeps{MemberStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, second := res.Members[0], res.Members[1]
	if first.Package != "Gold" || !first.HasLogin {
		t.Errorf("unexpected first row: %+v", first)
	}
	if second.Package != domainMember.DefaultPackage || second.Phone != "-" || second.HasLogin {
		t.Errorf("expected display defaults, got %+v", second)
	}
}
