package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/storage/docstore"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/member"
)

// defaultPerfWindow is how far back /admin/perf looks without ?window=.
const defaultPerfWindow = 15 * time.Minute

type adminDashboardPage struct {
	basePage
	Report        projections.Report
	Members       projections.ListMembersResult
	MemberOptions []projections.MemberRow
	Bills         projections.ListBillsResult
	Notifications []projections.NotificationView
	Currency      string
	Today         string
}

type confirmDeletePage struct {
	basePage
	Member member.Member
}

// handleAdminDashboard handles GET /admin
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := strings.TrimSpace(r.URL.Query().Get("q"))
	stores := s.deps.Stores

	report, err := projections.QueryReport(ctx, projections.ReportDeps{
		MemberStore: stores.Members,
		BillStore:   stores.Bills,
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	memberDeps := projections.ListMembersDeps{MemberStore: stores.Members}
	members, err := projections.QueryListMembers(ctx, projections.ListMembersQuery{Search: search}, memberDeps)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	// The bill form offers every member, not just the search hits
	options := members.Members
	if search != "" {
		all, err := projections.QueryListMembers(ctx, projections.ListMembersQuery{}, memberDeps)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		options = all.Members
	}

	bills, err := projections.QueryListBills(ctx, projections.ListBillsQuery{}, projections.ListBillsDeps{
		BillStore:   stores.Bills,
		MemberStore: stores.Members,
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	notes, err := projections.QueryListNotifications(ctx, projections.ListNotificationsDeps{
		NotificationStore: stores.Notifications,
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "admin_dashboard.html", adminDashboardPage{
		basePage:      s.base(r, "Admin Dashboard"),
		Report:        report,
		Members:       members,
		MemberOptions: options,
		Bills:         bills,
		Notifications: notes,
		Currency:      s.opts.CurrencySymbol,
		Today:         s.deps.Now().Format(member.JoinDateLayout),
	})
}

// handleCreateMember handles POST /admin/members
func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.CreateMemberInput{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Phone:    r.PostFormValue("phone"),
		JoinDate: r.PostFormValue("join_date"),
		Package:  r.PostFormValue("package"),
		Password: r.PostFormValue("password"),
	}
	deps := orchestrators.CreateMemberDeps{
		MemberStore: s.deps.Stores.Members,
		Now:         s.deps.Now,
		Logger:      s.log,
	}
	if s.deps.Identity != nil {
		deps.Identity = s.deps.Identity
	}

	if _, err := orchestrators.ExecuteCreateMember(r.Context(), input, deps); err != nil {
		s.flashError(w, r, "/admin", err)
		return
	}
	redirectFlash(w, r, "/admin", "msg", "Member account created successfully!")
}

// handleConfirmDelete handles GET /admin/members/{id}/delete
func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	m, err := s.deps.Stores.Members.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, docstore.ErrNotFound) {
		s.flashError(w, r, "/admin", err)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "confirm_delete.html", confirmDeletePage{
		basePage: s.base(r, "Delete Member"),
		Member:   m,
	})
}

// handleDeleteMember handles POST /admin/members/{id}/delete
func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	err := orchestrators.ExecuteDeleteMember(r.Context(), orchestrators.DeleteMemberInput{
		MemberID:  id,
		Confirmed: r.PostFormValue("confirm") == "yes",
	}, orchestrators.DeleteMemberDeps{
		MemberStore: s.deps.Stores.Members,
		Logger:      s.log,
	})
	if errors.Is(err, orchestrators.ErrNotConfirmed) {
		s.flashError(w, r, "/admin/members/"+id+"/delete", err)
		return
	}
	if err != nil {
		s.flashError(w, r, "/admin", err)
		return
	}
	redirectFlash(w, r, "/admin", "msg", "Member deleted successfully!")
}

// handleCreateBill handles POST /admin/bills
func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	_, err := orchestrators.ExecuteCreateBill(r.Context(), orchestrators.CreateBillInput{
		MemberID:    r.PostFormValue("member_id"),
		Amount:      r.PostFormValue("amount"),
		Description: r.PostFormValue("description"),
	}, orchestrators.CreateBillDeps{
		BillStore: s.deps.Stores.Bills,
		Now:       s.deps.Now,
		Logger:    s.log,
	})
	if err != nil {
		s.flashError(w, r, "/admin", err)
		return
	}
	redirectFlash(w, r, "/admin", "msg", "Bill generated successfully!")
}

// handleMarkPaid handles POST /admin/bills/{id}/pay
func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteMarkPaid(r.Context(), orchestrators.MarkPaidInput{
		BillID: chi.URLParam(r, "id"),
	}, orchestrators.MarkPaidDeps{
		BillStore: s.deps.Stores.Bills,
		Now:       s.deps.Now,
		Logger:    s.log,
	})
	if err != nil {
		s.flashError(w, r, "/admin", err)
		return
	}
	redirectFlash(w, r, "/admin", "msg", "Bill marked as paid.")
}

// handleBroadcast handles POST /admin/notifications
func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteBroadcast(r.Context(), orchestrators.BroadcastInput{
		Title:   r.PostFormValue("title"),
		Message: r.PostFormValue("message"),
	}, orchestrators.BroadcastDeps{
		NotificationStore: s.deps.Stores.Notifications,
		MemberStore:       s.deps.Stores.Members,
		EmailSender:       s.deps.Email,
		FromAddress:       s.opts.EmailFrom,
		GymName:           s.opts.GymName,
		Now:               s.deps.Now,
		Logger:            s.log,
	})
	if err != nil {
		s.flashError(w, r, "/admin", err)
		return
	}

	msg := "Notification sent successfully!"
	if result.Emailed > 0 {
		msg = fmt.Sprintf("Notification sent successfully! Emailed %d members.", result.Emailed)
	}
	redirectFlash(w, r, "/admin", "msg", msg)
}

// handleReport handles GET /admin/report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := projections.QueryReport(r.Context(), projections.ReportDeps{
		MemberStore: s.deps.Stores.Members,
		BillStore:   s.deps.Stores.Bills,
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handlePerf handles GET /admin/perf
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	window := defaultPerfWindow
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			http.Error(w, "window must be a positive duration such as 15m", http.StatusBadRequest)
			return
		}
		window = d
	}
	if s.deps.Perf == nil {
		writeJSON(w, http.StatusOK, perf.Snapshot{})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Perf.Snapshot(s.deps.Now().Add(-window), 10))
}
