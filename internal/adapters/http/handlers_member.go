package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/receipt"
)

type memberDashboardPage struct {
	basePage
	projections.MemberDashboardResult
	Currency string
}

func memberIdentity(r *http.Request) projections.MemberIdentity {
	id, _ := middleware.GetIdentity(r.Context())
	return projections.MemberIdentity{IdentityID: id.ID, Email: id.Email}
}

// handleMemberDashboard handles GET /member
func (s *Server) handleMemberDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryMemberDashboard(r.Context(), memberIdentity(r), projections.MemberDashboardDeps{
		MemberStore:       s.deps.Stores.Members,
		BillStore:         s.deps.Stores.Bills,
		NotificationStore: s.deps.Stores.Notifications,
		Now:               s.deps.Now,
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "member_dashboard.html", memberDashboardPage{
		basePage:              s.base(r, "Member Dashboard"),
		MemberDashboardResult: result,
		Currency:              s.opts.CurrencySymbol,
	})
}

// handleReceipt handles GET /member/bills/{id}/receipt
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryReceipt(r.Context(), projections.ReceiptQuery{
		Who:    memberIdentity(r),
		BillID: chi.URLParam(r, "id"),
	}, projections.ReceiptDeps{
		MemberStore:    s.deps.Stores.Members,
		BillStore:      s.deps.Stores.Bills,
		GymName:        s.opts.GymName,
		CurrencySymbol: s.opts.CurrencySymbol,
		FilePrefix:     s.opts.ReceiptPrefix,
	})
	switch {
	case errors.Is(err, projections.ErrReceiptNotFound):
		http.Error(w, "receipt not found", http.StatusNotFound)
		return
	case errors.Is(err, receipt.ErrNotPaid):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	_, _ = w.Write([]byte(res.Body))
}
