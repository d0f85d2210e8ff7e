package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/identity"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/account"
)

// portal describes one of the two login pages.
type portal struct {
	Title       string
	Path        string
	RequireRole string
}

var (
	adminPortal  = portal{Title: "Admin Login", Path: adminLoginPath, RequireRole: account.RoleAdmin}
	memberPortal = portal{Title: "Member Login", Path: memberLoginPath}
)

type loginPage struct {
	basePage
	Portal portal
	Email  string
}

// homeFor returns the landing page for a signed-in identity.
func homeFor(id identity.Identity) string {
	if id.IsAdmin() {
		return "/admin"
	}
	return "/member"
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		http.Redirect(w, r, memberLoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, homeFor(id), http.StatusSeeOther)
}

// handleLoginPage handles GET /login and GET /admin/login
func (s *Server) handleLoginPage(p portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Already signed in with a suitable role: skip the form
		if id, ok := middleware.GetIdentity(r.Context()); ok && (p.RequireRole == "" || id.Role == p.RequireRole) {
			http.Redirect(w, r, homeFor(id), http.StatusSeeOther)
			return
		}
		s.render(w, r, http.StatusOK, "login.html", loginPage{
			basePage: s.base(r, p.Title),
			Portal:   p,
		})
	}
}

// handleLoginSubmit handles POST /login and POST /admin/login
func (s *Server) handleLoginSubmit(p portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email:       r.PostFormValue("email"),
			Password:    r.PostFormValue("password"),
			RequireRole: p.RequireRole,
		}
		id, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
			Identity: s.deps.Identity,
			Logger:   s.log,
		})
		if err != nil {
			msg, ok := userMessage(err)
			if !ok {
				s.internalError(w, r, err)
				return
			}
			status := http.StatusUnauthorized
			if errors.Is(err, identity.ErrAccountLocked) {
				status = http.StatusTooManyRequests
			}
			page := loginPage{basePage: s.base(r, p.Title), Portal: p, Email: input.Email}
			page.Err = "Login failed: " + msg
			s.render(w, r, status, "login.html", page)
			return
		}

		middleware.SetSessionCookie(w, id.Token, s.opts.SecureCookies)
		http.Redirect(w, r, homeFor(id), http.StatusSeeOther)
	}
}

// handleLogout handles POST /logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	dest := memberLoginPath
	if middleware.IsAdmin(r.Context()) {
		dest = adminLoginPath
	}
	if token := middleware.SessionToken(r); token != "" {
		orchestrators.ExecuteLogout(r.Context(), token, orchestrators.LoginDeps{
			Identity: s.deps.Identity,
			Logger:   s.log,
		})
	}
	middleware.ClearSessionCookie(w, s.opts.SecureCookies)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// handleHealthz handles GET /healthz
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.DB.PingContext(ctx); err != nil {
			s.log.Error("healthz_failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
