package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/identity"
	"gymdesk/internal/adapters/storage/docstore"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/bill"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/notification"
)

// basePage carries what layout.html needs on every page.
type basePage struct {
	Title     string
	GymName   string
	Identity  identity.Identity
	SignedIn  bool
	Msg       string
	Err       string
	CSRFField template.HTML
}

func (s *Server) base(r *http.Request, title string) basePage {
	id, ok := middleware.GetIdentity(r.Context())
	q := r.URL.Query()
	return basePage{
		Title:     title,
		GymName:   s.opts.GymName,
		Identity:  id,
		SignedIn:  ok,
		Msg:       q.Get("msg"),
		Err:       q.Get("err"),
		CSRFField: csrf.TemplateField(r),
	}
}

// render executes a page into a buffer first so a template error never
// produces a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tpl, ok := s.pages[name]
	if !ok {
		s.internalError(w, r, errors.New("unknown template "+name))
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("internal_error",
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// redirectFlash sends the browser back to path with a one-shot message in
// the query string (key is "msg" or "err").
func redirectFlash(w http.ResponseWriter, r *http.Request, path, key, message string) {
	http.Redirect(w, r, path+"?"+url.Values{key: {message}}.Encode(), http.StatusSeeOther)
}

// flashError redirects with a readable message for user errors. Anything
// else is logged and replaced with a generic message.
func (s *Server) flashError(w http.ResponseWriter, r *http.Request, path string, err error) {
	msg, ok := userMessage(err)
	if !ok {
		s.log.Error("internal_error",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		msg = "something went wrong, please try again"
	}
	redirectFlash(w, r, path, "err", "Error: "+msg)
}

// userErrors are the failures caused by what the user typed or clicked.
var userErrors = []error{
	member.ErrEmptyName,
	member.ErrNameTooLong,
	member.ErrInvalidEmail,
	member.ErrInvalidJoinDate,
	account.ErrEmptyEmail,
	account.ErrInvalidEmail,
	account.ErrEmptyPassword,
	account.ErrPasswordTooShort,
	bill.ErrEmptyMemberID,
	bill.ErrInvalidAmount,
	notification.ErrEmptyTitle,
	notification.ErrEmptyMessage,
	identity.ErrInvalidCredentials,
	identity.ErrAccountLocked,
	identity.ErrEmailInUse,
	orchestrators.ErrNotConfirmed,
	orchestrators.ErrWrongPortal,
	orchestrators.ErrProvisioningUnavailable,
}

// userMessage maps err to the text shown to the user. ok is false for
// internal failures.
func userMessage(err error) (string, bool) {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}
	if errors.Is(err, docstore.ErrNotFound) {
		// Typed stores wrap as "<kind> not found: ...".
		msg, _, _ := strings.Cut(err.Error(), ": ")
		return msg, true
	}
	return "", false
}
