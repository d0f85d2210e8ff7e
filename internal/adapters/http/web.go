package web

import (
	"context"
	"crypto/rand"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"gymdesk/internal/adapters/email"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/identity"
	billstore "gymdesk/internal/adapters/storage/bill"
	memberstore "gymdesk/internal/adapters/storage/member"
	notificationstore "gymdesk/internal/adapters/storage/notification"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/receipt"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames lists the templates rendered inside layout.html.
var pageNames = []string{
	"login.html",
	"admin_dashboard.html",
	"confirm_delete.html",
	"member_dashboard.html",
}

const (
	adminLoginPath  = "/admin/login"
	memberLoginPath = "/login"
)

// Stores holds all storage dependencies.
type Stores struct {
	Members       memberstore.Store
	Bills         billstore.Store
	Notifications notificationstore.Store
}

// IdentityClient is the identity service as used by the HTTP layer.
type IdentityClient interface {
	SignIn(ctx context.Context, email, password string) (identity.Identity, error)
	SignOut(ctx context.Context, token string)
	Resolve(ctx context.Context, token string) (identity.Identity, bool)
	CreateAccount(ctx context.Context, email, password string) (identity.Identity, error)
	DeleteAccount(ctx context.Context, accountID string) error
}

// Pinger reports database liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds the collaborators of the HTTP server. Email, Perf and DB are
// optional.
type Deps struct {
	Stores   Stores
	Identity IdentityClient
	Email    email.Sender
	Perf     *perf.Collector
	DB       Pinger
	Logger   *slog.Logger
	Now      func() time.Time
}

// Options holds presentation and security settings.
type Options struct {
	GymName        string
	CurrencySymbol string
	ReceiptPrefix  string
	EmailFrom      string

	// CSRFKey is the 32-byte gorilla/csrf key. Empty generates one per start.
	CSRFKey        []byte
	DisableCSRF    bool
	TrustedOrigins []string
	SecureCookies  bool

	RateLimitPerSecond int
	SlowRequest        time.Duration
}

// Server serves the admin panel and the member portal.
type Server struct {
	deps    Deps
	opts    Options
	log     *slog.Logger
	pages   map[string]*template.Template
	limiter *middleware.RateLimiter
}

// NewServer parses the templates and prepares the server.
// PRE: deps.Stores and deps.Identity are set
// POST: Returns a Server ready for Routes, or an error if a template is broken
func NewServer(deps Deps, opts Options) (*Server, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.GymName == "" {
		opts.GymName = "GymRats"
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "₹"
	}
	if opts.ReceiptPrefix == "" {
		opts.ReceiptPrefix = receipt.DefaultFilePrefix
	}
	if opts.RateLimitPerSecond <= 0 {
		opts.RateLimitPerSecond = 10
	}
	if !opts.DisableCSRF && len(opts.CSRFKey) == 0 {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate CSRF key: %w", err)
		}
		deps.Logger.Warn("using random CSRF key (forms will not survive a restart); set GYM_CSRF_KEY")
		opts.CSRFKey = key
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		deps:    deps,
		opts:    opts,
		log:     deps.Logger,
		pages:   pages,
		limiter: middleware.NewRateLimiter(opts.RateLimitPerSecond),
	}, nil
}

func parsePages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

// Limiter exposes the rate limiter so the caller can run its pruner.
func (s *Server) Limiter() *middleware.RateLimiter {
	return s.limiter
}

// Routes wires the handlers and middleware.
// Middleware order: RequestID -> Recoverer -> Timing -> SecurityHeaders -> RateLimit -> CSRF -> Auth
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timing(s.deps.Perf, s.opts.SlowRequest, s.log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RateLimit(s.limiter, s.log))
	if !s.opts.DisableCSRF {
		r.Use(middleware.CSRF(s.opts.CSRFKey, s.opts.SecureCookies, s.opts.TrustedOrigins))
	}
	r.Use(middleware.Auth(s.deps.Identity))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/", s.handleRoot)

	r.Get(memberLoginPath, s.handleLoginPage(memberPortal))
	r.Post(memberLoginPath, s.handleLoginSubmit(memberPortal))
	r.Get(adminLoginPath, s.handleLoginPage(adminPortal))
	r.Post(adminLoginPath, s.handleLoginSubmit(adminPortal))
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(adminLoginPath, account.RoleAdmin))
		r.Get("/admin", s.handleAdminDashboard)
		r.Post("/admin/members", s.handleCreateMember)
		r.Get("/admin/members/{id}/delete", s.handleConfirmDelete)
		r.Post("/admin/members/{id}/delete", s.handleDeleteMember)
		r.Post("/admin/bills", s.handleCreateBill)
		r.Post("/admin/bills/{id}/pay", s.handleMarkPaid)
		r.Post("/admin/notifications", s.handleBroadcast)
		r.Get("/admin/report", s.handleReport)
		r.Get("/admin/perf", s.handlePerf)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(memberLoginPath))
		r.Get("/member", s.handleMemberDashboard)
		r.Get("/member/bills/{id}/receipt", s.handleReceipt)
	})

	return r
}
