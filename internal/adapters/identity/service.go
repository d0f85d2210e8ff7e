// Package identity is the identity client: password sign-in, sessions,
// identity-change notification and account provisioning.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	accountstore "gymdesk/internal/adapters/storage/account"
	"gymdesk/internal/adapters/storage/docstore"
	"gymdesk/internal/domain/account"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrEmailInUse         = errors.New("an account with this email already exists")
)

// Identity is a signed-in principal.
type Identity struct {
	ID    string
	Email string
	Role  string
	// Token is the session token; empty on identities not bound to a session.
	Token string
}

// IsAdmin reports whether the identity has the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == account.RoleAdmin
}

// ChangeFunc observes session transitions. signedIn is false on sign-out.
type ChangeFunc func(id Identity, signedIn bool)

// Service implements the identity client on an account store.
type Service struct {
	accounts accountstore.Store
	sessions *sessionStore
	now      func() time.Time
	log      *slog.Logger

	mu        sync.RWMutex
	listeners []ChangeFunc
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for sessions and lockouts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger for auth events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates an identity Service.
// PRE: accounts is non-nil
func NewService(accounts accountstore.Store, opts ...Option) *Service {
	s := &Service{accounts: accounts, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = newSessionStore(s.now)
	return s
}

// OnIdentityChange registers fn for every primary session transition.
func (s *Service) OnIdentityChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify(id Identity, signedIn bool) {
	s.mu.RLock()
	listeners := make([]ChangeFunc, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(id, signedIn)
	}
}

// SignIn checks credentials and opens a session.
// PRE: none
// POST: On success the returned Identity carries a fresh session token;
// on a wrong password the failure is recorded and may lock the account
// INVARIANT: A locked account cannot sign in even with the right password
func (s *Service) SignIn(ctx context.Context, email, password string) (Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Identity{}, ErrInvalidCredentials
	}

	acct, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, docstore.ErrNotFound) {
		s.log.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, fmt.Errorf("sign in: %w", err)
	}

	now := s.now()
	if acct.IsLocked(now) {
		s.log.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		return Identity{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(password); err != nil {
		acct.RecordFailedLogin(now)
		if err := s.accounts.Save(ctx, acct); err != nil {
			s.log.Error("auth_event", "event", "record_failure_failed", "email", email, "error", err)
		}
		s.log.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return Identity{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := s.accounts.Save(ctx, acct); err != nil {
			s.log.Error("auth_event", "event", "reset_failures_failed", "email", email, "error", err)
		}
	}

	id := Identity{ID: acct.ID, Email: acct.Email, Role: acct.Role}
	token, err := s.sessions.create(id, false)
	if err != nil {
		return Identity{}, fmt.Errorf("create session: %w", err)
	}
	id.Token = token
	s.notify(id, true)
	return id, nil
}

// SignOut ends the session for token. Unknown tokens are ignored.
func (s *Service) SignOut(_ context.Context, token string) {
	if token == "" {
		return
	}
	sess, ok := s.sessions.delete(token)
	if !ok || sess.secondary {
		return
	}
	id := sess.identity
	id.Token = token
	s.notify(id, false)
}

// Resolve returns the identity signed in with token.
func (s *Service) Resolve(_ context.Context, token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}
	sess, ok := s.sessions.get(token)
	if !ok {
		return Identity{}, false
	}
	id := sess.identity
	id.Token = token
	return id, true
}

// CreateAccount provisions a member account and signs it into a fresh
// secondary session. Existing sessions, including the caller's, are not
// touched; the caller signs the returned token out when done.
// PRE: password has at least account.MinPasswordLength characters
// POST: Account stored with role member; returned Identity carries the secondary token
func (s *Service) CreateAccount(ctx context.Context, email, password string) (Identity, error) {
	return s.createAccount(ctx, email, password, account.RoleMember, true)
}

func (s *Service) createAccount(ctx context.Context, email, password, role string, withSession bool) (Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		return Identity{}, ErrEmailInUse
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return Identity{}, fmt.Errorf("check existing account: %w", err)
	}

	acct := account.Account{Email: email, Role: role, CreatedAt: s.now()}
	if err := acct.Validate(); err != nil {
		return Identity{}, err
	}
	if err := acct.SetPassword(password); err != nil {
		return Identity{}, err
	}

	accountID, err := s.accounts.Create(ctx, acct)
	if err != nil {
		return Identity{}, fmt.Errorf("create account: %w", err)
	}
	id := Identity{ID: accountID, Email: email, Role: role}
	s.log.Info("auth_event", "event", "account_created", "account_id", accountID, "role", role)

	if withSession {
		token, err := s.sessions.create(id, true)
		if err != nil {
			return Identity{}, fmt.Errorf("create session: %w", err)
		}
		id.Token = token
	}
	return id, nil
}

// DeleteAccount removes an account and every session it holds.
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		return err
	}
	n := s.sessions.deleteAccount(accountID)
	s.log.Info("auth_event", "event", "account_deleted", "account_id", accountID, "sessions_closed", n)
	return nil
}

// PruneSessions drops every expired session and returns how many went.
func (s *Service) PruneSessions() int {
	n := s.sessions.pruneExpired()
	if n > 0 {
		s.log.Debug("sessions_pruned", "count", n)
	}
	return n
}

// RunSessionPruner prunes expired sessions every sessionPruneInterval until
// ctx is done.
func (s *Service) RunSessionPruner(ctx context.Context) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.PruneSessions()
		}
	}
}

// SeedAdmin creates the admin account if no admin exists yet.
// POST: Returns true if an account was created
func (s *Service) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	admins, err := s.accounts.List(ctx, accountstore.ListFilter{Role: account.RoleAdmin})
	if err != nil {
		return false, fmt.Errorf("list admins: %w", err)
	}
	if len(admins) > 0 {
		return false, nil
	}
	if _, err := s.createAccount(ctx, email, password, account.RoleAdmin, false); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}
