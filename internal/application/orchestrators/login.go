package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"gymdesk/internal/adapters/identity"
)

// Authenticator defines the identity operations needed by Login and Logout.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (identity.Identity, error)
	SignOut(ctx context.Context, token string)
}

// ErrWrongPortal is returned when a valid identity signs in through a login
// page meant for another role.
var ErrWrongPortal = errors.New("this account cannot sign in here")

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
	// RequireRole restricts the login to one role; empty accepts any.
	RequireRole string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Identity Authenticator
	Logger   *slog.Logger
}

// ExecuteLogin signs an identity in and returns it with its session token.
// PRE: Email and Password provided
// POST: On success a session exists for the returned token. A role mismatch
// leaves no session behind.
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (identity.Identity, error) {
	id, err := deps.Identity.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		return identity.Identity{}, err
	}

	if input.RequireRole != "" && id.Role != input.RequireRole {
		deps.Identity.SignOut(ctx, id.Token)
		loggerOr(deps.Logger).Info("auth_event", "event", "login_rejected", "account_id", id.ID, "role", id.Role, "required_role", input.RequireRole)
		return identity.Identity{}, ErrWrongPortal
	}
	return id, nil
}

// ExecuteLogout ends the session for token.
func ExecuteLogout(ctx context.Context, token string, deps LoginDeps) {
	deps.Identity.SignOut(ctx, token)
}
