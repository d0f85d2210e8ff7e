package middleware

import (
	"context"
	"net/http"

	"gymdesk/internal/adapters/identity"
	"gymdesk/internal/domain/account"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const identityContextKey contextKey = "identity"

const sessionCookieName = "gymdesk_session"

// Resolver maps a session token to the signed-in identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (identity.Identity, bool)
}

// Auth returns middleware that extracts the session from the cookie and sets the identity in context.
// It does NOT block unauthenticated requests; use RequireAuth or RequireRole for that.
func Auth(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := SessionToken(r); token != "" {
				if id, ok := resolver.Resolve(r.Context(), token); ok {
					r = r.WithContext(ContextWithIdentity(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that sends unauthenticated requests to loginPath.
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetIdentity(r.Context()); !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware that blocks requests from identities without one of the specified roles.
func RequireRole(loginPath string, roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := GetIdentity(r.Context())
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			if !roleSet[id.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentity extracts the signed-in identity from the request context.
func GetIdentity(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(identity.Identity)
	return id, ok
}

// IsAdmin checks if the current identity is an admin.
func IsAdmin(ctx context.Context) bool {
	id, ok := GetIdentity(ctx)
	return ok && id.Role == account.RoleAdmin
}

// ContextWithIdentity returns a context with the given identity set.
func ContextWithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// SessionToken returns the session token carried by the request cookie.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(identity.SessionTTL.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
