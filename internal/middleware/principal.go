// AngelaMos | 2026
// principal.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/carterperez-dev/eightspots/internal/core"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
	RequestIDKey contextKey = "request_id"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Principal is the identity attached to a request. The zero value is the
// anonymous principal.
type Principal struct {
	UserID   int64
	Username string
	Role     string
}

func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.UserID != 0
}

func (p *Principal) IsAdmin() bool {
	return p.IsAuthenticated() && p.Role == RoleAdmin
}

// PrincipalResolver maps a session token to a principal. Unknown or expired
// tokens resolve to an anonymous principal with a nil error; a non-nil error
// means the session store could not answer.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*Principal, error)
}

// LoadPrincipal resolves the session token of every request and stores the
// result in the context. Requests without a token are anonymous.
func LoadPrincipal(resolver PrincipalResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				core.InternalServerError(w, err)
				return
			}

			if principal.IsAuthenticated() {
				annotateUser(r.Context(), principal.UserID)
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken reads the session cookie, falling back to a bearer token.
func ExtractToken(r *http.Request, cookieName string) string {
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// RequireAnonymous sends signed-in users to homePath.
func RequireAnonymous(homePath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetPrincipal(r.Context()).IsAuthenticated() {
				core.SeeOther(w, homePath, "ALREADY_AUTHENTICATED", "already signed in")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated sends anonymous users to loginPath.
func RequireAuthenticated(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetPrincipal(r.Context()).IsAuthenticated() {
				core.SeeOther(w, loginPath, "SESSION_REQUIRED", "login required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin answers 403 to everyone who is not an administrator,
// anonymous callers included.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetPrincipal(r.Context()).IsAdmin() {
			core.JSONError(w, core.ForbiddenError("administrator only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipal never returns nil.
func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok && p != nil {
		return p
	}
	return &Principal{}
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func GetUserID(ctx context.Context) int64 {
	return GetPrincipal(ctx).UserID
}

func IsAuthenticated(ctx context.Context) bool {
	return GetPrincipal(ctx).IsAuthenticated()
}

func IsAdmin(ctx context.Context) bool {
	return GetPrincipal(ctx).IsAdmin()
}
