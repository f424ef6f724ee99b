package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/auth/infrastructure/jwt"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

type identityKey struct{}

type identity struct {
	userID uuid.UUID
	role   string
}

const roleAdmin = "admin"

// Authenticator guards routes with tokens signed by the auth module.
type Authenticator struct {
	secret string
}

func NewAuthMiddleware(jwtSecret string) *Authenticator {
	return &Authenticator{secret: jwtSecret}
}

// WithIdentity returns a copy of ctx carrying the caller's id and role
func WithIdentity(ctx context.Context, userID uuid.UUID, role string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity{userID: userID, role: role})
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, _ := ctx.Value(identityKey{}).(identity)
	return id.userID, id.userID != uuid.Nil
}

// RoleFromContext is "" for guests.
func RoleFromContext(ctx context.Context) string {
	id, _ := ctx.Value(identityKey{}).(identity)
	return id.role
}

// RequireAuth answers 401 unless the request carries a valid token, either as
// a Bearer header or, for browser websockets, a `token` query parameter.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFrom(r)
		if raw == "" {
			utils.WriteError(w, http.StatusUnauthorized, "missing or invalid authorization", nil)
			return
		}

		claims, err := jwt.ValidateToken(raw, a.secret)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.UserID, claims.Role)))
	})
}

// RequireAdmin is RequireAuth plus a role check; non-admins get 403.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromContext(r.Context()) != roleAdmin {
			utils.WriteError(w, http.StatusForbidden, "admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		tok, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(tok)
	}
	return r.URL.Query().Get("token")
}
