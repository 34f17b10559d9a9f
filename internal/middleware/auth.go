package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oqulab/virtlab/internal/services"
)

type authCtxKey int

const userKey authCtxKey = 1

// TokenVerifier validates a bearer token and returns the embedded user id.
type TokenVerifier interface {
	Verify(tok string) (int64, error)
}

// UserFinder resolves a token subject to an account.
type UserFinder interface {
	GetUser(id int64) (*services.User, error)
}

// Auth authenticates requests: bearer token -> verify -> user lookup. Every
// failure mode (missing header, bad/expired token, deleted user) produces the
// same 401 so account existence does not leak.
type Auth struct {
	verify TokenVerifier
	users  UserFinder
}

func NewAuth(verify TokenVerifier, users UserFinder) *Auth {
	return &Auth{verify: verify, users: users}
}

func (a *Auth) authenticate(r *http.Request) *services.User {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return nil
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	id, err := a.verify.Verify(tok)
	if err != nil {
		return nil
	}
	u, err := a.users.GetUser(id)
	if err != nil || u == nil {
		return nil
	}
	return u
}

// RequireAuth rejects unauthenticated requests and attaches the resolved
// user to the request context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := a.authenticate(r)
		if u == nil {
			Unauthenticated(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// RequireRole is RequireAuth plus a declarative role check: the authenticated
// user's role must be in the allowed set.
func (a *Auth) RequireRole(next http.Handler, roles ...string) http.Handler {
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := UserFromContext(r.Context())
		for _, role := range roles {
			if u.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "insufficient role"})
	}))
}

// UserFromContext returns the authenticated user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*services.User, bool) {
	u, ok := ctx.Value(userKey).(*services.User)
	return u, ok
}

// Unauthenticated writes the uniform 401 with the bearer challenge header.
func Unauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "could not validate credentials"})
}
