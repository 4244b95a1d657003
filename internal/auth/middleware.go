package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const userContextKey contextKey = "storefront_user"

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": msg,
	})
}

// Middleware is the access gate: it reads the session cookie, verifies the
// token, and attaches the resolved identity to the request context. Requests
// without a valid token never reach the wrapped handler.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				deny(w, http.StatusUnauthorized, "unauthenticated")
				return
			}
			claims, err := svc.ParseToken(cookie.Value)
			if err != nil {
				deny(w, http.StatusUnauthorized, "unauthenticated")
				return
			}
			user := &User{
				ID:       claims.UserID,
				Email:    claims.Email,
				UserName: claims.UserName,
				Role:     claims.Role,
			}
			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole layers authorization on top of the gate. Authentication failures
// stay 401; a valid identity with the wrong role gets 403.
func RequireRole(next http.HandlerFunc, roles ...Role) http.HandlerFunc {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			deny(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			deny(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r)
	}
}
