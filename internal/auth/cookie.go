package auth

import (
	"net/http"
	"time"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// SetSessionCookie writes the token cookie. SameSite=None because the SPA is
// served from a different origin than the API; that in turn requires Secure.
// MaxAge is derived from the same TTL as the token's exp claim so the cookie
// and the token expire together.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(ttl / time.Second),
	})
}

// ClearSessionCookie expires the cookie immediately. The token itself stays
// cryptographically valid until its exp; stateless sessions cannot be revoked
// server-side.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
	})
}
