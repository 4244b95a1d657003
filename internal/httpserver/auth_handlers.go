package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"storefront/internal/auth"
)

func publicUser(u *auth.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"email":    u.Email,
		"userName": u.UserName,
		"role":     u.Role,
	}
}

func registerHandler(svc *auth.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var payload struct {
			UserName string `json:"userName"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
		if payload.UserName == "" || payload.Email == "" || payload.Password == "" {
			writeError(w, http.StatusBadRequest, "userName, email and password are required")
			return
		}
		user, err := svc.Register(r.Context(), payload.UserName, payload.Email, payload.Password)
		if err != nil {
			if errors.Is(err, auth.ErrDuplicateEmail) {
				writeError(w, http.StatusConflict, "email already registered")
				return
			}
			logger.Error("register user", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": "registration successful",
			"user":    publicUser(user),
		})
	}
}

func loginHandler(svc *auth.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
		user, token, err := svc.Authenticate(r.Context(), payload.Email, payload.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "user does not exist")
			case errors.Is(err, auth.ErrInvalidCredential):
				writeError(w, http.StatusUnauthorized, "incorrect password")
			default:
				logger.Error("login", "err", err)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		auth.SetSessionCookie(w, token, svc.TokenTTL())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "logged in",
			"user":    publicUser(user),
		})
	}
}

func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		auth.ClearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "logged out",
		})
	}
}

// checkHandler lets the client rebuild its session from the cookie alone.
// Runs behind the gate, so the context always carries a verified identity.
func checkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    publicUser(user),
		})
	}
}
