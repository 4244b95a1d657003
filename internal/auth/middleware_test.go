package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func issueFor(t *testing.T, svc *Service, role Role) string {
	t.Helper()
	token, err := svc.IssueToken(&User{ID: 7, Email: "a@x.com", UserName: "alice", Role: role})
	require.NoError(t, err)
	return token
}

func TestMiddlewareMissingCookie(t *testing.T) {
	svc := NewService(newFakeStore(), "test-secret", time.Hour)
	called := false
	h := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shop/products", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)
	require.JSONEq(t, `{"success":false,"message":"unauthenticated"}`, rec.Body.String())
}

func TestMiddlewareInvalidToken(t *testing.T) {
	svc := NewService(newFakeStore(), "test-secret", time.Hour)
	h := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/shop/products", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareAttachesUser(t *testing.T) {
	svc := NewService(newFakeStore(), "test-secret", time.Hour)
	var got *User
	h := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/shop/products", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: issueFor(t, svc, RoleUser)})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.Equal(t, int64(7), got.ID)
	require.Equal(t, RoleUser, got.Role)
}

func TestRequireRole(t *testing.T) {
	svc := NewService(newFakeStore(), "test-secret", time.Hour)
	gated := Middleware(svc)(RequireRole(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, RoleAdmin))

	// Standard user hits an admin-only route.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: issueFor(t, svc, RoleUser)})
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Admin passes.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: issueFor(t, svc, RoleAdmin)})
	rec = httptest.NewRecorder()
	gated.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok", 24*time.Hour)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, CookieName, c.Name)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteNoneMode, c.SameSite)
	require.Equal(t, int((24 * time.Hour).Seconds()), c.MaxAge)

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Less(t, cookies[0].MaxAge, 0)
}
