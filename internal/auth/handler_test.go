// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/eightspots/internal/config"
	"github.com/carterperez-dev/eightspots/internal/middleware"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, _, _ := newTestService(t)
	cookie := config.SessionConfig{CookieName: "sid", TTL: time.Hour}
	h := NewHandler(svc, cookie)

	r := chi.NewRouter()
	r.Use(middleware.LoadPrincipal(svc, cookie.CookieName))
	pass := func(next http.Handler) http.Handler { return next }
	h.RegisterRoutes(r,
		middleware.RequireAnonymous("/"),
		middleware.RequireAuthenticated("/login"),
		pass,
	)
	return r
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRegisterLoginMeLogout(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "registered successfully, please log in")
	assert.Empty(t, rec.Result().Cookies())

	rec = do(router, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(router, http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")

	rec = do(router, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)

	var body struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, cookie.Value, body.Data.Token)
	assert.Equal(t, middleware.RoleAdmin, body.Data.User.Role)

	rec = do(router, http.MethodGet, "/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	rec = do(router, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw"}`, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = do(router, http.MethodPost, "/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, -1, sessionCookie(t, rec).MaxAge)

	rec = do(router, http.MethodPost, "/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodGet, "/auth/me", "", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/auth/register", `{"username":"","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, "/auth/register", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
