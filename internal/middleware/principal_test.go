// AngelaMos | 2026
// principal_test.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/eightspots/internal/core"
)

type stubResolver map[string]*Principal

func (s stubResolver) Resolve(_ context.Context, token string) (*Principal, error) {
	if token == "broken" {
		return nil, core.StoreError("get session", errors.New("dial tcp: refused"))
	}
	if p, ok := s[token]; ok {
		return p, nil
	}
	return &Principal{}, nil
}

var resolver = stubResolver{
	"alice-token": {UserID: 2, Username: "alice", Role: RoleUser},
	"admin-token": {UserID: 1, Username: "root", Role: RoleAdmin},
}

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := GetPrincipal(r.Context())
		w.Header().Set("X-User", p.Username)
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func withCookie(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "sid", Value: token})
	}
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func TestLoadPrincipal(t *testing.T) {
	h := LoadPrincipal(resolver, "sid")(echoPrincipal())

	tests := []struct {
		name     string
		mutate   func(*http.Request)
		status   int
		username string
	}{
		{name: "no token is anonymous", status: http.StatusOK},
		{name: "cookie", mutate: withCookie("alice-token"), status: http.StatusOK, username: "alice"},
		{name: "bearer", mutate: withBearer("admin-token"), status: http.StatusOK, username: "root"},
		{name: "unknown token is anonymous", mutate: withCookie("stale"), status: http.StatusOK},
		{name: "store outage", mutate: withCookie("broken"), status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.mutate)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.username, rec.Header().Get("X-User"))
		})
	}
}

func TestExtractTokenPrefersCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")

	assert.Equal(t, "from-cookie", ExtractToken(req, "sid"))
	assert.Equal(t, "from-header", ExtractToken(req, "other"))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, ExtractToken(req, "other"))
}

func TestGuards(t *testing.T) {
	chain := func(guard func(http.Handler) http.Handler) http.Handler {
		return LoadPrincipal(resolver, "sid")(guard(echoPrincipal()))
	}

	anonymousOnly := chain(RequireAnonymous("/"))
	signedIn := chain(RequireAuthenticated("/login"))
	adminOnly := chain(RequireAdmin)

	tests := []struct {
		name     string
		handler  http.Handler
		mutate   func(*http.Request)
		status   int
		location string
	}{
		{name: "anonymous page, anonymous caller", handler: anonymousOnly, status: http.StatusOK},
		{name: "anonymous page, signed in", handler: anonymousOnly, mutate: withCookie("alice-token"), status: http.StatusSeeOther, location: "/"},
		{name: "authenticated page, anonymous caller", handler: signedIn, status: http.StatusSeeOther, location: "/login"},
		{name: "authenticated page, signed in", handler: signedIn, mutate: withCookie("alice-token"), status: http.StatusOK},
		{name: "admin page, anonymous caller", handler: adminOnly, status: http.StatusForbidden},
		{name: "admin page, regular user", handler: adminOnly, mutate: withCookie("alice-token"), status: http.StatusForbidden},
		{name: "admin page, admin", handler: adminOnly, mutate: withCookie("admin-token"), status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.handler, tt.mutate)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestPrincipalPredicates(t *testing.T) {
	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.IsAuthenticated())
	assert.False(t, nilPrincipal.IsAdmin())
	assert.False(t, (&Principal{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&Principal{UserID: 1, Role: RoleAdmin}).IsAdmin())

	ctx := WithPrincipal(context.Background(), &Principal{UserID: 9})
	assert.Equal(t, int64(9), GetUserID(ctx))
	assert.True(t, IsAuthenticated(ctx))
	assert.False(t, IsAdmin(ctx))
	assert.Zero(t, GetUserID(context.Background()))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := serve(h, nil)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	rec = serve(h, func(r *http.Request) { r.Header.Set(RequestIDHeader, "abc") })
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}
