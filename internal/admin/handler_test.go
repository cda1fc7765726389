// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/middleware"
)

type fixedCount struct {
	n   int
	err error
}

func (f fixedCount) Count(context.Context) (int, error) { return f.n, f.err }

func newRouter() http.Handler {
	h := NewHandler(HandlerConfig{
		DBStats:    func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 25, InUse: 2} },
		RedisStats: func() core.RedisPoolStats { return core.RedisPoolStats{TotalConns: 3} },
		DBPing:     func(context.Context) error { return nil },
		RedisPing:  func(context.Context) error { return errors.New("down") },
		Tallies: []Tally{
			{Name: "movies", Counter: fixedCount{n: 14}},
			{Name: "reviews", Counter: fixedCount{err: core.StoreError("count reviews", errors.New("timeout"))}},
		},
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r, middleware.RequireAdmin)
	return r
}

func get(router http.Handler, path string, p *middleware.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if p != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var root = &middleware.Principal{UserID: 1, Username: "root", Role: middleware.RoleAdmin}

func TestSystemStats(t *testing.T) {
	rec := get(newRouter(), "/admin/stats", root)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.True(t, body.Data.Database.Healthy)
	assert.Equal(t, 25, body.Data.Database.Stats.MaxOpenConnections)
	assert.False(t, body.Data.Redis.Healthy)
	assert.Equal(t, uint32(3), body.Data.Redis.Stats.TotalConns)
	assert.Equal(t, 14, body.Data.Catalog["movies"])
	assert.Equal(t, -1, body.Data.Catalog["reviews"])
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}

func TestStatsRequireAdmin(t *testing.T) {
	router := newRouter()
	alice := &middleware.Principal{UserID: 2, Username: "alice", Role: middleware.RoleUser}

	assert.Equal(t, http.StatusForbidden, get(router, "/admin/stats/db", alice).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/admin/stats/catalog", nil).Code)
	assert.Equal(t, http.StatusOK, get(router, "/admin/stats/catalog", root).Code)
}
