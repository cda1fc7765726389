// AngelaMos | 2026
// handler_test.go

package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/middleware"
)

func TestAdminListUsers(t *testing.T) {
	repo, mock := newMockRepo(t)
	h := NewHandler(NewService(repo))
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE TRUE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("ORDER BY id ASC").
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(3), "carol", "h", now, now))

	r := chi.NewRouter()
	h.RegisterAdminRoutes(r, middleware.RequireAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin/users?page=2&page_size=2", nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), &middleware.Principal{
		UserID: 1, Username: "root", Role: middleware.RoleAdmin,
	}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Items []UserResponse `json:"items"`
			Meta  core.PageMeta  `json:"meta"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "carol", body.Data.Items[0].Username)
	assert.Equal(t, core.PageMeta{Page: 2, PageSize: 2, Total: 3, TotalPages: 2}, body.Data.Meta)
}

func TestAdminListUsersForbiddenForUsers(t *testing.T) {
	repo, _ := newMockRepo(t)
	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterAdminRoutes(r, middleware.RequireAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), &middleware.Principal{
		UserID: 2, Username: "alice", Role: middleware.RoleUser,
	}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
