// AngelaMos | 2026
// handler_test.go

package library

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/genre"
	"github.com/carterperez-dev/eightspots/internal/middleware"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	vocab, err := genre.NewVocabulary([]string{"Action", "Comedy"})
	require.NoError(t, err)

	h := NewHandler(NewService(newMemRepo(testMovies()...)), vocab)
	authenticated := middleware.RequireAuthenticated("/v1/auth/login")

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Test-User") != "" {
				r = r.WithContext(middleware.WithPrincipal(r.Context(), &middleware.Principal{
					UserID: 5, Username: "alice", Role: middleware.RoleUser,
				}))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Route("/movies", h.BuyRoute(authenticated))
	h.RegisterRoutes(r, authenticated)
	return r
}

func do(router http.Handler, method, path string, signedIn bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if signedIn {
		req.Header.Set("X-Test-User", "1")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestBuyAndToggleFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/movies/1/buy", true)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(router, http.MethodPost, "/movies/1/buy", true)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_OWNED", errorCode(t, rec))

	rec = do(router, http.MethodPost, "/library/1/toggle", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/library", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data ShelvesResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Empty(t, body.Data.Unwatched)
	require.Len(t, body.Data.Watched, 1)
	assert.Equal(t, "Heat", body.Data.Watched[0].Title)
	assert.True(t, body.Data.Watched[0].Watched)
}

func TestBuyUnknownMovie(t *testing.T) {
	rec := do(newTestRouter(t), http.MethodPost, "/movies/99/buy", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleNotOwned(t *testing.T) {
	rec := do(newTestRouter(t), http.MethodPost, "/library/2/toggle", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_OWNED", errorCode(t, rec))
}

func TestLibraryRequiresSession(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodGet, "/library", false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/v1/auth/login", rec.Header().Get("Location"))

	rec = do(router, http.MethodPost, "/movies/1/buy", false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestBuyRejectsBadID(t *testing.T) {
	rec := do(newTestRouter(t), http.MethodPost, "/movies/abc/buy", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
