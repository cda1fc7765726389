// AngelaMos | 2026
// handler_test.go

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/eightspots/internal/location"
	"github.com/carterperez-dev/eightspots/internal/middleware"
	"github.com/carterperez-dev/eightspots/internal/review"
)

type stubLocations []location.Location

func (s stubLocations) List(context.Context) ([]location.Location, error) {
	return s, nil
}

type stubReviews map[int64][]review.Review

func (s stubReviews) ListForMovie(_ context.Context, id int64) ([]review.Review, error) {
	if r, ok := s[id]; ok {
		return r, nil
	}
	return []review.Review{}, nil
}

func newTestRouter(t *testing.T, svc *Service) http.Handler {
	t.Helper()
	h := NewHandler(
		svc,
		stubLocations{{ID: 1, PhoneNum: "555", City: "Austin", Address: "1 Main"}},
		stubReviews{1: {{ID: 9, MovieID: 1, Rating: 5, Comment: "wow", Username: "alice"}}},
		1<<20,
	)

	r := chi.NewRouter()
	h.RegisterRoutes(r, middleware.RequireAdmin)
	return r
}

func withPrincipal(req *http.Request, p *middleware.Principal) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}

func multipartBody(t *testing.T, fields map[string][]string, withPoster bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if withPoster {
		fw, err := mw.CreateFormFile("poster", "heat.jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte("jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateMovieHandler(t *testing.T) {
	svc, _, backend := newTestService(t, "Action", "Comedy")
	router := newTestRouter(t, svc)

	post := func(p *middleware.Principal, fields map[string][]string, poster bool) *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, fields, poster)
		req := httptest.NewRequest(http.MethodPost, "/movies", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withPrincipal(req, p))
		return rec
	}

	valid := map[string][]string{
		"title":  {"Heat"},
		"score":  {"8.3"},
		"price":  {"4.99"},
		"genres": {"Action", "Comedy"},
	}

	assert.Equal(t, http.StatusForbidden, post(alice, valid, true).Code)
	assert.Equal(t, http.StatusBadRequest, post(admin, valid, false).Code)

	unknown := map[string][]string{"title": {"X"}, "score": {"1"}, "price": {"1"}, "genres": {"Noir"}}
	rec := post(admin, unknown, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_GENRE")

	rec = post(admin, valid, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data MovieResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"Action", "Comedy"}, body.Data.Genres)
	assert.Equal(t, uint64(0b11), body.Data.Bitmap)
	assert.Equal(t, 4, body.Data.Stars)
	assert.Equal(t, 1, backend.Len())
}

func TestTopAndHomeHandlers(t *testing.T) {
	svc, _, _ := newTestService(t, "Action", "Comedy")
	seed(t, svc, "A", 8.0, "Action")
	seed(t, svc, "B", 6.0, "Action", "Comedy")
	router := newTestRouter(t, svc)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/movies/top?genre=Comedy&n=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var top struct {
		Data ShelfResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&top))
	require.Len(t, top.Data.Movies, 1)
	assert.Equal(t, "B", top.Data.Movies[0].Title)

	assert.Equal(t, http.StatusBadRequest, get("/movies/top?genre=Noir").Code)
	assert.Equal(t, http.StatusBadRequest, get("/movies/top").Code)
	assert.Equal(t, http.StatusBadRequest, get("/movies/top?genre=Action&n=x").Code)

	rec = get("/home")
	require.Equal(t, http.StatusOK, rec.Code)
	var home struct {
		Data HomeResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&home))
	require.Len(t, home.Data.Shelves, 2)
	assert.Equal(t, "Action", home.Data.Shelves[0].Genre)
	assert.Len(t, home.Data.Shelves[0].Movies, 2)
	assert.Len(t, home.Data.Locations, 1)

	rec = get("/genres")
	assert.Contains(t, rec.Body.String(), `{"bit":1,"label":"Comedy"}`)
}

func TestGetMovieHandler(t *testing.T) {
	svc, _, _ := newTestService(t, "Action")
	seed(t, svc, "A", 8.0, "Action")
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"comment":"wow"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/1/poster", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png", rec.Body.String())
}
