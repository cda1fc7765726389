// AngelaMos | 2026
// handler.go

package library

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/eightspots/internal/catalog"
	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/genre"
	"github.com/carterperez-dev/eightspots/internal/middleware"
)

type ItemResponse struct {
	catalog.MovieResponse
	Watched     bool      `json:"watched"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type ShelvesResponse struct {
	Unwatched []ItemResponse `json:"unwatched"`
	Watched   []ItemResponse `json:"watched"`
}

type ToggleResponse struct {
	MovieID int64 `json:"movie_id"`
	Watched bool  `json:"watched"`
}

type Handler struct {
	service *Service
	vocab   *genre.Vocabulary
}

func NewHandler(service *Service, vocab *genre.Vocabulary) *Handler {
	return &Handler{service: service, vocab: vocab}
}

func (h *Handler) RegisterRoutes(r chi.Router, authenticated func(http.Handler) http.Handler) {
	r.Route("/library", func(r chi.Router) {
		r.Use(authenticated)

		r.Get("/", h.List)
		r.Post("/{movieID}/toggle", h.Toggle)
	})
}

// BuyRoute hangs POST /{movieID}/buy under the catalog's /movies router.
func (h *Handler) BuyRoute(authenticated func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.With(authenticated).Post("/{movieID}/buy", h.Buy)
	}
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	movieID, ok := parseMovieID(w, r)
	if !ok {
		return
	}

	err := h.service.Purchase(r.Context(), middleware.GetUserID(r.Context()), movieID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyOwned):
			core.JSONError(w, core.NewAppError(err, "movie already in library", http.StatusConflict, "ALREADY_OWNED"))
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "movie")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToggleResponse{MovieID: movieID, Watched: false})
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	movieID, ok := parseMovieID(w, r)
	if !ok {
		return
	}

	status, err := h.service.ToggleStatus(r.Context(), middleware.GetUserID(r.Context()), movieID)
	if err != nil {
		if errors.Is(err, ErrNotOwned) {
			core.JSONError(w, core.NewAppError(err, "movie not in library", http.StatusNotFound, "NOT_OWNED"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToggleResponse{MovieID: movieID, Watched: status})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	shelves, err := h.service.Shelves(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ShelvesResponse{
		Unwatched: h.toItemResponses(shelves.Unwatched),
		Watched:   h.toItemResponses(shelves.Watched),
	})
}

func (h *Handler) toItemResponses(items []Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, ItemResponse{
			MovieResponse: catalog.ToMovieResponse(&items[i].Movie, h.vocab),
			Watched:       items[i].Status,
			PurchasedAt:   items[i].PurchasedAt,
		})
	}
	return out
}

func parseMovieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "movieID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid movie id")
		return 0, false
	}
	return id, true
}
