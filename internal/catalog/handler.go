// AngelaMos | 2026
// handler.go

package catalog

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/genre"
	"github.com/carterperez-dev/eightspots/internal/location"
	"github.com/carterperez-dev/eightspots/internal/middleware"
	"github.com/carterperez-dev/eightspots/internal/review"
	"github.com/carterperez-dev/eightspots/internal/storage"
)

type LocationLister interface {
	List(ctx context.Context) ([]location.Location, error)
}

type ReviewLister interface {
	ListForMovie(ctx context.Context, movieID int64) ([]review.Review, error)
}

type Handler struct {
	service        *Service
	locations      LocationLister
	reviews        ReviewLister
	validator      *validator.Validate
	maxPosterBytes int64
}

func NewHandler(
	service *Service,
	locations LocationLister,
	reviews ReviewLister,
	maxPosterBytes int64,
) *Handler {
	return &Handler{
		service:        service,
		locations:      locations,
		reviews:        reviews,
		validator:      validator.New(validator.WithRequiredStructEnabled()),
		maxPosterBytes: maxPosterBytes,
	}
}

// RegisterRoutes mounts /home, /genres and /movies. movieRoutes lets other
// packages hang handlers under /movies/{movieID}.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	adminOnly func(http.Handler) http.Handler,
	movieRoutes ...func(chi.Router),
) {
	r.Get("/home", h.Home)
	r.Get("/genres", h.Genres)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", h.List)
		r.With(adminOnly).Post("/", h.Create)
		r.Get("/top", h.Top)
		r.Get("/{movieID}", h.Get)
		r.Get("/{movieID}/poster", h.Poster)

		for _, mount := range movieRoutes {
			mount(r)
		}
	})
}

type HomeResponse struct {
	Shelves   []ShelfResponse     `json:"shelves"`
	Locations []location.Location `json:"locations"`
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	shelves, err := h.service.TopForAllGenres(r.Context(), h.service.DefaultTopN())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	locations, err := h.locations.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, HomeResponse{
		Shelves:   ToShelfResponseList(shelves, h.service.Vocabulary()),
		Locations: locations,
	})
}

func (h *Handler) Genres(w http.ResponseWriter, _ *http.Request) {
	labels := h.service.Vocabulary().Labels()

	out := make([]GenreResponse, 0, len(labels))
	for i, label := range labels {
		out = append(out, GenreResponse{Bit: i, Label: label})
	}
	core.OK(w, out)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, ToMovieResponseList(movies, h.service.Vocabulary()))
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("genre")
	if label == "" {
		core.BadRequest(w, "genre is required")
		return
	}

	n := h.service.DefaultTopN()
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 100 {
			core.BadRequest(w, "n must be between 0 and 100")
			return
		}
		n = parsed
	}

	movies, err := h.service.TopByGenre(r.Context(), label, n)
	if err != nil {
		if errors.Is(err, genre.ErrUnknownLabel) {
			writeUnknownGenre(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ShelfResponse{
		Genre:  label,
		Movies: ToMovieResponseList(movies, h.service.Vocabulary()),
	})
}

type MovieDetailResponse struct {
	MovieResponse
	Reviews []review.ReviewResponse `json:"reviews"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	movie, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "movie")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	reviews, err := h.reviews.ListForMovie(r.Context(), id)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, MovieDetailResponse{
		MovieResponse: ToMovieResponse(movie, h.service.Vocabulary()),
		Reviews:       review.ToReviewResponseList(reviews),
	})
}

func (h *Handler) Poster(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	rc, movie, err := h.service.OpenPoster(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) || errors.Is(err, storage.ErrObjectNotFound) {
			core.NotFound(w, "poster")
			return
		}
		core.InternalServerError(w, err)
		return
	}
	defer rc.Close() //nolint:errcheck // read-only stream

	contentType := mime.TypeByExtension(path.Ext(movie.PosterRef))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	//nolint:errcheck // client may hang up mid-stream
	_, _ = io.Copy(w, rc)
}

// Create accepts multipart/form-data: title, score, price, genres (repeated
// or comma separated) or genre_bitmap, and a poster file.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPosterBytes+(1<<20))
	if err := r.ParseMultipartForm(h.maxPosterBytes); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	req, bitmap, err := parseCreateForm(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	file, header, err := r.FormFile("poster")
	if err != nil {
		core.BadRequest(w, "poster file is required")
		return
	}
	defer file.Close() //nolint:errcheck // multipart temp file

	movie, err := h.service.Create(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		CreateInput{
			Title:  req.Title,
			Score:  req.Score,
			Price:  req.Price,
			Genres: req.Genres,
			Bitmap: bitmap,
		},
		&Poster{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrPermissionDenied):
			core.Forbidden(w, "administrator only")
		case errors.Is(err, genre.ErrUnknownLabel):
			writeUnknownGenre(w, err)
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "title, score in [0,10] and non-negative price are required")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToMovieResponse(movie, h.service.Vocabulary()))
}

type formError string

func (e formError) Error() string { return string(e) }

func parseCreateForm(r *http.Request) (CreateMovieRequest, *uint64, error) {
	req := CreateMovieRequest{Title: strings.TrimSpace(r.FormValue("title"))}

	score, err := strconv.ParseFloat(r.FormValue("score"), 64)
	if err != nil {
		return req, nil, formError("score must be a number")
	}
	req.Score = score

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		return req, nil, formError("price must be a number")
	}
	req.Price = price

	for _, value := range r.MultipartForm.Value["genres"] {
		for _, label := range strings.Split(value, ",") {
			if label = strings.TrimSpace(label); label != "" {
				req.Genres = append(req.Genres, label)
			}
		}
	}

	var bitmap *uint64
	if raw := r.FormValue("genre_bitmap"); raw != "" {
		b, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			return req, nil, formError("genre_bitmap must be an unsigned integer")
		}
		bitmap = &b
	}

	return req, bitmap, nil
}

func movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "movieID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid movie id")
		return 0, false
	}
	return id, true
}

func writeUnknownGenre(w http.ResponseWriter, err error) {
	core.JSONError(w, core.NewAppError(
		err,
		err.Error(),
		http.StatusBadRequest,
		"UNKNOWN_GENRE",
	))
}
