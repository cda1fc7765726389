// AngelaMos | 2026
// handler.go

package location

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/middleware"
)

type CreateLocationRequest struct {
	PhoneNum string `json:"phone_num" validate:"required,max=32"`
	City     string `json:"city"      validate:"required,max=100"`
	Address  string `json:"address"   validate:"required,max=255"`
}

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/locations", func(r chi.Router) {
		r.Get("/", h.List)
		r.With(adminOnly).Post("/", h.Create)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, locations)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	loc, err := h.service.Create(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		req.PhoneNum,
		req.City,
		req.Address,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrPermissionDenied):
			core.Forbidden(w, "administrator only")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "phone_num, city and address are required")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, loc)
}
