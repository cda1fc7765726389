// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/eightspots/internal/config"
	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	cookie    config.SessionConfig
	roles     RolePolicy
}

func NewHandler(service *Service, cookie config.SessionConfig) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		cookie:    cookie,
		roles:     service.roles,
	}
}

// RegisterRoutes mounts /auth. anonymousOnly and authenticated are the route
// guards; loginLimit throttles credential guessing.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	anonymousOnly, authenticated, loginLimit func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.With(anonymousOnly).Post("/register", h.Register)
		r.With(anonymousOnly, loginLimit).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(authenticated).Get("/me", h.Me)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUsername):
			core.JSONError(w, core.DuplicateError("username"))
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "username and password are required")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, RegisterResponse{
		User:   UserResponse{ID: user.ID, Username: user.Username},
		Notice: registeredNotice,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.NewAppError(
				err,
				"invalid username or password",
				http.StatusUnauthorized,
				"INVALID_CREDENTIALS",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.cookie.TTL/time.Second)))

	core.OK(w, LoginResponse{
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     h.roles.RoleFor(user.ID),
		},
		Token: token,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r, h.cookie.CookieName)

	if err := h.service.TerminateSession(r.Context(), token); err != nil {
		core.InternalServerError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	core.NoContent(w)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())

	core.OK(w, UserResponse{
		ID:       p.UserID,
		Username: p.Username,
		Role:     p.Role,
	})
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
