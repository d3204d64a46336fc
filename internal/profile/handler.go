// AngelaMos | 2026
// handler.go

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.With(optionalAuth).Get("/profiles/{username}", h.Profile)
	r.With(authenticator).Get("/dashboard", h.Dashboard)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Profile(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "username"),
	)
	if err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.OK(w, resp)
}
