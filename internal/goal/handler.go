// AngelaMos | 2026
// handler.go

package goal

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/middleware"
)

const maxListedGoals = 100

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/goals", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/{goalID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	views, err := h.service.ListActive(r.Context(), userID, maxListedGoals)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToViewResponseList(views))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	goal, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		core.WriteError(w, err, "card")
		return
	}

	core.Created(w, ToGoalResponse(goal))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	goalID := chi.URLParam(r, "goalID")

	if err := uuid.Validate(goalID); err != nil {
		core.NotFound(w, "goal")
		return
	}

	if err := h.service.Deactivate(r.Context(), userID, goalID); err != nil {
		core.WriteError(w, err, "goal")
		return
	}

	core.NoContent(w)
}
