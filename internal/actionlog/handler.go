// AngelaMos | 2026
// handler.go

package actionlog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/middleware"
)

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
	r.Route("/logs", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/calendar", h.Calendar)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	res, err := h.service.Log(r.Context(), userID, req)
	if err != nil {
		core.WriteError(w, err, "card")
		return
	}

	core.Created(w, ToLogResponse(res))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	logs, err := h.service.ListRecent(
		r.Context(),
		userID,
		core.QueryInt(r, "limit", DefaultListLimit),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRecentLogResponseList(logs))
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	days, err := h.service.Calendar(
		r.Context(),
		userID,
		core.QueryInt(r, "days", 0),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, NewCalendarResponse(days))
}
