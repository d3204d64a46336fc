// AngelaMos | 2026
// handler.go

package assessment

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

func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Route("/assessments/{tool}", func(r chi.Router) {
		r.Get("/", h.Catalog)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/", h.Submit)
			r.Get("/results", h.Results)
		})
	})
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Catalog(chi.URLParam(r, "tool"))
	if err != nil {
		core.WriteError(w, err, "tool")
		return
	}

	core.OK(w, c)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var (
		result *ResultResponse
		err    error
	)

	switch tool := chi.URLParam(r, "tool"); tool {
	case ToolValueLantern:
		var req ValueLanternRequest
		if !h.decode(w, r, &req) {
			return
		}
		result, err = h.service.ScoreValueLantern(r.Context(), userID, req)
	case ToolConcordance:
		var req ConcordanceRequest
		if !h.decode(w, r, &req) {
			return
		}
		result, err = h.service.ScoreConcordance(r.Context(), userID, req)
	default:
		core.NotFound(w, "tool")
		return
	}

	if err != nil {
		core.WriteError(w, err, "tool")
		return
	}

	core.Created(w, result)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "tool"),
	)
	if err != nil {
		core.WriteError(w, err, "tool")
		return
	}

	core.OK(w, results)
}
