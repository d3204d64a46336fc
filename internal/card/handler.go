// AngelaMos | 2026
// handler.go

package card

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog. optionalAuth identifies the caller
// when a token is present so completion can be reported.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)

		r.Get("/issues", h.ListIssues)
		r.Get("/issues/{issueID}", h.GetIssue)
		r.Get("/cards/suggestions", h.Suggestions)
		r.Get("/cards/{cardID}", h.GetCard)
	})
}

func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.service.ListIssues(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, issues)
}

func (h *Handler) GetIssue(w http.ResponseWriter, r *http.Request) {
	issueID := chi.URLParam(r, "issueID")
	if uuid.Validate(issueID) != nil {
		core.NotFound(w, "issue")
		return
	}

	issue, err := h.service.GetIssue(r.Context(), issueID, middleware.GetUserID(r.Context()))
	if err != nil {
		core.WriteError(w, err, "issue")
		return
	}

	core.OK(w, issue)
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	if uuid.Validate(cardID) != nil {
		core.NotFound(w, "card")
		return
	}

	c, err := h.service.GetCard(r.Context(), cardID, middleware.GetUserID(r.Context()))
	if err != nil {
		core.WriteError(w, err, "card")
		return
	}

	core.OK(w, c)
}

func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.Suggestions(r.Context(), SuggestionLimit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, cards)
}
