// AngelaMos | 2026
// handler.go

package social

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

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
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/posts", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.Feed)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/", h.CreatePost)
			r.Delete("/{postID}", h.DeletePost)
			r.Post("/{postID}/like", h.Like)
			r.Delete("/{postID}/like", h.Unlike)
		})
	})

	r.Route("/follows", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/{userID}", h.Follow)
		r.Delete("/{userID}", h.Unfollow)
	})
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	q := FeedQuery{
		Filter: r.URL.Query().Get("filter"),
		Cursor: r.URL.Query().Get("cursor"),
	}

	page, err := h.service.Feed(r.Context(), middleware.GetUserID(r.Context()), q)
	if err != nil {
		core.WriteError(w, err, "post")
		return
	}

	core.OK(w, page)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	post, err := h.service.CreatePost(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.WriteError(w, err, "card")
		return
	}

	core.Created(w, post)
}

// pathID reads a uuid path parameter and answers 404 for malformed ids.
func pathID(w http.ResponseWriter, r *http.Request, key, resource string) (string, bool) {
	id := chi.URLParam(r, key)
	if uuid.Validate(id) != nil {
		core.NotFound(w, resource)
		return "", false
	}
	return id, true
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postID", "post")
	if !ok {
		return
	}

	if err := h.service.DeletePost(r.Context(), middleware.GetUserID(r.Context()), postID); err != nil {
		core.WriteError(w, err, "post")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postID", "post")
	if !ok {
		return
	}

	if err := h.service.Like(r.Context(), middleware.GetUserID(r.Context()), postID); err != nil {
		core.WriteError(w, err, "post")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postID", "post")
	if !ok {
		return
	}

	if err := h.service.Unlike(r.Context(), middleware.GetUserID(r.Context()), postID); err != nil {
		core.WriteError(w, err, "post")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID", "user")
	if !ok {
		return
	}

	if err := h.service.Follow(r.Context(), middleware.GetUserID(r.Context()), userID); err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID", "user")
	if !ok {
		return
	}

	if err := h.service.Unfollow(r.Context(), middleware.GetUserID(r.Context()), userID); err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.NoContent(w)
}
