// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: core.NewValidator(),
	}
}

// RegisterRoutes mounts /auth. Session management routes sit behind
// authenticator; login, registration and refresh are public.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.Me)
			r.Post("/logout", h.Logout)
			r.Post("/logout-all", h.LogoutAll)
			r.Get("/sessions", h.Sessions)
			r.Delete("/sessions/{sessionID}", h.RevokeSession)
			r.Post("/change-password", h.ChangePassword)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.bind(w, r, &req) {
		return
	}

	device := deviceOf(r)
	resp, err := h.service.Register(r.Context(), req, device.userAgent, device.ip)
	if err != nil {
		writeSessionError(w, err, "user")
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.bind(w, r, &req) {
		return
	}

	device := deviceOf(r)
	resp, err := h.service.Login(r.Context(), req, device.userAgent, device.ip)
	if errors.Is(err, ErrInvalidCredentials) {
		core.Unauthorized(w, "invalid username or password")
		return
	}
	if err != nil {
		writeSessionError(w, err, "user")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.bind(w, r, &req) {
		return
	}

	device := deviceOf(r)
	resp, err := h.service.Refresh(r.Context(), req.RefreshToken, device.userAgent, device.ip)
	if errors.Is(err, ErrTokenReuse) {
		slog.WarnContext(r.Context(), "refresh token reused, family revoked",
			"ip", device.ip,
			"user_agent", device.userAgent,
		)
	}
	if err != nil {
		writeSessionError(w, err, "session")
		return
	}

	core.OK(w, resp)
}

// Logout revokes the presented refresh token and blacklists the access
// token used for this request until it would have expired anyway.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req RefreshRequest
	if !h.bind(w, r, &req) {
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken, userID); err != nil {
		writeSessionError(w, err, "session")
		return
	}

	if claims := middleware.GetClaims(r.Context()); claims != nil {
		err := h.service.RevokeAccessToken(r.Context(), claims.TokenID, claims.ExpiresAt)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
	}

	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		writeSessionError(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	sessions, err := h.service.GetActiveSessions(r.Context(), userID)
	if err != nil {
		writeSessionError(w, err, "session")
		return
	}

	core.OK(w, SessionsResponse{Sessions: sessions})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.service.RevokeSession(r.Context(), userID, sessionID); err != nil {
		writeSessionError(w, err, "session")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	err := h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, ErrInvalidCredentials) {
		core.Unauthorized(w, "current password is incorrect")
		return
	}
	if err != nil {
		writeSessionError(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeSessionError(w, err, "user")
		return
	}

	core.OK(w, user)
}

// bind decodes the JSON body into dst and validates it, writing a 400 and
// returning false when either step fails.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}
	return true
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return "", false
	}
	return userID, true
}

// writeSessionError maps token and session failures onto their error
// codes and leaves the rest to core.WriteError.
func writeSessionError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, ErrTokenReuse):
		core.JSONError(w, core.NewAppError(
			core.ErrTokenRevoked,
			"refresh token reuse detected, all sessions revoked",
			http.StatusUnauthorized,
			"TOKEN_REUSE_DETECTED",
		))
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.WriteError(w, err, resource)
	}
}

type device struct {
	userAgent string
	ip        string
}

// deviceOf records which client a session was opened from. The last
// X-Forwarded-For hop is the one appended by our own proxy.
func deviceOf(r *http.Request) device {
	d := device{userAgent: r.UserAgent()}

	switch {
	case r.Header.Get("X-Forwarded-For") != "":
		hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		d.ip = strings.TrimSpace(hops[len(hops)-1])
	case r.Header.Get("X-Real-IP") != "":
		d.ip = r.Header.Get("X-Real-IP")
	default:
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		d.ip = host
	}

	return d
}
