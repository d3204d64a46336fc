// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		deps   []Dependency
		status int
		state  string
	}{
		{
			name:   "all healthy",
			deps:   []Dependency{{"database", pinger{}}, {"redis", pinger{}}},
			status: http.StatusOK,
			state:  "ok",
		},
		{
			name:   "redis down",
			deps:   []Dependency{{"database", pinger{}}, {"redis", pinger{errors.New("refused")}}},
			status: http.StatusServiceUnavailable,
			state:  "degraded",
		},
		{
			name:   "unconfigured checker",
			deps:   []Dependency{{"database", nil}},
			status: http.StatusServiceUnavailable,
			state:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler("1.0.0", tt.deps...), "/readyz")
			assert.Equal(t, tt.status, rec.Code)

			var body ReadinessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.state, body.Status)
			require.Len(t, body.Checks, len(tt.deps))
			assert.Equal(t, tt.deps[0].Name, body.Checks[0].Name)
		})
	}
}

func TestLivenessAndShutdown(t *testing.T) {
	h := NewHandler("1.2.3")

	rec := serve(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

	h.SetShutdown(true)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz").Code)
}
