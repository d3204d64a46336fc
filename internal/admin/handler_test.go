// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-app/praxis-api/internal/actionlog"
)

func passthrough(next http.Handler) http.Handler { return next }

func get(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r, passthrough, passthrough)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestProgressionStats(t *testing.T) {
	h := NewHandler(HandlerConfig{
		RankDistribution: func(context.Context) (map[string]int, error) {
			return map[string]int{"Bronze": 3, "Silver": 1}, nil
		},
		LedgerTotals: func(context.Context) (*actionlog.LedgerTotals, error) {
			return &actionlog.LedgerTotals{Logs: 40, Points: 400}, nil
		},
	})

	rec := get(t, h, "/admin/stats/progression")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data ProgressionStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Ranks["Bronze"])
	assert.Equal(t, 400, body.Data.Ledger.Points)
	assert.True(t, body.Data.Consistent)
}

func TestProgressionStatsStorageFailure(t *testing.T) {
	h := NewHandler(HandlerConfig{
		RankDistribution: func(context.Context) (map[string]int, error) {
			return nil, errors.New("db down")
		},
	})

	assert.Equal(t, http.StatusInternalServerError, get(t, h, "/admin/stats/progression").Code)
}

func TestSystemStatsReportsUnhealthyDatabase(t *testing.T) {
	h := NewHandler(HandlerConfig{
		DBStats: func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 25} },
		DBPing:  func(context.Context) error { return errors.New("refused") },
	})

	rec := get(t, h, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data.Database.Healthy)
	assert.True(t, body.Data.Redis.Healthy)
	assert.Equal(t, 25, body.Data.Database.Stats.MaxOpenConnections)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}
