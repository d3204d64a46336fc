// AngelaMos | 2026
// assessment_test.go

package assessment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/middleware"
)

const alice = "11111111-1111-4111-8111-111111111111"

type fakeRepo struct {
	saved []ToolResult
}

func (f *fakeRepo) Save(_ context.Context, r *ToolResult) error {
	r.CreatedAt = time.Date(2026, 3, 10, 9, 0, len(f.saved), 0, time.UTC)
	f.saved = append(f.saved, *r)
	return nil
}

func (f *fakeRepo) Latest(_ context.Context, userID, tool string, limit int) ([]ToolResult, error) {
	var out []ToolResult
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].UserID == userID && f.saved[i].ToolName == tool {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

func TestExtractValues(t *testing.T) {
	got := ExtractValues(map[string]string{
		"light":      "justice",
		"flame":      "honesty, curiosity、ok・ family ",
		"protection": "",
	})

	assert.Equal(t, []string{"honesty", "curiosity", "family", "justice"}, got)
}

func TestExtractValuesCapsAndLength(t *testing.T) {
	long := strings.Repeat("x", 50)
	got := ExtractValues(map[string]string{
		"flame":  "aaa,bbb,ccc,ddd," + long,
		"handle": "eee,fff,ggg,hhh,iii",
	})

	assert.Len(t, got, MaxValues)
	assert.NotContains(t, got, long)
	assert.Equal(t, "hhh", got[MaxValues-1])
}

func concordanceAnswers(vals ...int) map[string]int {
	answers := make(map[string]int, len(vals))
	for i, v := range vals {
		answers[concordanceItems[i].ID] = v
	}
	return answers
}

func TestScoreConcordance(t *testing.T) {
	tests := []struct {
		name  string
		vals  []int
		index float64
		label string
	}{
		{"high", []int{1, 7, 2, 6, 1, 6, 3, 5}, 8.5, "high"},
		{"moderate", []int{4, 4, 4, 4, 4, 4, 3, 4}, 0.5, "moderate"},
		{"neutral is low", []int{4, 4, 4, 4, 4, 4, 4, 4}, 0, "low"},
		{"negative", []int{7, 1, 7, 1, 7, 1, 7, 1}, -12, "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := ScoreConcordance(concordanceAnswers(tt.vals...))
			require.NoError(t, err)
			assert.InDelta(t, tt.index, score.Index, 1e-9)
			assert.Equal(t, tt.label, score.Label)
		})
	}

	score, err := ScoreConcordance(concordanceAnswers(1, 7, 2, 6, 1, 6, 3, 5))
	require.NoError(t, err)
	assert.InDelta(t, 5.5, score.Averages[Intrinsic], 1e-9)
	assert.InDelta(t, 6.5, score.Averages[Identified], 1e-9)
	assert.InDelta(t, 2.5, score.Averages[Introjected], 1e-9)
	assert.InDelta(t, 1.0, score.Averages[External], 1e-9)
}

func TestScoreConcordanceRejectsIncomplete(t *testing.T) {
	_, err := ScoreConcordance(concordanceAnswers(4, 4, 4, 4, 4, 4, 4))
	assert.Error(t, err)

	_, err = ScoreConcordance(concordanceAnswers(4, 4, 4, 4, 4, 4, 4, 8))
	assert.Error(t, err)
}

func TestServiceStoresResults(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	res, err := svc.ScoreValueLantern(ctx, alice, ValueLanternRequest{
		Answers: map[string]string{"flame": "<b>honesty</b>, craft"},
	})
	require.NoError(t, err)
	assert.Equal(t, ToolValueLantern, res.Tool)

	var body ValueLanternResult
	require.NoError(t, json.Unmarshal(res.Result, &body))
	assert.Equal(t, "honesty, craft", body.Answers["flame"])
	assert.Equal(t, []string{"honesty", "craft"}, body.Values)

	_, err = svc.ScoreConcordance(ctx, alice, ConcordanceRequest{
		Answers: concordanceAnswers(4, 4, 4, 4, 4, 4, 4, 4),
	})
	require.NoError(t, err)

	results, err := svc.Results(ctx, alice, ToolValueLantern)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = svc.Results(ctx, alice, "horoscope")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.ScoreValueLantern(ctx, "", ValueLanternRequest{})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestValueLanternKeepsPunctuation(t *testing.T) {
	svc := NewService(&fakeRepo{})

	res, err := svc.ScoreValueLantern(context.Background(), alice, ValueLanternRequest{
		Answers: map[string]string{"flame": "R&D, <3 cats, it's me"},
	})
	require.NoError(t, err)

	var body ValueLanternResult
	require.NoError(t, json.Unmarshal(res.Result, &body))
	assert.Equal(t, "R&D, <3 cats, it's me", body.Answers["flame"])
	assert.Equal(t, []string{"R&D", "<3 cats", "it's me"}, body.Values)
}

func TestResultsKeepsLatestFive(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	for range 7 {
		_, err := svc.ScoreConcordance(ctx, alice, ConcordanceRequest{
			Answers: concordanceAnswers(4, 4, 4, 4, 4, 4, 4, 4),
		})
		require.NoError(t, err)
	}

	results, err := svc.Results(ctx, alice, ToolConcordance)
	require.NoError(t, err)
	require.Len(t, results, RecentResultsLimit)
	assert.Equal(t, repo.saved[6].ID, results[0].ID)
}

func TestHandlerStatuses(t *testing.T) {
	h := NewHandler(NewService(&fakeRepo{}))
	r := chi.NewRouter()
	h.RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithIdentity(req.Context(), alice, "user")))
		})
	})

	do := func(method, path, body string) int {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec.Code
	}

	full := `{"answers":{"q1":1,"q2":2,"q3":3,"q4":4,"q5":5,"q6":6,"q7":7,"q8":1}}`

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/assessments/concordance", ""))
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/assessments/horoscope", ""))
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "/assessments/concordance", full))
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/assessments/concordance", `{"answers":{"q1":1}}`))
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/assessments/value-lantern", `{"answers":{"shadow":"x"}}`))
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "/assessments/value-lantern", `{"answers":{"light":"kindness"}}`))
	assert.Equal(t, http.StatusNotFound, do(http.MethodPost, "/assessments/horoscope", `{}`))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/assessments/concordance/results", ""))
}

func TestRepositorySaveAndLatest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "pgx"))
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO tool_results`).
		WithArgs("r1", alice, ToolConcordance, `{"label":"low"}`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	result := &ToolResult{ID: "r1", UserID: alice, ToolName: ToolConcordance, Result: `{"label":"low"}`}
	require.NoError(t, repo.Save(ctx, result))
	assert.Equal(t, now, result.CreatedAt)

	mock.ExpectQuery(`(?s)FROM tool_results.*LIMIT \$3`).
		WithArgs(alice, ToolConcordance, RecentResultsLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "tool_name", "result", "created_at"}).
			AddRow("r1", alice, ToolConcordance, `{"label":"low"}`, now))

	results, err := repo.Latest(ctx, alice, ToolConcordance, RecentResultsLimit)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.JSONEq(t, `{"label":"low"}`, results[0].Result)

	assert.NoError(t, mock.ExpectationsWereMet())
}
