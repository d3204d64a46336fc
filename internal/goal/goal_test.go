// AngelaMos | 2026
// goal_test.go

package goal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-app/praxis-api/internal/activity"
	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/middleware"
)

const (
	userA = "11111111-1111-4111-8111-111111111111"
	userB = "22222222-2222-4222-8222-222222222222"
	cardX = "33333333-3333-4333-8333-333333333333"
)

type fakeRepo struct {
	cards map[string]bool
	goals []Goal
	logs  map[string][]time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		cards: map[string]bool{cardX: true},
		logs:  map[string][]time.Time{},
	}
}

func (f *fakeRepo) CardExists(_ context.Context, cardID string) (bool, error) {
	return f.cards[cardID], nil
}

func (f *fakeRepo) HasActive(_ context.Context, userID, cardID string) (bool, error) {
	for _, g := range f.goals {
		if g.UserID == userID && g.CardID == cardID && g.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Create(_ context.Context, g *Goal) error {
	g.IsActive = true
	g.CreatedAt = time.Now()
	f.goals = append(f.goals, *g)
	return nil
}

func (f *fakeRepo) ListActive(_ context.Context, userID string, limit int) ([]GoalWithCard, error) {
	var out []GoalWithCard
	for i := len(f.goals) - 1; i >= 0 && len(out) < limit; i-- {
		g := f.goals[i]
		if g.UserID == userID && g.IsActive {
			out = append(out, GoalWithCard{Goal: g, CardTitle: "Walk"})
		}
	}
	return out, nil
}

func (f *fakeRepo) RecentTimestamps(_ context.Context, ids []string, perGoal int) (map[string][]time.Time, error) {
	out := map[string][]time.Time{}
	for _, id := range ids {
		times := f.logs[id]
		out[id] = times[:min(len(times), perGoal)]
	}
	return out, nil
}

func (f *fakeRepo) Deactivate(_ context.Context, goalID, userID string) error {
	for i := range f.goals {
		g := &f.goals[i]
		if g.ID == goalID && g.UserID == userID && g.IsActive {
			g.IsActive = false
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeRepo) Count(_ context.Context, userID string) (int, error) {
	n := 0
	for _, g := range f.goals {
		if g.UserID == userID {
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)
	return NewService(repo, activity.NewClock(clockwork.NewFakeClockAt(now), loc))
}

func TestCreateDefaultsAndConflict(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	g, err := svc.Create(context.Background(), userA, CreateGoalRequest{CardID: cardX})
	require.NoError(t, err)
	assert.Equal(t, FrequencyDaily, g.Frequency)
	assert.Equal(t, DefaultTargetDays, g.TargetDays)

	_, err = svc.Create(context.Background(), userA, CreateGoalRequest{CardID: cardX})
	assert.ErrorIs(t, err, core.ErrConflict)

	_, err = svc.Create(context.Background(), userB, CreateGoalRequest{CardID: cardX})
	assert.NoError(t, err)
}

func TestCreateAfterDeactivate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	g, err := svc.Create(context.Background(), userA, CreateGoalRequest{CardID: cardX})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), userA, g.ID))

	_, err = svc.Create(context.Background(), userA, CreateGoalRequest{CardID: cardX})
	assert.NoError(t, err)
}

func TestCreateUnknownCard(t *testing.T) {
	svc := newTestService(t, newFakeRepo())

	_, err := svc.Create(context.Background(), userA, CreateGoalRequest{CardID: userB})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeactivateOtherUsersGoal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	g, err := svc.Create(context.Background(), userA, CreateGoalRequest{CardID: cardX})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Deactivate(context.Background(), userB, g.ID), core.ErrNotFound)
	assert.True(t, repo.goals[0].IsActive)
}

func TestListActiveComputesStreaks(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	g, err := svc.Create(context.Background(), userA, CreateGoalRequest{CardID: cardX, TargetDays: 4})
	require.NoError(t, err)

	now := svc.clock.Now()
	repo.logs[g.ID] = []time.Time{
		now.Add(-1 * time.Hour),
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -2),
		now.AddDate(0, 0, -5),
	}

	views, err := svc.ListActive(context.Background(), userA, 10)
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, 3, v.Streak)
	assert.Equal(t, 3, v.RecentLongestStreak)
	assert.True(t, v.TodayDone)
	assert.Equal(t, [7]bool{false, true, false, false, true, true, true}, v.Week)
	assert.Equal(t, 75, v.TargetPercent())
}

func TestRecentLongestStreakIsBoundedByRecentLogs(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	g, err := svc.Create(context.Background(), userA, CreateGoalRequest{CardID: cardX})
	require.NoError(t, err)

	now := svc.clock.Now()
	for i := range RecentLogLimit + 10 {
		repo.logs[g.ID] = append(repo.logs[g.ID], now.AddDate(0, 0, -i))
	}

	views, err := svc.ListActive(context.Background(), userA, 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, RecentLogLimit, views[0].RecentLongestStreak)

	body, err := json.Marshal(ToViewResponse(&views[0]))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"recent_longest_streak":30`)
	assert.NotContains(t, string(body), `"longest_streak"`)
}

func TestListActiveHidesInactiveGoals(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	g, err := svc.Create(context.Background(), userA, CreateGoalRequest{CardID: cardX})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), userA, g.ID))

	views, err := svc.ListActive(context.Background(), userA, 10)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestHandlerStatuses(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithIdentity(req.Context(), userA, "user")))
		})
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/goals", `{"card_id":"`+cardX+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data GoalResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	assert.Equal(t, http.StatusConflict, do(http.MethodPost, "/goals", `{"card_id":"`+cardX+`"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/goals", `{"card_id":"`+cardX+`","frequency":"hourly"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/goals", `{"card_id":"`+cardX+`","target_days":400}`).Code)

	rec = do(http.MethodGet, "/goals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"streak":0`)

	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/goals/"+created.Data.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "/goals/"+created.Data.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "/goals/not-a-uuid", "").Code)
}
