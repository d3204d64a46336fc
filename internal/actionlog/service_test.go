// AngelaMos | 2026
// service_test.go

package actionlog

import (
	"context"
	"errors"
	"maps"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-app/praxis-api/internal/activity"
	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/progression"
)

const (
	testUser = "11111111-1111-4111-8111-111111111111"
	testCard = "22222222-2222-4222-8222-222222222222"
	testGoal = "33333333-3333-4333-8333-333333333333"
)

type fakeUser struct {
	points int
	rank   string
}

type fakeGoal struct {
	userID string
	cardID string
	active bool
}

// fakeStore is an in-memory ledger whose WithTx restores its state when fn
// fails.
type fakeStore struct {
	cards  map[string]bool
	goals  map[string]fakeGoal
	users  map[string]fakeUser
	logs   []ActionLog
	failOn string

	timestampsLimit int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cards: map[string]bool{testCard: true},
		goals: map[string]fakeGoal{testGoal: {userID: testUser, cardID: testCard, active: true}},
		users: map[string]fakeUser{testUser: {points: 0, rank: "Bronze"}},
	}
}

type fakeRepo struct {
	s *fakeStore
}

func (f *fakeRepo) WithTx(_ context.Context, fn func(tx Repository) error) error {
	users := maps.Clone(f.s.users)
	logs := len(f.s.logs)

	if err := fn(f); err != nil {
		f.s.users = users
		f.s.logs = f.s.logs[:logs]
		return err
	}
	return nil
}

func (f *fakeRepo) CardExists(_ context.Context, cardID string) (bool, error) {
	return f.s.cards[cardID], nil
}

func (f *fakeRepo) ActiveGoalForCard(_ context.Context, goalID, userID, cardID string) (bool, error) {
	g, ok := f.s.goals[goalID]
	return ok && g.active && g.userID == userID && g.cardID == cardID, nil
}

func (f *fakeRepo) Insert(_ context.Context, log *ActionLog) error {
	if f.s.failOn == "insert" {
		return errors.New("insert failed")
	}
	f.s.logs = append(f.s.logs, *log)
	return nil
}

func (f *fakeRepo) AddPoints(_ context.Context, userID string, points int) (int, string, error) {
	if f.s.failOn == "add_points" {
		return 0, "", errors.New("update failed")
	}
	u, ok := f.s.users[userID]
	if !ok {
		return 0, "", core.ErrNotFound
	}
	u.points += points
	f.s.users[userID] = u
	return u.points, u.rank, nil
}

func (f *fakeRepo) UpdateRank(_ context.Context, userID, rank string) error {
	if f.s.failOn == "update_rank" {
		return errors.New("rank update failed")
	}
	u := f.s.users[userID]
	u.rank = rank
	f.s.users[userID] = u
	return nil
}

func (f *fakeRepo) ListRecent(_ context.Context, userID string, limit int) ([]RecentLog, error) {
	var out []RecentLog
	for i := len(f.s.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.s.logs[i].UserID == userID {
			out = append(out, RecentLog{ActionLog: f.s.logs[i]})
		}
	}
	return out, nil
}

func (f *fakeRepo) Timestamps(_ context.Context, userID string, since time.Time, limit int) ([]time.Time, error) {
	f.s.timestampsLimit = limit
	var out []time.Time
	for i := len(f.s.logs) - 1; i >= 0 && len(out) < limit; i-- {
		l := f.s.logs[i]
		if l.UserID == userID && !l.DoneAt.Before(since) {
			out = append(out, l.DoneAt)
		}
	}
	return out, nil
}

func (f *fakeRepo) Count(_ context.Context, userID string) (int, error) {
	n := 0
	for _, l := range f.s.logs {
		if l.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Totals(_ context.Context) (*LedgerTotals, error) {
	totals := &LedgerTotals{Logs: len(f.s.logs)}
	sums := map[string]int{}
	for _, l := range f.s.logs {
		totals.Points += l.Points
		sums[l.UserID] += l.Points
	}
	for id, u := range f.s.users {
		if u.points != sums[id] {
			totals.Drifted++
		}
	}
	return totals, nil
}

func newTestService(t *testing.T, store *fakeStore) (*Service, *clockwork.FakeClock) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	fake := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC))
	return NewService(&fakeRepo{s: store}, activity.NewClock(fake, loc), nil), fake
}

func strPtr(s string) *string { return &s }

func TestLogCrossesRankBoundary(t *testing.T) {
	store := newFakeStore()
	store.users[testUser] = fakeUser{points: 190, rank: "Bronze"}
	svc, _ := newTestService(t, store)

	res, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
	require.NoError(t, err)

	assert.Equal(t, 200, store.users[testUser].points)
	assert.Equal(t, "Silver", store.users[testUser].rank)
	require.Len(t, store.logs, 1)
	assert.Equal(t, 10, store.logs[0].Points)

	assert.Equal(t, progression.Silver, res.Progress.Rank)
	assert.True(t, res.Promoted)
	assert.Equal(t, testUser, res.Log.UserID)
	assert.NotEmpty(t, res.Log.ID)
}

func TestLogRepeatedAddsTenEach(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store)

	const n = 25
	for range n {
		_, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
		require.NoError(t, err)
	}

	assert.Equal(t, 10*n, store.users[testUser].points)
	assert.Equal(t, "Silver", store.users[testUser].rank)
	assert.Len(t, store.logs, n)
}

func TestLedgerStaysBalanced(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store)

	for range 7 {
		_, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
		require.NoError(t, err)
	}
	store.failOn = "update_rank"
	for range 20 {
		_, _ = svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
	}

	totals, err := svc.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.users[testUser].points, totals.Points)
	assert.Zero(t, totals.Drifted)
}

func TestLogRollsBackOnFailure(t *testing.T) {
	for _, step := range []string{"insert", "add_points", "update_rank"} {
		t.Run(step, func(t *testing.T) {
			store := newFakeStore()
			store.users[testUser] = fakeUser{points: 790, rank: "Silver"}
			store.failOn = step
			svc, _ := newTestService(t, store)

			_, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
			require.Error(t, err)

			assert.Equal(t, fakeUser{points: 790, rank: "Silver"}, store.users[testUser])
			assert.Empty(t, store.logs)
		})
	}
}

func TestLogRejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		req    LogRequest
		target error
	}{
		{"no user", "", LogRequest{CardID: testCard}, core.ErrUnauthorized},
		{"missing card", testUser, LogRequest{CardID: "  "}, core.ErrInvalidInput},
		{"unknown card", testUser, LogRequest{CardID: "44444444-4444-4444-8444-444444444444"}, core.ErrNotFound},
		{"goal for other card", testUser, LogRequest{CardID: testCard, GoalID: strPtr("55555555-5555-4555-8555-555555555555")}, core.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc, _ := newTestService(t, store)

			_, err := svc.Log(context.Background(), tt.userID, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, store.logs)
			assert.Zero(t, store.users[testUser].points)
		})
	}
}

func TestLogInactiveGoal(t *testing.T) {
	store := newFakeStore()
	store.goals[testGoal] = fakeGoal{userID: testUser, cardID: testCard, active: false}
	svc, _ := newTestService(t, store)

	_, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard, GoalID: strPtr(testGoal)})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLogNoteAndGoal(t *testing.T) {
	store := newFakeStore()
	svc, fake := newTestService(t, store)

	res, err := svc.Log(context.Background(), testUser, LogRequest{
		CardID: testCard,
		GoalID: strPtr(testGoal),
		Note:   strPtr("  <b>walked</b> 20 minutes "),
	})
	require.NoError(t, err)

	require.NotNil(t, res.Log.Note)
	assert.Equal(t, "walked 20 minutes", *res.Log.Note)
	require.NotNil(t, res.Log.GoalID)
	assert.Equal(t, testGoal, *res.Log.GoalID)
	assert.True(t, res.Log.DoneAt.Equal(fake.Now()))
	assert.False(t, res.Promoted)
}

func TestLogNoteKeepsAmpersands(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store)

	note := strings.Repeat("&", MaxNoteLength)
	res, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard, Note: strPtr(note)})
	require.NoError(t, err)
	require.NotNil(t, res.Log.Note)
	assert.Equal(t, note, *res.Log.Note)

	res, err = svc.Log(context.Background(), testUser, LogRequest{CardID: testCard, Note: strPtr("Tom & Jerry's <3")})
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry's <3", *res.Log.Note)
}

func TestLogBlankNoteIsDropped(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store)

	res, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard, Note: strPtr("   ")})
	require.NoError(t, err)
	assert.Nil(t, res.Log.Note)
}

func TestCalendarUsesLedger(t *testing.T) {
	store := newFakeStore()
	svc, fake := newTestService(t, store)

	for range 2 {
		_, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
		require.NoError(t, err)
	}
	fake.Advance(48 * time.Hour)
	_, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
	require.NoError(t, err)

	days, err := svc.Calendar(context.Background(), testUser, 7)
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, 1, days[6].Count)
	assert.Equal(t, 0, days[5].Count)
	assert.Equal(t, 2, days[4].Count)
	assert.Equal(t, 2, days[4].Level)

	logs, err := svc.ListRecent(context.Background(), testUser, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestHistoryCapCoversWindow(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store)

	_, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
	require.NoError(t, err)

	times, err := svc.History(context.Background(), testUser)
	require.NoError(t, err)
	assert.Len(t, times, 1)
	assert.Equal(t, MaxHistoryRows, store.timestampsLimit)
	assert.Equal(t, MaxCalendarDays*HistoryRowsPerDay, store.timestampsLimit)
	assert.GreaterOrEqual(t, store.timestampsLimit/MaxCalendarDays, HistoryRowsPerDay)
}
