// AngelaMos | 2026
// repository_test.go

package actionlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-app/praxis-api/internal/activity"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := activity.NewClock(
		clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)),
		time.UTC,
	)
	return NewService(NewRepository(sqlx.NewDb(db, "pgx")), clock, nil), mock
}

func TestRepositoryLogCommitsAllStatements(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM action_cards").
		WithArgs(testCard).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO action_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SET points = points").
		WithArgs(testUser, 10).
		WillReturnRows(sqlmock.NewRows([]string{"points", "rank"}).AddRow(200, "Bronze"))
	mock.ExpectExec("SET rank").
		WithArgs(testUser, "Silver").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
	require.NoError(t, err)
	assert.True(t, res.Promoted)
	assert.Equal(t, 200, res.Progress.Points)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLogSkipsRankWriteWhenUnchanged(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM action_cards").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO action_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SET points = points").
		WillReturnRows(sqlmock.NewRows([]string{"points", "rank"}).AddRow(120, "Bronze"))
	mock.ExpectCommit()

	res, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
	require.NoError(t, err)
	assert.False(t, res.Promoted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLogRollsBackWhenPointsFail(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM action_cards").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO action_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SET points = points").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLogUnknownCardRollsBack(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM action_cards").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := svc.Log(context.Background(), testUser, LogRequest{CardID: testCard})
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryTimestamps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "pgx"))
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT done_at").
		WithArgs(testUser, since, 500).
		WillReturnRows(sqlmock.NewRows([]string{"done_at"}).AddRow(t1))

	times, err := repo.Timestamps(context.Background(), testUser, since, 500)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{t1}, times)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryTotals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM action_logs").
		WillReturnRows(sqlmock.NewRows([]string{"logs", "points", "drifted"}).AddRow(12, 120, 0))

	totals, err := NewRepository(sqlx.NewDb(db, "pgx")).Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LedgerTotals{Logs: 12, Points: 120}, *totals)
	require.NoError(t, mock.ExpectationsWereMet())
}
