// AngelaMos | 2026
// scheduler_test.go

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-app/praxis-api/internal/metrics"
)

type fakePurger struct {
	calls int
	err   error
}

func (f *fakePurger) PurgeExpiredTokens(context.Context) (int64, error) {
	f.calls++
	return 3, f.err
}

func TestNewRegistersJobs(t *testing.T) {
	s, err := New(clockwork.NewFakeClock(), TokenCleanup(&fakePurger{}, time.Hour))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })

	assert.Equal(t, []string{TokenCleanupJob}, s.Jobs())
}

func TestNewRejectsInvalidJobs(t *testing.T) {
	_, err := New(nil, Job{Name: "bad", Interval: 0, Run: func(context.Context) error { return nil }})
	assert.Error(t, err)

	_, err = New(nil, Job{Interval: time.Minute})
	assert.Error(t, err)
}

func TestRunRecordsOutcome(t *testing.T) {
	purger := &fakePurger{}
	s, err := New(clockwork.NewFakeClock())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })

	job := TokenCleanup(purger, time.Hour)
	success := metrics.SchedulerJobRuns.WithLabelValues(job.Name, "success")
	failure := metrics.SchedulerJobRuns.WithLabelValues(job.Name, "error")
	okBefore, errBefore := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	s.run(job)
	purger.err = errors.New("db down")
	s.run(job)

	assert.Equal(t, 2, purger.calls)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(success))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(failure))
}

func TestShutdownCancelsJobContext(t *testing.T) {
	var seen context.Context
	s, err := New(clockwork.NewFakeClock())
	require.NoError(t, err)

	s.Start()
	require.NoError(t, s.Shutdown())

	s.run(Job{Name: "late_job", Interval: time.Minute, Run: func(ctx context.Context) error {
		seen = ctx
		return nil
	}})

	require.NotNil(t, seen)
	assert.ErrorIs(t, seen.Err(), context.Canceled)
}
