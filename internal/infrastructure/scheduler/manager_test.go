package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

func TestSchedulerManager_RegisterAndRunNow(t *testing.T) {
	m := NewSchedulerManager(logger.NewNopLogger())

	var expired, ranked atomic.Int32
	require.NoError(t, m.RegisterCheckinExpiry("@every 5m", BatchJobFunc(func(context.Context) (int, error) {
		expired.Add(1)
		return 3, nil
	})))
	require.NoError(t, m.RegisterRankingRefresh("*/15 * * * *", BatchJobFunc(func(context.Context) (int, error) {
		ranked.Add(1)
		return 0, errors.New("db down")
	})))
	assert.Equal(t, []string{"checkin-expiry", "ranking-refresh"}, m.JobNames())

	m.RunNow(context.Background())
	assert.Equal(t, int32(1), expired.Load())
	assert.Equal(t, int32(1), ranked.Load())
}

func TestSchedulerManager_InvalidSpec(t *testing.T) {
	m := NewSchedulerManager(logger.NewNopLogger())
	err := m.Register("bad", "every now and then", BatchJobFunc(func(context.Context) (int, error) { return 0, nil }))
	assert.Error(t, err)
	assert.Empty(t, m.JobNames())
}

func TestSchedulerManager_StartStop(t *testing.T) {
	m := NewSchedulerManager(logger.NewNopLogger())
	var runs atomic.Int32
	require.NoError(t, m.Register("tick", "@every 1s", BatchJobFunc(func(context.Context) (int, error) {
		runs.Add(1)
		return 1, nil
	})))

	m.Start()
	m.Start()
	assert.True(t, m.IsStarted())

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Stop(ctx))
	assert.False(t, m.IsStarted())
	assert.NoError(t, m.Stop(ctx))
}

type recordedRun struct {
	job string
	ok  bool
}

type fakeRecorder struct {
	runs []recordedRun
}

func (r *fakeRecorder) RecordJobRun(job string, _ time.Duration, err error) {
	r.runs = append(r.runs, recordedRun{job: job, ok: err == nil})
}

func TestSchedulerManager_RecordsRuns(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewSchedulerManager(logger.NewNopLogger()).WithRecorder(rec)
	require.NoError(t, m.Register("ok", "@every 1m", BatchJobFunc(func(context.Context) (int, error) { return 1, nil })))
	require.NoError(t, m.Register("fails", "@every 1m", BatchJobFunc(func(context.Context) (int, error) {
		return 0, errors.New("boom")
	})))

	m.RunNow(context.Background())
	assert.Equal(t, []recordedRun{{job: "ok", ok: true}, {job: "fails", ok: false}}, rec.runs)
}
