// Package scheduler runs the periodic backend jobs on a cron scheduler.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// BatchJob processes one batch per run and returns the number of items handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) { return f(ctx) }

// jobTimeout bounds a single run.
const jobTimeout = 5 * time.Minute

// JobRecorder observes job runs.
type JobRecorder interface {
	RecordJobRun(job string, d time.Duration, err error)
}

// SchedulerManager owns one cron instance for every backend job. A job that
// is still running when its next tick arrives skips that tick.
type SchedulerManager struct {
	cron     *cron.Cron
	logger   logger.Interface
	recorder JobRecorder

	jobs []registeredJob

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager evaluates cron expressions in the business timezone.
func NewSchedulerManager(log logger.Interface) *SchedulerManager {
	cl := &cronLogger{log: log}
	return &SchedulerManager{
		cron: cron.New(
			cron.WithLocation(biztime.Location()),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: log,
	}
}

// WithRecorder reports every run to r.
func (m *SchedulerManager) WithRecorder(r JobRecorder) *SchedulerManager {
	m.recorder = r
	return m
}

// Register schedules job under spec, a cron expression or a descriptor such
// as "@every 5m".
func (m *SchedulerManager) Register(name, spec string, job BatchJob) error {
	_, err := m.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		m.run(ctx, name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s with %q: %w", name, spec, err)
	}
	m.jobs = append(m.jobs, registeredJob{name: name, job: job})
	m.logger.Infow("registered job", "job", name, "schedule", spec)
	return nil
}

// RegisterCheckinExpiry schedules the stale reservation sweep.
func (m *SchedulerManager) RegisterCheckinExpiry(spec string, job BatchJob) error {
	return m.Register("checkin-expiry", spec, job)
}

// RegisterRankingRefresh schedules the leaderboard recomputation of active competitions.
func (m *SchedulerManager) RegisterRankingRefresh(spec string, job BatchJob) error {
	return m.Register("ranking-refresh", spec, job)
}

// RunNow executes every registered job once, synchronously.
func (m *SchedulerManager) RunNow(ctx context.Context) {
	for _, r := range m.jobs {
		m.logger.Debugw("running job on demand", "job", r.name)
		m.run(ctx, r.name, r.job)
	}
}

func (m *SchedulerManager) run(ctx context.Context, name string, job BatchJob) {
	start := biztime.NowUTC()
	count, err := job.Execute(ctx)
	if m.recorder != nil {
		m.recorder.RecordJobRun(name, time.Since(start), err)
	}
	if err != nil {
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(start),
		)
		return
	}
	if count > 0 {
		m.logger.Infow("scheduled job processed items",
			"job", name,
			"count", count,
			"duration", time.Since(start),
		)
	}
}

func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.cron.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.cron.Entries()))
}

// Stop waits for running jobs to finish or ctx to end.
func (m *SchedulerManager) Stop(ctx context.Context) error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")
	done := m.cron.Stop()
	m.started = false

	select {
	case <-done.Done():
		m.logger.Infow("scheduler manager stopped")
		return nil
	case <-ctx.Done():
		m.logger.Errorw("scheduler manager stop timed out", "error", ctx.Err())
		return ctx.Err()
	}
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// JobNames lists the registered jobs in registration order.
func (m *SchedulerManager) JobNames() []string {
	out := make([]string, 0, len(m.jobs))
	for _, r := range m.jobs {
		out = append(out, r.name)
	}
	return out
}

type registeredJob struct {
	name string
	job  BatchJob
}

// cronLogger routes cron's own messages to the application logger.
type cronLogger struct {
	log logger.Interface
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
