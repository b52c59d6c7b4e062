package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnce_RecordsMetrics(t *testing.T) {
	s := NewScheduler(nil)
	calls := 0
	job := Job{
		Name:     EmailRepair,
		Interval: time.Hour,
		Run: func(context.Context) (int64, error) {
			calls++
			if calls == 2 {
				return 0, errors.New("database unavailable")
			}
			return 3, nil
		},
	}
	s.Register(job)

	s.RunOnce(context.Background(), job)
	s.RunOnce(context.Background(), job)

	m, ok := s.Metrics().Get(EmailRepair)
	require.True(t, ok)
	assert.Equal(t, time.Hour, m.Interval)
	assert.Equal(t, int64(2), m.Runs)
	assert.Equal(t, int64(1), m.Failures)
	assert.Equal(t, int64(3), m.ItemsProcessed)
	assert.Equal(t, int64(3), m.LastItems)
	assert.Equal(t, "database unavailable", m.LastError)

	s.RunOnce(context.Background(), job)
	m, _ = s.Metrics().Get(EmailRepair)
	assert.Empty(t, m.LastError)
	assert.Equal(t, int64(6), m.ItemsProcessed)
}

func TestRunOnce_RecoversPanic(t *testing.T) {
	s := NewScheduler(nil)
	job := Job{
		Name:     ReminderScan,
		Interval: time.Minute,
		Run: func(context.Context) (int64, error) {
			panic("nil vehicle")
		},
	}

	assert.NotPanics(t, func() { s.RunOnce(context.Background(), job) })

	m, ok := s.Metrics().Get(ReminderScan)
	require.True(t, ok)
	assert.Equal(t, int64(1), m.Failures)
	assert.Equal(t, errPanicked.Error(), m.LastError)
}

func TestRegister_SkipsInvalidJobs(t *testing.T) {
	s := NewScheduler(nil)
	s.Register(Job{Name: "disabled", Interval: 0, Run: func(context.Context) (int64, error) { return 0, nil }})
	s.Register(Job{Name: "no_run", Interval: time.Second})

	assert.Empty(t, s.Metrics().Snapshot())

	_, err := s.Trigger(context.Background(), "disabled")
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Equal(t, "JOB_NOT_FOUND", appErrors.CodeOf(err))
}

func TestTrigger_RunsOutsideSchedule(t *testing.T) {
	s := NewScheduler(nil)
	s.Register(Job{
		Name:     BudgetRefresh,
		Interval: 24 * time.Hour,
		Run:      Counter(func(context.Context) (int, error) { return 4, nil }),
	})

	m, err := s.Trigger(context.Background(), BudgetRefresh)
	require.NoError(t, err)

	assert.Equal(t, int64(1), m.Runs)
	assert.Equal(t, int64(4), m.LastItems)
}

func TestStartStop_RunOnStart(t *testing.T) {
	s := NewScheduler(nil)
	var runs atomic.Int64
	started := make(chan struct{}, 1)
	s.Register(Job{
		Name:       TokenCleanup,
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(context.Context) (int64, error) {
			runs.Add(1)
			select {
			case started <- struct{}{}:
			default:
			}
			return 0, nil
		},
	})

	s.Start(context.Background())
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int64(1), runs.Load())
}

func TestStart_TicksUntilCancelled(t *testing.T) {
	s := NewScheduler(nil)
	var runs atomic.Int64
	s.Register(Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) (int64, error) {
			runs.Add(1)
			return 1, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestMetricsTracker_SnapshotOrderAndListeners(t *testing.T) {
	tracker := NewMetricsTracker()
	var seen []string
	tracker.OnChange(func(m JobMetrics) { seen = append(seen, m.Name) })

	tracker.Record("b", 1, time.Millisecond, nil, time.Now())
	tracker.Record("a", 2, 3*time.Millisecond, nil, time.Now())
	tracker.Record("a", 2, time.Millisecond, nil, time.Now())

	snap := tracker.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].Name)
	assert.Equal(t, 2*time.Millisecond, snap[0].AverageDuration)
	assert.Equal(t, []string{"b", "a", "a"}, seen)
}
