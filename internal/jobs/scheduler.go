package jobs

import (
	"context"
	"sync"
	"time"

	"fleet-campus-admin/internal/logger"

	"go.uber.org/zap"
)

// RunFunc does one pass of a job and reports how many items it touched.
type RunFunc func(ctx context.Context) (int64, error)

// Job is a task repeated on a fixed interval
type Job struct {
	Name     string
	Interval time.Duration
	Run      RunFunc
	// RunOnStart runs the job once immediately instead of waiting a full
	// interval.
	RunOnStart bool
}

// Scheduler runs registered jobs on their own tickers until stopped.
type Scheduler struct {
	jobs    []Job
	metrics *MetricsTracker
	now     func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler(metrics *MetricsTracker) *Scheduler {
	if metrics == nil {
		metrics = NewMetricsTracker()
	}
	return &Scheduler{metrics: metrics, now: time.Now}
}

// Register adds a job. Jobs with a non-positive interval are skipped.
func (s *Scheduler) Register(job Job) {
	if job.Interval <= 0 || job.Run == nil {
		logger.Warn("Job not scheduled", zap.String("job", job.Name), zap.Duration("interval", job.Interval))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	s.metrics.Update(job.Name, func(m *JobMetrics) { m.Interval = job.Interval })
}

func (s *Scheduler) Metrics() *MetricsTracker {
	return s.metrics
}

// Start launches one goroutine per job. The jobs stop when ctx is done or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}

	logger.Info("Job scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop cancels every job and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	logger.Info("Job scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	logger.Info("Job started",
		zap.String("job", job.Name),
		zap.Duration("interval", job.Interval),
	)

	if job.RunOnStart {
		s.RunOnce(ctx, job)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Job stopped", zap.String("job", job.Name))
			return
		case <-ticker.C:
			s.RunOnce(ctx, job)
		}
	}
}

// RunOnce executes the job a single time and records its metrics.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) {
	start := s.now()
	items, err := s.safeRun(ctx, job)
	s.metrics.Record(job.Name, items, s.now().Sub(start), err, start)

	if err != nil {
		logger.Error("Job run failed",
			zap.String("job", job.Name),
			zap.Error(err),
		)
		return
	}

	logger.Debug("Job run finished",
		zap.String("job", job.Name),
		zap.Int64("items", items),
		zap.String("event", "job_run"),
	)
}

// Trigger runs the named job immediately, outside its schedule.
func (s *Scheduler) Trigger(ctx context.Context, name string) (*JobMetrics, error) {
	s.mu.Lock()
	var job *Job
	for i := range s.jobs {
		if s.jobs[i].Name == name {
			job = &s.jobs[i]
			break
		}
	}
	s.mu.Unlock()

	if job == nil {
		return nil, ErrJobNotFound
	}

	s.RunOnce(ctx, *job)
	m, _ := s.metrics.Get(name)
	return &m, nil
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (items int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", zap.String("job", job.Name), zap.Any("panic", r))
			err = errPanicked
		}
	}()
	return job.Run(ctx)
}
