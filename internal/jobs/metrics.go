package jobs

import (
	"sort"
	"sync"
	"time"
)

// JobMetrics tracks the runs of one periodic job
type JobMetrics struct {
	Name            string        `json:"name"`
	Interval        time.Duration `json:"interval"`
	Runs            int64         `json:"runs"`
	Failures        int64         `json:"failures"`
	ItemsProcessed  int64         `json:"items_processed"`
	LastItems       int64         `json:"last_items"`
	LastRunAt       time.Time     `json:"last_run_at"`
	LastError       string        `json:"last_error,omitempty"`
	AverageDuration time.Duration `json:"average_duration"`
}

// MetricsTracker is a goroutine-safe registry of JobMetrics.
type MetricsTracker struct {
	mu        sync.RWMutex
	metrics   map[string]*JobMetrics
	listeners []func(JobMetrics)
}

func NewMetricsTracker() *MetricsTracker {
	return &MetricsTracker{metrics: make(map[string]*JobMetrics)}
}

// Update applies fn to the named job's metrics, creating them if needed.
func (t *MetricsTracker) Update(name string, fn func(*JobMetrics)) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.metrics[name]
	if !ok {
		m = &JobMetrics{Name: name}
		t.metrics[name] = m
	}
	fn(m)

	snapshot := *m
	for _, listener := range t.listeners {
		listener(snapshot)
	}
}

// Record folds one run's outcome into the job's metrics.
func (t *MetricsTracker) Record(name string, items int64, took time.Duration, err error, at time.Time) {
	t.Update(name, func(m *JobMetrics) {
		m.Runs++
		m.LastRunAt = at
		if m.AverageDuration == 0 {
			m.AverageDuration = took
		} else {
			m.AverageDuration = (m.AverageDuration + took) / 2
		}
		if err != nil {
			m.Failures++
			m.LastError = err.Error()
			return
		}
		m.LastError = ""
		m.LastItems = items
		m.ItemsProcessed += items
	})
}

// Snapshot returns copies of every job's metrics ordered by name.
func (t *MetricsTracker) Snapshot() []JobMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]JobMetrics, 0, len(t.metrics))
	for _, m := range t.metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns one job's metrics.
func (t *MetricsTracker) Get(name string) (JobMetrics, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m, ok := t.metrics[name]
	if !ok {
		return JobMetrics{}, false
	}
	return *m, true
}

// OnChange registers a callback invoked whenever metrics are updated.
func (t *MetricsTracker) OnChange(listener func(JobMetrics)) {
	if listener == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, listener)
}
