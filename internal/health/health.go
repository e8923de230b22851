package health

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/commerce-backend/pkg/logger"
	"github.com/google/uuid"
)

const defaultCheckTimeout = 5 * time.Second

// Checker probes one configured backend.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result is the outcome of one checker in a refresh run.
type Result struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latency"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Report collects the results of one refresh run, in registration order.
type Report struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Results   []Result  `json:"results"`
}

// Healthy reports whether the run happened and every check was up.
func (r Report) Healthy() bool {
	if r.RunID == "" {
		return false
	}
	for _, res := range r.Results {
		if res.Status != StatusUp {
			return false
		}
	}
	return true
}

// Registry runs the registered checkers and keeps the last report.
type Registry struct {
	checkers []Checker
	timeout  time.Duration
	logger   *logger.Logger

	mu   sync.RWMutex
	last Report

	// serializes on-demand refreshes so concurrent callers share one run
	refreshMu sync.Mutex
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		timeout: defaultCheckTimeout,
		logger:  log.WithComponent("health"),
	}
}

// SetTimeout changes the per-check deadline.
func (r *Registry) SetTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

func (r *Registry) Register(c Checker) {
	r.checkers = append(r.checkers, c)
}

// Names lists the registered checkers in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.checkers))
	for i, c := range r.checkers {
		names[i] = c.Name()
	}
	return names
}

// Refresh runs every checker concurrently and stores the resulting report.
func (r *Registry) Refresh(ctx context.Context) Report {
	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make([]Result, len(r.checkers)),
	}

	var wg sync.WaitGroup
	for i, c := range r.checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			report.Results[i] = r.run(ctx, c)
		}(i, c)
	}
	wg.Wait()

	for _, res := range report.Results {
		if res.Status == StatusDown {
			r.logger.WithField("check", res.Name).WithField("run_id", report.RunID).Warn("Backend check failed: " + res.Error)
		}
	}
	r.logger.Debug(fmt.Sprintf("Health run %s finished with %d checks", report.RunID, len(report.Results)))

	r.mu.Lock()
	r.last = report
	r.mu.Unlock()

	return report
}

func (r *Registry) run(ctx context.Context, c Checker) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := c.Check(ctx)

	res := Result{
		Name:      c.Name(),
		Status:    StatusUp,
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
	}
	if err != nil {
		res.Status = StatusDown
		res.Error = err.Error()
	}
	return res
}

// Last returns the most recent report. It is empty before the first Refresh.
func (r *Registry) Last() Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Fresh returns the last report, running a refresh first when there is none
// or it started more than maxAge ago.
func (r *Registry) Fresh(ctx context.Context, maxAge time.Duration) Report {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	if last := r.Last(); last.RunID != "" && time.Since(last.StartedAt) <= maxAge {
		return last
	}
	return r.Refresh(ctx)
}

// Close releases checkers that hold connections.
func (r *Registry) Close() error {
	var firstErr error
	for _, c := range r.checkers {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
