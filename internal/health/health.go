// Package health reports whether the metrics endpoint has usable data.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"grimm.is/ifcompat/internal/clock"
	imports "grimm.is/ifcompat/internal/import"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check represents a single health check.
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
}

// Report represents the overall health report.
type Report struct {
	Status    Status           `json:"status"`
	Checks    map[string]Check `json:"checks"`
	Timestamp time.Time        `json:"timestamp"`
}

// CheckFunc is a function that performs a health check.
type CheckFunc func(ctx context.Context) Check

// Checker runs registered checks and caches the report for a short TTL.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
	cache  *Report
	ttl    time.Duration
}

// NewChecker creates a checker with no checks registered.
func NewChecker(ttl time.Duration) *Checker {
	return &Checker{
		checks: make(map[string]CheckFunc),
		ttl:    ttl,
	}
}

// Register adds a health check.
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = fn
	c.cache = nil
}

// Check runs all health checks and returns a report.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	if c.cache != nil && clock.Since(c.cache.Timestamp) < c.ttl {
		report := *c.cache
		c.mu.RUnlock()
		return report
	}
	funcs := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		funcs[name] = fn
	}
	c.mu.RUnlock()

	checks := make(map[string]Check, len(funcs))
	overall := StatusHealthy

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, fn := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			check := fn(ctx)
			check.Name = name

			mu.Lock()
			defer mu.Unlock()
			checks[name] = check
			switch check.Status {
			case StatusUnhealthy:
				overall = StatusUnhealthy
			case StatusDegraded:
				if overall != StatusUnhealthy {
					overall = StatusDegraded
				}
			}
		}()
	}
	wg.Wait()

	report := Report{
		Status:    overall,
		Checks:    checks,
		Timestamp: clock.Now(),
	}

	c.mu.Lock()
	c.cache = &report
	c.mu.Unlock()

	return report
}

// Handler returns an HTTP handler serving the JSON report. Degraded is
// still 200; unhealthy is 503.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		report := c.Check(ctx)

		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(report)
	}
}

// LivenessHandler returns a simple liveness probe handler.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

// SnapshotSource is the part of the interface collector the snapshot check
// looks at.
type SnapshotSource interface {
	LastError() error
	GetLastUpdate() time.Time
}

// SnapshotCheck fails while the collector has never succeeded or its last
// attempt failed, and degrades once the data is older than maxAge.
func SnapshotCheck(src SnapshotSource, maxAge time.Duration) CheckFunc {
	return func(ctx context.Context) Check {
		start := clock.Now()
		check := Check{LastChecked: start}

		last := src.GetLastUpdate()
		switch err := src.LastError(); {
		case err != nil:
			check.Status = StatusUnhealthy
			check.Message = fmt.Sprintf("last snapshot failed: %v", err)
		case last.IsZero():
			check.Status = StatusUnhealthy
			check.Message = "no snapshot taken yet"
		case start.Sub(last) > maxAge:
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("snapshot is %s old", start.Sub(last).Round(time.Second))
		default:
			check.Status = StatusHealthy
			check.Message = fmt.Sprintf("snapshot taken at %s", last.Format(time.RFC3339))
		}

		check.Duration = clock.Since(start)
		return check
	}
}

// SysconfigCheck degrades when dir holds no readable ifcfg files.
func SysconfigCheck(dir string) CheckFunc {
	return func(ctx context.Context) Check {
		start := clock.Now()
		check := Check{LastChecked: start}

		files, err := imports.ScanDirectory(dir)
		if err != nil {
			check.Status = StatusDegraded
			check.Message = err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = fmt.Sprintf("%d ifcfg file(s) in %s", len(files), dir)
		}

		check.Duration = clock.Since(start)
		return check
	}
}
