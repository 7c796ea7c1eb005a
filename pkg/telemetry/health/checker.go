package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Status values reported by the probes.
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusUnhealthy   = "unhealthy"
)

// CheckFunc is a function that performs a readiness check for a component.
// It returns nil if the component is ready, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// CheckResult represents the result of a single readiness check.
type CheckResult struct {
	// Status is "ok" or "unhealthy"
	Status string `json:"status"`

	// Message describes the failure
	Message string `json:"message,omitempty"`
}

// HealthStatus is the outcome of a probe.
type HealthStatus struct {
	// Status is "ok" or "unavailable"
	Status string `json:"status"`

	// Checks holds failing checks only.
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// OK reports whether the status is healthy.
func (s HealthStatus) OK() bool {
	return s.Status == StatusOK
}

// Checker manages readiness checks for system components.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc

	// Timeout for individual checks
	checkTimeout time.Duration

	logger *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger that failing readiness checks are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ErrCheckTimeout is reported when a readiness check does not return in time.
var ErrCheckTimeout = errors.New("health check timeout")

// New creates a new health checker with the specified check timeout.
// If timeout is 0, defaults to 5 seconds per check.
func New(checkTimeout time.Duration, opts ...Option) *Checker {
	if checkTimeout == 0 {
		checkTimeout = 5 * time.Second
	}

	c := &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterCheck registers a readiness check for a named component.
// If a check with the same name already exists, it will be replaced.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
}

// UnregisterCheck removes the check for a named component.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.checks, name)
}

// CheckLiveness reports that the process is running. It never runs
// component checks.
func (c *Checker) CheckLiveness(ctx context.Context) HealthStatus {
	return HealthStatus{Status: StatusOK}
}

// CheckReadiness runs all registered checks concurrently. With no checks
// registered the process is ready.
func (c *Checker) CheckReadiness(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	if len(checks) == 0 {
		return HealthStatus{Status: StatusOK}
	}

	results := make(map[string]CheckResult, len(checks))
	var resultMu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := c.runCheck(ctx, check)

			resultMu.Lock()
			results[name] = result
			resultMu.Unlock()
		}(name, check)
	}

	wg.Wait()

	failed := make(map[string]CheckResult)
	for name, result := range results {
		if result.Status != StatusOK {
			failed[name] = result
		}
	}

	if len(failed) == 0 {
		return HealthStatus{Status: StatusOK}
	}
	return HealthStatus{Status: StatusUnavailable, Checks: failed}
}

// runCheck executes a single check with timeout.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	// Run check in goroutine to support timeout
	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Status: StatusOK}

	case <-checkCtx.Done():
		return CheckResult{Status: StatusUnhealthy, Message: ErrCheckTimeout.Error()}
	}
}

// ListChecks returns the names of all registered checks.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}

	return names
}
