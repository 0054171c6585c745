// Package health aggregates dependency checks into a service-level
// verdict for the health endpoint.
package health

import (
	"context"
	"sync"
	"time"
)

// Status is the aggregate or per-dependency health verdict.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is one dependency's verdict.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Latency string `json:"latency"`
}

// Report is the full health endpoint payload.
type Report struct {
	Status    Status        `json:"status"`
	Checks    []CheckResult `json:"checks"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Check probes one dependency. Must respect ctx.
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to Check.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (c CheckFunc) Name() string                    { return c.CheckName }
func (c CheckFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

// checkTimeout bounds each individual probe.
const checkTimeout = 5 * time.Second

// Checker runs all registered checks concurrently and aggregates.
type Checker struct {
	checks []Check
}

// NewChecker creates a Checker over the given dependency checks.
func NewChecker(checks ...Check) *Checker {
	return &Checker{checks: checks}
}

// Run probes every dependency. The aggregate is healthy when all checks
// pass, unhealthy when all fail, degraded otherwise. Check order in the
// report matches registration order.
func (c *Checker) Run(ctx context.Context) Report {
	results := make([]CheckResult, len(c.checks))

	var wg sync.WaitGroup
	for i, check := range c.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			start := time.Now()
			err := check.Check(checkCtx)
			result := CheckResult{
				Name:    check.Name(),
				Status:  StatusHealthy,
				Latency: time.Since(start).Round(time.Millisecond).String(),
			}
			if err != nil {
				result.Status = StatusUnhealthy
				result.Detail = err.Error()
			}
			results[i] = result
		}()
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Status != StatusHealthy {
			failed++
		}
	}

	status := StatusHealthy
	switch {
	case len(results) > 0 && failed == len(results):
		status = StatusUnhealthy
	case failed > 0:
		status = StatusDegraded
	}

	return Report{
		Status:    status,
		Checks:    results,
		CheckedAt: time.Now().UTC(),
	}
}
