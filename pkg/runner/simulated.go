package runner

import (
	"context"
	"time"
)

// SimulatedOutput is returned for languages without an execution backend
const SimulatedOutput = "Python execution requires a backend service.\n\nThis is a simulated output for demonstration purposes.\n\n[Execution would show results here]"

// Simulated stands in for an absent execution backend: it waits a fixed
// delay and returns a canned explanation.
type Simulated struct {
	delay time.Duration
}

// NewSimulated creates a simulated runner with the given delay
func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{delay: delay}
}

// Run implements Runner
func (s *Simulated) Run(ctx context.Context, _ string) (Result, error) {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return Result{Output: SimulatedOutput}, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
