// Package runner executes code cells. A Runner takes source text and, after
// some time, yields captured output or a program fault. How the output is
// computed is the runner's business; callers must not assume any latency.
package runner

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Result is the outcome of a completed run
type Result struct {
	Output string
	// Err holds the fault description when the program failed
	Err string
}

// Failed reports whether the program raised a fault
func (r Result) Failed() bool {
	return r.Err != ""
}

// Runner evaluates source text for one language. The returned error is set
// only when the run could not complete (cancelled, timed out); program faults
// are reported through Result.Err with any output captured before the fault.
type Runner interface {
	Run(ctx context.Context, source string) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, source string) (Result, error)

// Run calls f
func (f RunnerFunc) Run(ctx context.Context, source string) (Result, error) {
	return f(ctx, source)
}

// Registry maps language tags to runners
type Registry struct {
	runners  map[string]Runner
	fallback Runner
	timeout  time.Duration
}

// Config holds runner settings
type Config struct {
	Timeout     time.Duration
	PythonDelay time.Duration
}

// DefaultConfig returns the settings used when none are configured
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		PythonDelay: 1500 * time.Millisecond,
	}
}

// NewRegistry creates a registry with the built-in runners: javascript (goja),
// go (yaegi), starlark, and the simulated python backend which also serves
// any language without a runner of its own.
func NewRegistry(cfg Config) *Registry {
	simulated := NewSimulated(cfg.PythonDelay)
	r := &Registry{
		runners:  make(map[string]Runner),
		fallback: simulated,
		timeout:  cfg.Timeout,
	}
	r.Register("javascript", NewJavaScript())
	r.Register("go", NewGo())
	r.Register("starlark", NewStarlark())
	r.Register("python", simulated)
	return r
}

// Register binds a runner to a language tag
func (r *Registry) Register(language string, runner Runner) {
	r.runners[strings.ToLower(language)] = runner
}

// Lookup returns the runner for a language, falling back to the simulated one
func (r *Registry) Lookup(language string) Runner {
	if run, ok := r.runners[strings.ToLower(language)]; ok {
		return run
	}
	return r.fallback
}

// Languages lists the registered language tags in order
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.runners))
	for l := range r.runners {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Run evaluates source with the runner for language, bounded by the
// configured timeout.
func (r *Registry) Run(ctx context.Context, language, source string) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.Lookup(language).Run(ctx, source)
}
